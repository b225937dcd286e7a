// internal/commission/errors.go
package commission

import "fmt"

// ValidationError signals malformed or out-of-range input to the calculator
// or installment generator. Callers are expected to reject bad input before
// it reaches the core; this error exists so nothing is silently coerced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports an approval status change outside the
// allowed edge set. The approval record is left untouched when it is raised.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid transition from %q to %q: %s", e.Current, e.Requested, e.Reason)
	}
	return fmt.Sprintf("invalid transition from %q to %q", e.Current, e.Requested)
}
