// internal/commission/approval.go
package commission

// Status is an approval lifecycle state. The happy path runs
// Pending -> Under Review -> Approved -> Ready for Payment -> Paid, with
// Rejected reachable from Pending or Under Review. Paid and Rejected are
// terminal.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusUnderReview     Status = "Under Review"
	StatusApproved        Status = "Approved"
	StatusReadyForPayment Status = "Ready for Payment"
	StatusPaid            Status = "Paid"
	StatusRejected        Status = "Rejected"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:         {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview:     {StatusApproved, StatusRejected},
	StatusApproved:        {StatusReadyForPayment},
	StatusReadyForPayment: {StatusPaid},
	StatusPaid:            {},
	StatusRejected:        {},
}

// ParseStatus maps a stored status string onto a known Status.
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	_, ok := allowedTransitions[status]
	return status, ok
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition checks an approval status change against the allowed edge
// set. When thresholdExceeded is true the direct Pending -> Approved edge is
// disallowed: a commission above the review limit must pass through Under
// Review first. Returns an *InvalidTransitionError describing the violation,
// or nil if the transition is legal.
func CanTransition(from, to Status, thresholdExceeded bool) error {
	targets, known := allowedTransitions[from]
	if !known {
		return &InvalidTransitionError{Current: from, Requested: to, Reason: "unknown current status"}
	}

	if thresholdExceeded && from == StatusPending && to == StatusApproved {
		return &InvalidTransitionError{
			Current:   from,
			Requested: to,
			Reason:    "commission exceeds review threshold and must go through Under Review",
		}
	}

	for _, target := range targets {
		if target == to {
			return nil
		}
	}

	return &InvalidTransitionError{Current: from, Requested: to}
}
