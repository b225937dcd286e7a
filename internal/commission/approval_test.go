// internal/commission/approval_test.go
package commission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionMatrix(t *testing.T) {
	all := []Status{
		StatusPending, StatusUnderReview, StatusApproved,
		StatusReadyForPayment, StatusPaid, StatusRejected,
	}

	legal := map[Status][]Status{
		StatusPending:         {StatusUnderReview, StatusApproved, StatusRejected},
		StatusUnderReview:     {StatusApproved, StatusRejected},
		StatusApproved:        {StatusReadyForPayment},
		StatusReadyForPayment: {StatusPaid},
		StatusPaid:            {},
		StatusRejected:        {},
	}

	for _, from := range all {
		for _, to := range all {
			allowed := false
			for _, target := range legal[from] {
				if target == to {
					allowed = true
				}
			}

			err := CanTransition(from, to, false)
			if allowed {
				assert.NoError(t, err, "%s -> %s should be legal", from, to)
			} else {
				var transitionErr *InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr, "%s -> %s should be illegal", from, to)
				assert.Equal(t, from, transitionErr.Current)
				assert.Equal(t, to, transitionErr.Requested)
			}
		}
	}
}

func TestCanTransitionThresholdBlocksDirectApproval(t *testing.T) {
	// Over-threshold commissions cannot skip review.
	err := CanTransition(StatusPending, StatusApproved, true)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Contains(t, transitionErr.Reason, "Under Review")

	// But the review route itself stays open.
	assert.NoError(t, CanTransition(StatusPending, StatusUnderReview, true))
	assert.NoError(t, CanTransition(StatusUnderReview, StatusApproved, true))
	assert.NoError(t, CanTransition(StatusPending, StatusRejected, true))
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	err := CanTransition(Status("Archived"), StatusApproved, false)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "unknown current status", transitionErr.Reason)
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("Ready for Payment")
	assert.True(t, ok)
	assert.Equal(t, StatusReadyForPayment, status)

	_, ok = ParseStatus("ready for payment")
	assert.False(t, ok, "status strings are case sensitive")

	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusPaid))
	assert.True(t, IsTerminal(StatusRejected))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusApproved))
}
