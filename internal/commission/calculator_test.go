// internal/commission/calculator_test.go
package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/brokerage-backend/internal/models"
)

func tier(percentage int) models.AgentTier {
	return models.AgentTier{Name: "Test Tier", AgentPercentage: percentage}
}

func TestCalculateWithoutCoBroking(t *testing.T) {
	breakdown, err := Calculate(
		decimal.NewFromInt(500000),
		decimal.NewFromInt(3),
		nil,
		tier(70),
	)
	require.NoError(t, err)

	assert.True(t, breakdown.TotalCommission.Equal(decimal.NewFromInt(15000)), "total = %s", breakdown.TotalCommission)
	assert.True(t, breakdown.OwnAgencyCommission.Equal(decimal.NewFromInt(15000)))
	assert.True(t, breakdown.CoAgencyCommission.IsZero())
	assert.True(t, breakdown.AgentShare.Equal(decimal.NewFromInt(10500)), "agent share = %s", breakdown.AgentShare)
	assert.True(t, breakdown.AgencyShare.Equal(decimal.NewFromInt(4500)), "agency share = %s", breakdown.AgencyShare)
	assert.Equal(t, 100, breakdown.OwnAgencySplit)
	assert.Equal(t, 70, breakdown.AgentPercentage)
	assert.Equal(t, 30, breakdown.AgencyPercentage)
}

func TestCalculateWithCoBroking(t *testing.T) {
	breakdown, err := Calculate(
		decimal.NewFromInt(500000),
		decimal.NewFromInt(3),
		&CoBrokingTerms{Enabled: true, CommissionSplit: 60},
		tier(70),
	)
	require.NoError(t, err)

	assert.True(t, breakdown.TotalCommission.Equal(decimal.NewFromInt(15000)))
	assert.True(t, breakdown.OwnAgencyCommission.Equal(decimal.NewFromInt(9000)))
	assert.True(t, breakdown.CoAgencyCommission.Equal(decimal.NewFromInt(6000)))
	assert.True(t, breakdown.AgentShare.Equal(decimal.NewFromInt(6300)))
	assert.True(t, breakdown.AgencyShare.Equal(decimal.NewFromInt(2700)))
}

func TestCalculateDisabledCoBrokingCollapses(t *testing.T) {
	// Disabled co-broking must be identical to no co-broking at all, even
	// when a stale split value is present.
	withNil, err := Calculate(decimal.NewFromInt(800000), decimal.NewFromFloat(2.5), nil, tier(80))
	require.NoError(t, err)

	withDisabled, err := Calculate(
		decimal.NewFromInt(800000),
		decimal.NewFromFloat(2.5),
		&CoBrokingTerms{Enabled: false, CommissionSplit: 40},
		tier(80),
	)
	require.NoError(t, err)

	assert.True(t, withNil.TotalCommission.Equal(withDisabled.TotalCommission))
	assert.True(t, withNil.AgentShare.Equal(withDisabled.AgentShare))
	assert.True(t, withNil.AgencyShare.Equal(withDisabled.AgencyShare))
	assert.True(t, withDisabled.CoAgencyCommission.IsZero())
	assert.Equal(t, 100, withDisabled.OwnAgencySplit)
}

func TestCalculateConservation(t *testing.T) {
	// agentShare + agencyShare + coAgencyCommission must equal the total
	// exactly, including awkward values that round.
	cases := []struct {
		name  string
		value decimal.Decimal
		rate  decimal.Decimal
		split int
		tier  int
	}{
		{"rent with repeating rate", decimal.NewFromInt(3500), decimal.NewFromFloat(8.33), 0, 70},
		{"odd value odd split", decimal.NewFromFloat(123456.78), decimal.NewFromFloat(2.75), 33, 75},
		{"small value", decimal.NewFromFloat(0.01), decimal.NewFromFloat(0.01), 51, 85},
		{"large sale", decimal.NewFromInt(98765432), decimal.NewFromFloat(1.95), 67, 90},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var terms *CoBrokingTerms
			if tc.split > 0 {
				terms = &CoBrokingTerms{Enabled: true, CommissionSplit: tc.split}
			}

			breakdown, err := Calculate(tc.value, tc.rate, terms, tier(tc.tier))
			require.NoError(t, err)

			recomposed := breakdown.AgentShare.
				Add(breakdown.AgencyShare).
				Add(breakdown.CoAgencyCommission)
			assert.True(t, recomposed.Equal(breakdown.TotalCommission),
				"%s + %s + %s != %s",
				breakdown.AgentShare, breakdown.AgencyShare, breakdown.CoAgencyCommission, breakdown.TotalCommission)

			ownRecomposed := breakdown.AgentShare.Add(breakdown.AgencyShare)
			assert.True(t, ownRecomposed.Equal(breakdown.OwnAgencyCommission))
		})
	}
}

func TestCalculateRoundsToCents(t *testing.T) {
	breakdown, err := Calculate(decimal.NewFromInt(3500), decimal.NewFromFloat(8.33), nil, tier(70))
	require.NoError(t, err)

	// 3500 * 8.33% = 291.55; 70% of that is 204.085 which rounds to 204.09
	assert.True(t, breakdown.TotalCommission.Equal(decimal.NewFromFloat(291.55)))
	assert.True(t, breakdown.AgentShare.Equal(decimal.NewFromFloat(204.09)), "agent share = %s", breakdown.AgentShare)
	assert.True(t, breakdown.AgencyShare.Equal(decimal.NewFromFloat(87.46)), "agency share = %s", breakdown.AgencyShare)
	assert.LessOrEqual(t, breakdown.AgentShare.Exponent(), int32(0))
	assert.GreaterOrEqual(t, breakdown.AgentShare.Exponent(), int32(-2))
}

func TestCalculateDeterministic(t *testing.T) {
	first, err := Calculate(decimal.NewFromFloat(777777.77), decimal.NewFromFloat(3.33), &CoBrokingTerms{Enabled: true, CommissionSplit: 45}, tier(75))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Calculate(decimal.NewFromFloat(777777.77), decimal.NewFromFloat(3.33), &CoBrokingTerms{Enabled: true, CommissionSplit: 45}, tier(75))
		require.NoError(t, err)
		assert.True(t, first.AgentShare.Equal(again.AgentShare))
		assert.True(t, first.AgencyShare.Equal(again.AgencyShare))
		assert.True(t, first.CoAgencyCommission.Equal(again.CoAgencyCommission))
	}
}

func TestCalculateRejectsNonPositiveInputs(t *testing.T) {
	var validationErr *ValidationError

	_, err := Calculate(decimal.Zero, decimal.NewFromInt(3), nil, tier(70))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "transaction_value", validationErr.Field)

	_, err = Calculate(decimal.NewFromInt(-1000), decimal.NewFromInt(3), nil, tier(70))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "transaction_value", validationErr.Field)

	_, err = Calculate(decimal.NewFromInt(500000), decimal.Zero, nil, tier(70))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "commission_rate", validationErr.Field)

	_, err = Calculate(decimal.NewFromInt(500000), decimal.NewFromFloat(-0.5), nil, tier(70))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "commission_rate", validationErr.Field)
}

func TestCalculateRejectsOutOfRangeCoBrokingSplit(t *testing.T) {
	var validationErr *ValidationError

	for _, split := range []int{0, -10, 100, 150} {
		_, err := Calculate(
			decimal.NewFromInt(500000),
			decimal.NewFromInt(3),
			&CoBrokingTerms{Enabled: true, CommissionSplit: split},
			tier(70),
		)
		require.ErrorAs(t, err, &validationErr, "split = %d", split)
		assert.Equal(t, "commission_split", validationErr.Field)
	}

	// The range only applies while co-broking is enabled.
	_, err := Calculate(
		decimal.NewFromInt(500000),
		decimal.NewFromInt(3),
		&CoBrokingTerms{Enabled: false, CommissionSplit: 0},
		tier(70),
	)
	require.NoError(t, err)
}
