// internal/commission/calculator.go
package commission

import (
	"github.com/shopspring/decimal"

	"github.com/propfolio/brokerage-backend/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// CoBrokingTerms is the co-broking configuration of a transaction.
// CommissionSplit is the percentage (1-99) retained by the owning agency;
// the remainder goes to the co-broker's agency. When Enabled is false all
// split math collapses to 100/0.
type CoBrokingTerms struct {
	Enabled         bool   `json:"enabled"`
	AgentName       string `json:"agent_name"`
	AgencyName      string `json:"agency_name"`
	ContactInfo     string `json:"contact_info"`
	CommissionSplit int    `json:"commission_split"`
}

// Breakdown is the derived monetary split of a transaction's commission. It
// is computed on demand and never persisted as its own entity.
type Breakdown struct {
	TotalCommission     decimal.Decimal `json:"total_commission"`
	OwnAgencyCommission decimal.Decimal `json:"own_agency_commission"`
	CoAgencyCommission  decimal.Decimal `json:"co_agency_commission"`
	AgentShare          decimal.Decimal `json:"agent_share"`
	AgencyShare         decimal.Decimal `json:"agency_share"`
	OwnAgencySplit      int             `json:"own_agency_split"`
	AgentPercentage     int             `json:"agent_percentage"`
	AgencyPercentage    int             `json:"agency_percentage"`
}

// Calculate derives the full commission breakdown for a transaction.
//
// Precondition: transactionValue > 0 and commissionRate > 0, and an enabled
// co-broking split must lie in 1-99; out-of-range inputs return a
// ValidationError rather than being clamped. Tier percentages are taken as
// given: whether they sum to 100 is a data-quality invariant enforced at
// configuration time, not here.
//
// Each derived figure is rounded to 2 decimal places exactly once, and the
// complementary figures (co-agency commission, agency share) are computed by
// subtraction so that
//
//	agentShare + agencyShare + coAgencyCommission == totalCommission
//
// holds exactly, not merely within tolerance. Pure function: no I/O, safe
// for concurrent use.
func Calculate(transactionValue, commissionRate decimal.Decimal, coBroking *CoBrokingTerms, tier models.AgentTier) (*Breakdown, error) {
	if transactionValue.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "transaction_value", Message: "must be greater than zero"}
	}
	if commissionRate.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "commission_rate", Message: "must be greater than zero"}
	}

	totalCommission := transactionValue.Mul(commissionRate).Div(oneHundred).Round(2)

	ownAgencySplit := 100
	if coBroking != nil && coBroking.Enabled {
		if coBroking.CommissionSplit < 1 || coBroking.CommissionSplit > 99 {
			return nil, &ValidationError{Field: "commission_split", Message: "must be between 1 and 99"}
		}
		ownAgencySplit = coBroking.CommissionSplit
	}

	ownAgencyCommission := totalCommission.
		Mul(decimal.NewFromInt(int64(ownAgencySplit))).
		Div(oneHundred).
		Round(2)
	coAgencyCommission := totalCommission.Sub(ownAgencyCommission)

	agentShare := ownAgencyCommission.
		Mul(decimal.NewFromInt(int64(tier.AgentPercentage))).
		Div(oneHundred).
		Round(2)
	agencyShare := ownAgencyCommission.Sub(agentShare)

	return &Breakdown{
		TotalCommission:     totalCommission,
		OwnAgencyCommission: ownAgencyCommission,
		CoAgencyCommission:  coAgencyCommission,
		AgentShare:          agentShare,
		AgencyShare:         agencyShare,
		OwnAgencySplit:      ownAgencySplit,
		AgentPercentage:     tier.AgentPercentage,
		AgencyPercentage:    100 - tier.AgentPercentage,
	}, nil
}
