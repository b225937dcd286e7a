// internal/commission/schedule.go
package commission

import (
	"github.com/shopspring/decimal"

	"github.com/propfolio/brokerage-backend/internal/models"
)

// FallbackSchedule is the built-in payment schedule used when the catalog has
// no default flagged or is unreachable: 50% at +30 days, 50% at +60 days.
// Callers rely on a schedule always being resolvable, so configuration-data
// failures degrade to this instead of propagating.
func FallbackSchedule() models.PaymentSchedule {
	fifty := decimal.NewFromInt(50)

	return models.PaymentSchedule{
		Name:             "Standard Payment Schedule",
		Description:      "Default payment schedule with two installments",
		InstallmentCount: 2,
		IsDefault:        true,
		Installments: []models.ScheduleInstallment{
			{
				InstallmentNumber:    1,
				Percentage:           fifty,
				DaysAfterTransaction: 30,
				Description:          "50% after 30 days",
			},
			{
				InstallmentNumber:    2,
				Percentage:           fifty,
				DaysAfterTransaction: 60,
				Description:          "Remaining 50% after 60 days",
			},
		},
	}
}

// ValidateSchedule checks the semantic invariants a schedule template must
// hold before installments generated from it can reconcile to the total
// commission: unique 1-based installment numbers, non-negative day offsets,
// and percentages summing to exactly 100. Violations are flagged here at
// configuration time; the generator itself trusts its input.
func ValidateSchedule(schedule models.PaymentSchedule) error {
	if len(schedule.Installments) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(schedule.Installments))
	sum := decimal.Zero

	for _, installment := range schedule.Installments {
		if installment.InstallmentNumber < 1 {
			return &ValidationError{Field: "installment_number", Message: "must be 1-based"}
		}
		if seen[installment.InstallmentNumber] {
			return &ValidationError{Field: "installment_number", Message: "must be unique within the schedule"}
		}
		seen[installment.InstallmentNumber] = true

		if installment.DaysAfterTransaction < 0 {
			return &ValidationError{Field: "days_after_transaction", Message: "must not be negative"}
		}
		if installment.Percentage.LessThan(decimal.Zero) || installment.Percentage.GreaterThan(oneHundred) {
			return &ValidationError{Field: "percentage", Message: "must be between 0 and 100"}
		}

		sum = sum.Add(installment.Percentage)
	}

	if !sum.Equal(oneHundred) {
		return &ValidationError{Field: "installments", Message: "percentages must sum to 100, got " + sum.String()}
	}

	return nil
}
