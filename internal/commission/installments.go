// internal/commission/installments.go
package commission

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propfolio/brokerage-backend/internal/models"
)

// GenerateInstallments materializes the dated installment rows for a
// commission according to a payment schedule. Scheduled dates are calendar-day
// additions to the transaction date with no business-day adjustment; amounts
// are the schedule percentage of the total, rounded to 2 decimal places; ids
// are left unset for the persistence layer to assign on insert.
//
// The generator performs no I/O and is idempotent for identical inputs. It
// has no memory of prior runs: callers must guard invocation with the
// transaction's installments_generated flag, or a retry would silently insert
// a duplicate batch.
//
// An empty schedule yields an empty slice, not an error — a transaction may
// use a single-payment/no-installment arrangement.
func GenerateInstallments(transactionID, agentID uuid.UUID, totalCommission decimal.Decimal, schedule models.PaymentSchedule, transactionDate time.Time) []models.CommissionInstallment {
	entries := make([]models.ScheduleInstallment, len(schedule.Installments))
	copy(entries, schedule.Installments)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].InstallmentNumber < entries[j].InstallmentNumber
	})

	installments := make([]models.CommissionInstallment, 0, len(entries))
	for _, entry := range entries {
		scheduledDate := transactionDate.AddDate(0, 0, entry.DaysAfterTransaction)
		amount := totalCommission.Mul(entry.Percentage).Div(oneHundred).Round(2)

		installments = append(installments, models.CommissionInstallment{
			TransactionID:     transactionID,
			AgentID:           agentID,
			InstallmentNumber: entry.InstallmentNumber,
			Amount:            amount,
			Percentage:        entry.Percentage,
			ScheduledDate:     scheduledDate,
			DueDate:           scheduledDate,
			Status:            models.InstallmentStatusPending,
		})
	}

	return installments
}
