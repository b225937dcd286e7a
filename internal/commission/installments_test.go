// internal/commission/installments_test.go
package commission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/brokerage-backend/internal/models"
)

func scheduleOf(entries ...models.ScheduleInstallment) models.PaymentSchedule {
	return models.PaymentSchedule{
		Name:             "Test Schedule",
		InstallmentCount: len(entries),
		Installments:     entries,
	}
}

func entry(number int, percentage float64, days int) models.ScheduleInstallment {
	return models.ScheduleInstallment{
		InstallmentNumber:    number,
		Percentage:           decimal.NewFromFloat(percentage),
		DaysAfterTransaction: days,
	}
}

func TestGenerateInstallmentsFiftyFifty(t *testing.T) {
	transactionID := uuid.New()
	agentID := uuid.New()
	transactionDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	installments := GenerateInstallments(
		transactionID,
		agentID,
		decimal.NewFromInt(15000),
		scheduleOf(entry(1, 50, 30), entry(2, 50, 60)),
		transactionDate,
	)
	require.Len(t, installments, 2)

	first := installments[0]
	assert.Equal(t, 1, first.InstallmentNumber)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), first.ScheduledDate)
	assert.Equal(t, first.ScheduledDate, first.DueDate)
	assert.Equal(t, models.InstallmentStatusPending, first.Status)
	assert.Equal(t, transactionID, first.TransactionID)
	assert.Equal(t, agentID, first.AgentID)

	// 2024 is a leap year: 60 calendar days past Jan 1 lands on Mar 1.
	second := installments[1]
	assert.Equal(t, 2, second.InstallmentNumber)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), second.ScheduledDate)
}

func TestGenerateInstallmentsOrdersByNumber(t *testing.T) {
	transactionDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	// Entries supplied out of order must come back sorted.
	installments := GenerateInstallments(
		uuid.New(),
		uuid.New(),
		decimal.NewFromInt(10000),
		scheduleOf(entry(3, 25, 90), entry(1, 50, 0), entry(2, 25, 30)),
		transactionDate,
	)
	require.Len(t, installments, 3)

	assert.Equal(t, 1, installments[0].InstallmentNumber)
	assert.Equal(t, 2, installments[1].InstallmentNumber)
	assert.Equal(t, 3, installments[2].InstallmentNumber)
	assert.Equal(t, transactionDate, installments[0].ScheduledDate)
	assert.True(t, installments[0].Amount.Equal(decimal.NewFromInt(5000)))
}

func TestGenerateInstallmentsEmptySchedule(t *testing.T) {
	installments := GenerateInstallments(
		uuid.New(),
		uuid.New(),
		decimal.NewFromInt(15000),
		scheduleOf(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.Empty(t, installments)
	assert.NotNil(t, installments)
}

func TestGenerateInstallmentsRoundsPerInstallment(t *testing.T) {
	installments := GenerateInstallments(
		uuid.New(),
		uuid.New(),
		decimal.NewFromFloat(291.55),
		scheduleOf(entry(1, 33.33, 0), entry(2, 33.33, 30), entry(3, 33.34, 60)),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, installments, 3)

	// 291.55 * 33.33% = 97.173615 -> 97.17
	assert.True(t, installments[0].Amount.Equal(decimal.NewFromFloat(97.17)), "amount = %s", installments[0].Amount)
	assert.True(t, installments[1].Amount.Equal(decimal.NewFromFloat(97.17)))
	// 291.55 * 33.34% = 97.202770 -> 97.20
	assert.True(t, installments[2].Amount.Equal(decimal.NewFromFloat(97.20)), "amount = %s", installments[2].Amount)
}

func TestGenerateInstallmentsIdempotentForSameInputs(t *testing.T) {
	transactionID := uuid.New()
	agentID := uuid.New()
	schedule := scheduleOf(entry(1, 50, 30), entry(2, 50, 60))
	transactionDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	total := decimal.NewFromInt(15000)

	first := GenerateInstallments(transactionID, agentID, total, schedule, transactionDate)
	second := GenerateInstallments(transactionID, agentID, total, schedule, transactionDate)
	require.Len(t, second, len(first))

	for i := range first {
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
		assert.Equal(t, first[i].ScheduledDate, second[i].ScheduledDate)
		assert.Equal(t, first[i].InstallmentNumber, second[i].InstallmentNumber)
	}
}
