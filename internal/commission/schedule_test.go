// internal/commission/schedule_test.go
package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/brokerage-backend/internal/models"
)

func TestFallbackSchedule(t *testing.T) {
	schedule := FallbackSchedule()

	require.Len(t, schedule.Installments, 2)
	assert.True(t, schedule.IsDefault)
	assert.Equal(t, 2, schedule.InstallmentCount)

	assert.Equal(t, 1, schedule.Installments[0].InstallmentNumber)
	assert.Equal(t, 30, schedule.Installments[0].DaysAfterTransaction)
	assert.True(t, schedule.Installments[0].Percentage.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, 2, schedule.Installments[1].InstallmentNumber)
	assert.Equal(t, 60, schedule.Installments[1].DaysAfterTransaction)
	assert.True(t, schedule.Installments[1].Percentage.Equal(decimal.NewFromInt(50)))

	assert.NoError(t, ValidateSchedule(schedule))
}

func TestValidateSchedule(t *testing.T) {
	valid := func(entries ...models.ScheduleInstallment) models.PaymentSchedule {
		return models.PaymentSchedule{Name: "s", Installments: entries}
	}

	t.Run("empty schedule is valid", func(t *testing.T) {
		assert.NoError(t, ValidateSchedule(valid()))
	})

	t.Run("quarterly", func(t *testing.T) {
		assert.NoError(t, ValidateSchedule(valid(
			entry(1, 25, 0), entry(2, 25, 90), entry(3, 25, 180), entry(4, 25, 270),
		)))
	})

	t.Run("sum below 100", func(t *testing.T) {
		err := ValidateSchedule(valid(entry(1, 50, 30), entry(2, 49.99, 60)))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "installments", validationErr.Field)
	})

	t.Run("sum above 100", func(t *testing.T) {
		err := ValidateSchedule(valid(entry(1, 50, 30), entry(2, 50.01, 60)))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "installments", validationErr.Field)
	})

	t.Run("duplicate installment numbers", func(t *testing.T) {
		err := ValidateSchedule(valid(entry(1, 50, 30), entry(1, 50, 60)))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "installment_number", validationErr.Field)
	})

	t.Run("zero-based numbering rejected", func(t *testing.T) {
		err := ValidateSchedule(valid(entry(0, 100, 30)))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "installment_number", validationErr.Field)
	})

	t.Run("negative day offset rejected", func(t *testing.T) {
		err := ValidateSchedule(valid(entry(1, 100, -1)))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "days_after_transaction", validationErr.Field)
	})

	t.Run("single payment", func(t *testing.T) {
		assert.NoError(t, ValidateSchedule(valid(entry(1, 100, 30))))
	})
}
