// internal/commission/forecast_test.go
package commission

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/brokerage-backend/internal/models"
)

func installmentOn(year int, month time.Month, day int, amount float64) models.CommissionInstallment {
	return models.CommissionInstallment{
		Amount:        decimal.NewFromFloat(amount),
		ScheduledDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Status:        models.InstallmentStatusPending,
	}
}

func TestGroupByMonth(t *testing.T) {
	forecasts := GroupByMonth([]models.CommissionInstallment{
		installmentOn(2024, time.March, 1, 7500),
		installmentOn(2024, time.January, 31, 7500),
		installmentOn(2024, time.January, 5, 1200.50),
		installmentOn(2024, time.March, 28, 300),
	})
	require.Len(t, forecasts, 2)

	january := forecasts[0]
	assert.Equal(t, "January 2024", january.Label)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), january.Month)
	assert.True(t, january.TotalAmount.Equal(decimal.NewFromFloat(8700.50)), "january total = %s", january.TotalAmount)
	assert.Len(t, january.Installments, 2)

	march := forecasts[1]
	assert.Equal(t, "March 2024", march.Label)
	assert.True(t, march.TotalAmount.Equal(decimal.NewFromInt(7800)))
	assert.Len(t, march.Installments, 2)
}

func TestGroupByMonthAcrossYears(t *testing.T) {
	forecasts := GroupByMonth([]models.CommissionInstallment{
		installmentOn(2025, time.January, 10, 100),
		installmentOn(2024, time.December, 10, 200),
		installmentOn(2024, time.January, 10, 300),
	})
	require.Len(t, forecasts, 3)

	// Chronological order, with same-named months in different years kept apart.
	assert.Equal(t, "January 2024", forecasts[0].Label)
	assert.Equal(t, "December 2024", forecasts[1].Label)
	assert.Equal(t, "January 2025", forecasts[2].Label)
}

func TestGroupByMonthEmpty(t *testing.T) {
	forecasts := GroupByMonth(nil)
	assert.Empty(t, forecasts)
	assert.NotNil(t, forecasts)
}

func TestIsAfterCutoffDate(t *testing.T) {
	assert.False(t, IsAfterCutoffDate(time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC), 26), "the cutoff day itself is in the cycle")
	assert.True(t, IsAfterCutoffDate(time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC), 26))
	assert.False(t, IsAfterCutoffDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 26))
	assert.True(t, IsAfterCutoffDate(time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC), 26))
}
