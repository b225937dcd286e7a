// internal/commission/forecast.go
package commission

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/brokerage-backend/internal/models"
)

// DefaultCutoffDay is the day-of-month boundary used when the configured
// cutoff cannot be fetched.
const DefaultCutoffDay = 26

// MonthlyForecast is one calendar month of scheduled installments.
type MonthlyForecast struct {
	Month        time.Time                      `json:"month"`
	Label        string                         `json:"label"`
	TotalAmount  decimal.Decimal                `json:"total_amount"`
	Installments []models.CommissionInstallment `json:"installments"`
}

// GroupByMonth buckets installments by the calendar month of their scheduled
// date and sums amounts per bucket, returning groups in chronological order.
// Pure reduction: it operates on whatever set the caller supplies and does no
// filtering of its own.
func GroupByMonth(installments []models.CommissionInstallment) []MonthlyForecast {
	grouped := make(map[time.Time]*MonthlyForecast)

	for _, installment := range installments {
		d := installment.ScheduledDate
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)

		group, ok := grouped[month]
		if !ok {
			group = &MonthlyForecast{
				Month:       month,
				Label:       month.Format("January 2006"),
				TotalAmount: decimal.Zero,
			}
			grouped[month] = group
		}

		group.TotalAmount = group.TotalAmount.Add(installment.Amount)
		group.Installments = append(group.Installments, installment)
	}

	forecasts := make([]MonthlyForecast, 0, len(grouped))
	for _, group := range grouped {
		forecasts = append(forecasts, *group)
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].Month.Before(forecasts[j].Month)
	})

	return forecasts
}

// IsAfterCutoffDate reports whether a date falls past the monthly payment
// cutoff, pushing the installment into the next processing cycle.
func IsAfterCutoffDate(date time.Time, cutoffDay int) bool {
	return date.Day() > cutoffDay
}
