// internal/services/forecast_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/models"
)

type ForecastService struct {
	db            *gorm.DB
	configService *ConfigService
}

// Forecast is the monthly expected-commission view: unpaid installments
// bucketed by scheduled month, plus the cutoff metadata the frontend uses to
// flag entries sliding into the next processing cycle.
type Forecast struct {
	Months      []commission.MonthlyForecast `json:"months"`
	GrandTotal  decimal.Decimal              `json:"grand_total"`
	CutoffDay   int                          `json:"cutoff_day"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

func NewForecastService(db *gorm.DB, configService *ConfigService) *ForecastService {
	return &ForecastService{db: db, configService: configService}
}

// forecastStatuses are the installment states that still represent expected
// future income. Paid money is history, cancelled money never arrives.
var forecastStatuses = []models.InstallmentStatus{
	models.InstallmentStatusPending,
	models.InstallmentStatusProcessing,
	models.InstallmentStatusDelayed,
}

// ForAgent builds the forecast over a single agent's open installments.
func (s *ForecastService) ForAgent(agentID uuid.UUID) (*Forecast, error) {
	var installments []models.CommissionInstallment
	err := s.db.Where("agent_id = ? AND status IN ?", agentID, forecastStatuses).
		Order("scheduled_date ASC").
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch installments: %w", err)
	}

	return s.build(installments), nil
}

// ForAgency builds the forecast across all agents. Admin view.
func (s *ForecastService) ForAgency() (*Forecast, error) {
	var installments []models.CommissionInstallment
	err := s.db.Where("status IN ?", forecastStatuses).
		Order("scheduled_date ASC").
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch installments: %w", err)
	}

	return s.build(installments), nil
}

func (s *ForecastService) build(installments []models.CommissionInstallment) *Forecast {
	months := commission.GroupByMonth(installments)

	grandTotal := decimal.Zero
	for _, month := range months {
		grandTotal = grandTotal.Add(month.TotalAmount)
	}

	return &Forecast{
		Months:      months,
		GrandTotal:  grandTotal,
		CutoffDay:   s.configService.PaymentCutoffDay(),
		GeneratedAt: time.Now(),
	}
}

// PaymentCycle describes the current monthly processing window: installments
// scheduled after the cutoff day roll into the following month's cycle.
type PaymentCycle struct {
	CutoffDay  int       `json:"cutoff_day"`
	CutoffDate time.Time `json:"cutoff_date"`
	NextCutoff time.Time `json:"next_cutoff"`
}

func (s *ForecastService) CurrentCycle(now time.Time) PaymentCycle {
	cutoffDay := s.configService.PaymentCutoffDay()

	cutoff := time.Date(now.Year(), now.Month(), cutoffDay, 0, 0, 0, 0, now.Location())
	next := cutoff.AddDate(0, 1, 0)
	if commission.IsAfterCutoffDate(now, cutoffDay) {
		cutoff = next
		next = cutoff.AddDate(0, 1, 0)
	}

	return PaymentCycle{
		CutoffDay:  cutoffDay,
		CutoffDate: cutoff,
		NextCutoff: next,
	}
}
