// internal/services/config_service.go
package services

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/models"
)

// ConfigService reads operational settings from the system_configuration
// table, falling back to process-level defaults when a key is missing or the
// store is unreachable. Configuration unavailability is never surfaced to
// callers; the fallback value is the answer.
type ConfigService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewConfigService(db *gorm.DB, cfg *config.Config) *ConfigService {
	return &ConfigService{db: db, cfg: cfg}
}

func (s *ConfigService) lookup(key string) (string, bool) {
	var entry models.SystemConfiguration
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logrus.WithError(err).WithField("key", key).Warn("system configuration unreachable, using default")
		}
		return "", false
	}
	return entry.Value, true
}

// PaymentCutoffDay returns the day-of-month boundary for assigning
// installments to a payment-processing cycle. Fetched once per evaluation.
func (s *ConfigService) PaymentCutoffDay() int {
	value, ok := s.lookup("commission_payment_cutoff_day")
	if !ok {
		return s.defaultCutoffDay()
	}

	cutoffDay, err := strconv.Atoi(value)
	if err != nil || cutoffDay < 1 || cutoffDay > 28 {
		logrus.WithField("value", value).Warn("invalid cutoff day configured, using default")
		return s.defaultCutoffDay()
	}

	return cutoffDay
}

func (s *ConfigService) defaultCutoffDay() int {
	if s.cfg != nil && s.cfg.Commission.CutoffDay > 0 {
		return s.cfg.Commission.CutoffDay
	}
	return commission.DefaultCutoffDay
}

// ApprovalThreshold returns the commission amount above which an approval
// must pass through review before it can be approved.
func (s *ConfigService) ApprovalThreshold() decimal.Decimal {
	value, ok := s.lookup("commission_approval_threshold")
	if ok {
		if threshold, err := decimal.NewFromString(value); err == nil && threshold.GreaterThan(decimal.Zero) {
			return threshold
		}
		logrus.WithField("value", value).Warn("invalid approval threshold configured, using default")
	}

	return decimal.NewFromFloat(s.cfg.Commission.ApprovalThreshold)
}
