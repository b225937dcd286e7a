// internal/services/schedule_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/models"
)

// ScheduleService is the payment schedule catalog. Reads degrade gracefully:
// schedules are configuration data, not critical-path data, so an unreachable
// store yields the built-in fallback instead of an error.
type ScheduleService struct {
	db *gorm.DB
}

type ScheduleInstallmentInput struct {
	InstallmentNumber    int     `json:"installment_number" validate:"required,min=1"`
	Percentage           float64 `json:"percentage" validate:"required,gt=0,lte=100"`
	DaysAfterTransaction int     `json:"days_after_transaction" validate:"min=0"`
	Description          string  `json:"description,omitempty"`
}

type CreateScheduleRequest struct {
	Name         string                     `json:"name" validate:"required,min=3,max=100"`
	Description  string                     `json:"description,omitempty"`
	IsDefault    bool                       `json:"is_default"`
	Installments []ScheduleInstallmentInput `json:"installments" validate:"required,dive"`
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// List returns the catalog ordered by name with installments preloaded. An
// unreachable store yields the fallback schedule as a single-entry catalog.
func (s *ScheduleService) List() []models.PaymentSchedule {
	var schedules []models.PaymentSchedule
	err := s.db.
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Order("name ASC").
		Find(&schedules).Error
	if err != nil {
		logrus.WithError(err).Warn("payment schedule catalog unreachable, serving fallback")
		return []models.PaymentSchedule{commission.FallbackSchedule()}
	}

	if len(schedules) == 0 {
		return []models.PaymentSchedule{commission.FallbackSchedule()}
	}

	return schedules
}

// GetDefault returns the schedule flagged is_default, or the built-in
// fallback when none is flagged or the catalog is unreachable. It never
// returns an error: callers rely on a schedule always being resolvable.
func (s *ScheduleService) GetDefault() models.PaymentSchedule {
	var schedule models.PaymentSchedule
	err := s.db.
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Where("is_default = ?", true).
		First(&schedule).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Warn("payment schedule catalog unreachable, serving fallback")
		}
		return commission.FallbackSchedule()
	}

	return schedule
}

// Get fetches one schedule by id. Unlike GetDefault this is a hard lookup:
// an explicit schedule reference that cannot be resolved is an error, not a
// fallback case.
func (s *ScheduleService) Get(id uuid.UUID) (*models.PaymentSchedule, error) {
	var schedule models.PaymentSchedule
	err := s.db.
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		First(&schedule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payment schedule not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &schedule, nil
}

func (s *ScheduleService) Create(req *CreateScheduleRequest) (*models.PaymentSchedule, error) {
	schedule := models.PaymentSchedule{
		Name:             req.Name,
		Description:      req.Description,
		IsDefault:        req.IsDefault,
		InstallmentCount: len(req.Installments),
	}
	for _, input := range req.Installments {
		schedule.Installments = append(schedule.Installments, models.ScheduleInstallment{
			InstallmentNumber:    input.InstallmentNumber,
			Percentage:           decimal.NewFromFloat(input.Percentage),
			DaysAfterTransaction: input.DaysAfterTransaction,
			Description:          input.Description,
		})
	}

	// Percentage-sum and numbering invariants are enforced here, at
	// configuration time, so generation can trust any stored schedule.
	if err := commission.ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.PaymentSchedule{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&schedule).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment schedule: %w", err)
	}

	return &schedule, nil
}

func (s *ScheduleService) Update(id uuid.UUID, req *CreateScheduleRequest) (*models.PaymentSchedule, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// Schedules already referenced by generated installments keep their shape;
	// edits would silently desynchronize historical amounts.
	var referenced int64
	if err := s.db.Model(&models.PropertyTransaction{}).
		Where("payment_schedule_id = ? AND installments_generated = ?", id, true).
		Count(&referenced).Error; err != nil {
		return nil, fmt.Errorf("failed to check schedule references: %w", err)
	}
	if referenced > 0 {
		return nil, errors.New("cannot modify a schedule already used to generate installments")
	}

	updated := models.PaymentSchedule{
		Name:             req.Name,
		Description:      req.Description,
		IsDefault:        req.IsDefault,
		InstallmentCount: len(req.Installments),
	}
	for _, input := range req.Installments {
		updated.Installments = append(updated.Installments, models.ScheduleInstallment{
			ScheduleID:           id,
			InstallmentNumber:    input.InstallmentNumber,
			Percentage:           decimal.NewFromFloat(input.Percentage),
			DaysAfterTransaction: input.DaysAfterTransaction,
			Description:          input.Description,
		})
	}

	if err := commission.ValidateSchedule(updated); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !existing.IsDefault {
			if err := tx.Model(&models.PaymentSchedule{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("schedule_id = ?", id).Delete(&models.ScheduleInstallment{}).Error; err != nil {
			return err
		}

		existing.Name = updated.Name
		existing.Description = updated.Description
		existing.IsDefault = updated.IsDefault
		existing.InstallmentCount = updated.InstallmentCount
		existing.Installments = updated.Installments

		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment schedule: %w", err)
	}

	return existing, nil
}

func (s *ScheduleService) Delete(id uuid.UUID) error {
	schedule, err := s.Get(id)
	if err != nil {
		return err
	}

	if schedule.IsDefault {
		return errors.New("cannot delete the default payment schedule")
	}

	var referenced int64
	if err := s.db.Model(&models.PropertyTransaction{}).
		Where("payment_schedule_id = ?", id).
		Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check schedule references: %w", err)
	}
	if referenced > 0 {
		return errors.New("cannot delete a schedule referenced by transactions")
	}

	if err := s.db.Select("Installments").Delete(schedule).Error; err != nil {
		return fmt.Errorf("failed to delete payment schedule: %w", err)
	}

	return nil
}
