// internal/services/installment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type InstallmentService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type UpdateInstallmentStatusRequest struct {
	Status            models.InstallmentStatus `json:"status" validate:"required"`
	ActualPaymentDate *string                  `json:"actual_payment_date,omitempty"`
	Notes             string                   `json:"notes,omitempty"`
}

type InstallmentSearchParams struct {
	utils.PaginationParams
	AgentID       *uuid.UUID                `json:"agent_id,omitempty"`
	TransactionID *uuid.UUID                `json:"transaction_id,omitempty"`
	Status        *models.InstallmentStatus `json:"status,omitempty"`
	DueBefore     *string                   `json:"due_before,omitempty"`
	DueAfter      *string                   `json:"due_after,omitempty"`
}

// Installment rows are immutable except for payment-state transitions.
// Paid and Cancelled are terminal; Delayed re-enters the flow once the
// payment is unblocked.
var installmentTransitions = map[models.InstallmentStatus][]models.InstallmentStatus{
	models.InstallmentStatusPending:    {models.InstallmentStatusProcessing, models.InstallmentStatusDelayed, models.InstallmentStatusCancelled},
	models.InstallmentStatusProcessing: {models.InstallmentStatusPaid, models.InstallmentStatusDelayed, models.InstallmentStatusCancelled},
	models.InstallmentStatusDelayed:    {models.InstallmentStatusProcessing, models.InstallmentStatusPaid, models.InstallmentStatusCancelled},
	models.InstallmentStatusPaid:       {},
	models.InstallmentStatusCancelled:  {},
}

func NewInstallmentService(db *gorm.DB, notificationService *NotificationService) *InstallmentService {
	return &InstallmentService{db: db, notificationService: notificationService}
}

func (s *InstallmentService) Get(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.CommissionInstallment, error) {
	var installment models.CommissionInstallment
	err := s.db.Preload("Transaction").First(&installment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("installment not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if installment.AgentID != requesterID && !isAdmin {
		return nil, errors.New("unauthorized to view this installment")
	}

	return &installment, nil
}

func (s *InstallmentService) ListForTransaction(transactionID uuid.UUID, requesterID uuid.UUID, isAdmin bool) ([]models.CommissionInstallment, error) {
	var transaction models.PropertyTransaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if transaction.AgentID != requesterID && !isAdmin {
		return nil, errors.New("unauthorized to view this transaction")
	}

	var installments []models.CommissionInstallment
	err := s.db.Where("transaction_id = ?", transactionID).
		Order("installment_number ASC").
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch installments: %w", err)
	}

	return installments, nil
}

func (s *InstallmentService) Search(params InstallmentSearchParams, requesterID uuid.UUID, isAdmin bool) ([]models.CommissionInstallment, int64, error) {
	query := s.db.Model(&models.CommissionInstallment{}).Preload("Transaction")

	if !isAdmin {
		query = query.Where("agent_id = ?", requesterID)
	} else if params.AgentID != nil {
		query = query.Where("agent_id = ?", *params.AgentID)
	}

	if params.TransactionID != nil {
		query = query.Where("transaction_id = ?", *params.TransactionID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.DueBefore != nil {
		if due, err := time.Parse("2006-01-02", *params.DueBefore); err == nil {
			query = query.Where("due_date <= ?", due)
		}
	}
	if params.DueAfter != nil {
		if due, err := time.Parse("2006-01-02", *params.DueAfter); err == nil {
			query = query.Where("due_date >= ?", due)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count installments: %w", err)
	}

	allowedSortFields := []string{"scheduled_date", "due_date", "amount", "status", "created_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var installments []models.CommissionInstallment
	if err := query.Find(&installments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch installments: %w", err)
	}

	return installments, total, nil
}

// UpdateStatus posts a payment-state change on an installment. Admin only;
// marking Paid records the actual payment date (today when not supplied).
func (s *InstallmentService) UpdateStatus(id uuid.UUID, req *UpdateInstallmentStatusRequest) (*models.CommissionInstallment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, known := installmentTransitions[req.Status]; !known {
		return nil, fmt.Errorf("unknown installment status %q", req.Status)
	}

	var installment models.CommissionInstallment
	if err := s.db.First(&installment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("installment not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	allowed := false
	for _, target := range installmentTransitions[installment.Status] {
		if target == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot move installment from %s to %s", installment.Status, req.Status)
	}

	installment.Status = req.Status
	if req.Notes != "" {
		installment.PaymentNotes = req.Notes
	}
	if req.Status == models.InstallmentStatusPaid {
		paymentDate := time.Now()
		if req.ActualPaymentDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.ActualPaymentDate)
			if err != nil {
				return nil, errors.New("actual_payment_date must be formatted YYYY-MM-DD")
			}
			paymentDate = parsed
		}
		installment.ActualPaymentDate = &paymentDate
	}

	if err := s.db.Save(&installment).Error; err != nil {
		return nil, fmt.Errorf("failed to update installment: %w", err)
	}

	go s.notificationService.NotifyInstallmentStatusChanged(installment.AgentID, installment.ID, installment.Status)

	return &installment, nil
}
