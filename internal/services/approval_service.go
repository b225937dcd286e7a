// internal/services/approval_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type ApprovalService struct {
	db                  *gorm.DB
	scheduleService     *ScheduleService
	notificationService *NotificationService
}

type UpdateApprovalStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type ApprovalSearchParams struct {
	utils.PaginationParams
	Status            *string    `json:"status,omitempty"`
	SubmittedBy       *uuid.UUID `json:"submitted_by,omitempty"`
	ThresholdExceeded *bool      `json:"threshold_exceeded,omitempty"`
}

func NewApprovalService(db *gorm.DB, scheduleService *ScheduleService, notificationService *NotificationService) *ApprovalService {
	return &ApprovalService{
		db:                  db,
		scheduleService:     scheduleService,
		notificationService: notificationService,
	}
}

func (s *ApprovalService) Get(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.CommissionApproval, error) {
	var approval models.CommissionApproval
	err := s.db.
		Preload("Transaction").
		Preload("Submitter").
		Preload("Reviewer").
		Preload("Comments.Author").
		First(&approval, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("approval not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if approval.SubmittedBy != requesterID && !isAdmin {
		return nil, errors.New("unauthorized to view this approval")
	}

	return &approval, nil
}

func (s *ApprovalService) GetByTransaction(transactionID uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.CommissionApproval, error) {
	var approval models.CommissionApproval
	err := s.db.Where("transaction_id = ?", transactionID).First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("approval not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return s.Get(approval.ID, requesterID, isAdmin)
}

func (s *ApprovalService) Search(params ApprovalSearchParams, requesterID uuid.UUID, isAdmin bool) ([]models.CommissionApproval, int64, error) {
	query := s.db.Model(&models.CommissionApproval{}).
		Preload("Transaction").
		Preload("Submitter")

	if !isAdmin {
		query = query.Where("submitted_by = ?", requesterID)
	} else if params.SubmittedBy != nil {
		query = query.Where("submitted_by = ?", *params.SubmittedBy)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ThresholdExceeded != nil {
		query = query.Where("threshold_exceeded = ?", *params.ThresholdExceeded)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count approvals: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "reviewed_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var approvals []models.CommissionApproval
	if err := query.Find(&approvals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch approvals: %w", err)
	}

	return approvals, total, nil
}

// UpdateStatus moves an approval through its state machine. The status
// change, the history entry and — on first entry into Approved — the
// installment batch all commit in one database transaction, so a crash
// leaves either the old state or the complete new one.
//
// Generation is claimed through a conditional update of the transaction's
// installments_generated flag: only the request that flips it from false to
// true inserts installments. Re-approval after Ready for Payment regressions
// (not a legal edge today) or concurrent retries therefore cannot produce a
// duplicate batch; the unique (transaction_id, installment_number) index is
// the storage-level backstop.
func (s *ApprovalService) UpdateStatus(id uuid.UUID, reviewerID uuid.UUID, req *UpdateApprovalStatusRequest) (*models.CommissionApproval, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	newStatus, ok := commission.ParseStatus(req.Status)
	if !ok {
		return nil, &commission.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", req.Status)}
	}

	var approval models.CommissionApproval
	var generated []models.CommissionInstallment
	var previousStatus string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the row so concurrent transitions serialize on the state
		// machine check instead of both reading the stale status.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Transaction").First(&approval, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("approval not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		currentStatus, ok := commission.ParseStatus(approval.Status)
		if !ok {
			return fmt.Errorf("approval %s has unrecognized status %q", approval.ID, approval.Status)
		}
		previousStatus = approval.Status

		if err := commission.CanTransition(currentStatus, newStatus, approval.ThresholdExceeded); err != nil {
			return err
		}

		now := time.Now()
		approval.Status = string(newStatus)
		approval.ReviewerID = &reviewerID
		approval.ReviewedAt = &now
		if req.Notes != "" {
			approval.Notes = req.Notes
		}
		if err := tx.Save(&approval).Error; err != nil {
			return fmt.Errorf("failed to update approval: %w", err)
		}

		history := &models.ApprovalHistory{
			ApprovalID:     approval.ID,
			PreviousStatus: previousStatus,
			NewStatus:      string(newStatus),
			ChangedBy:      &reviewerID,
			Notes:          req.Notes,
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to record approval history: %w", err)
		}

		if newStatus == commission.StatusApproved {
			batch, err := s.generateInstallments(tx, &approval.Transaction)
			if err != nil {
				return err
			}
			generated = batch

			if err := tx.Model(&approval.Transaction).Update("status", models.TransactionStatusApproved).Error; err != nil {
				return fmt.Errorf("failed to update transaction status: %w", err)
			}
		}

		if newStatus == commission.StatusRejected {
			if err := tx.Model(&approval.Transaction).Update("status", models.TransactionStatusCancelled).Error; err != nil {
				return fmt.Errorf("failed to update transaction status: %w", err)
			}
		}

		if newStatus == commission.StatusPaid {
			if err := tx.Model(&approval.Transaction).Update("status", models.TransactionStatusCompleted).Error; err != nil {
				return fmt.Errorf("failed to update transaction status: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		s.notificationService.NotifyApprovalStatusChanged(approval.SubmittedBy, approval.TransactionID, previousStatus, string(newStatus))
		if len(generated) > 0 {
			s.notificationService.NotifyInstallmentsGenerated(approval.SubmittedBy, approval.TransactionID, len(generated))
		}
		if newStatus == commission.StatusApproved || newStatus == commission.StatusRejected {
			s.emailDecision(&approval, newStatus)
		}
	}()

	return &approval, nil
}

// emailDecision mirrors a final approval decision to the submitting agent's
// inbox. Best-effort: SMTP failures are logged, never surfaced.
func (s *ApprovalService) emailDecision(approval *models.CommissionApproval, status commission.Status) {
	var submitter models.User
	if err := s.db.First(&submitter, approval.SubmittedBy).Error; err != nil {
		return
	}

	subject := fmt.Sprintf("Commission approval %s", status)
	body := fmt.Sprintf("Your commission approval for transaction %s is now %s.",
		approval.TransactionID, status)
	if approval.Notes != "" {
		body += "\n\nReviewer notes: " + approval.Notes
	}

	if err := s.notificationService.SendEmail(submitter.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("approval_id", approval.ID).
			Warn("failed to email approval decision")
	}
}

// generateInstallments claims and performs installment generation for the
// transaction inside the caller's database transaction. Returns nil without
// error when another request already generated (flag was true), or when the
// resolved schedule is empty.
func (s *ApprovalService) generateInstallments(tx *gorm.DB, transaction *models.PropertyTransaction) ([]models.CommissionInstallment, error) {
	claim := tx.Model(&models.PropertyTransaction{}).
		Where("id = ? AND installments_generated = ?", transaction.ID, false).
		Update("installments_generated", true)
	if claim.Error != nil {
		return nil, fmt.Errorf("failed to claim installment generation: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		logrus.WithField("transaction_id", transaction.ID).
			Info("Installments already generated, skipping")
		return nil, nil
	}

	schedule := s.resolveSchedule(tx, transaction)

	installments := commission.GenerateInstallments(
		transaction.ID,
		transaction.AgentID,
		transaction.CommissionAmount,
		schedule,
		transaction.TransactionDate,
	)
	if len(installments) == 0 {
		return nil, nil
	}

	if err := tx.Create(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to insert installments: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"count":          len(installments),
	}).Info("Commission installments generated")

	return installments, nil
}

func (s *ApprovalService) resolveSchedule(tx *gorm.DB, transaction *models.PropertyTransaction) models.PaymentSchedule {
	if transaction.PaymentScheduleID != nil {
		var schedule models.PaymentSchedule
		err := tx.Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).First(&schedule, *transaction.PaymentScheduleID).Error
		if err == nil {
			return schedule
		}
		logrus.WithError(err).WithField("schedule_id", *transaction.PaymentScheduleID).
			Warn("Referenced payment schedule unavailable, falling back to default")
	}
	return s.scheduleService.GetDefault()
}

func (s *ApprovalService) GetHistory(approvalID uuid.UUID, requesterID uuid.UUID, isAdmin bool) ([]models.ApprovalHistory, error) {
	if _, err := s.Get(approvalID, requesterID, isAdmin); err != nil {
		return nil, err
	}

	var history []models.ApprovalHistory
	err := s.db.Where("approval_id = ?", approvalID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approval history: %w", err)
	}

	return history, nil
}

func (s *ApprovalService) AddComment(approvalID uuid.UUID, authorID uuid.UUID, req *AddCommentRequest) (*models.ApprovalComment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var approval models.CommissionApproval
	if err := s.db.First(&approval, approvalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("approval not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	comment := &models.ApprovalComment{
		ApprovalID: approvalID,
		AuthorID:   authorID,
		Content:    req.Content,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	go func() {
		var author models.User
		authorName := "Someone"
		if err := s.db.First(&author, authorID).Error; err == nil {
			authorName = author.FullName
		}
		// Notify the other party of the conversation
		if authorID != approval.SubmittedBy {
			s.notificationService.NotifyApprovalCommentAdded(approval.SubmittedBy, approvalID, authorName)
		} else if approval.ReviewerID != nil {
			s.notificationService.NotifyApprovalCommentAdded(*approval.ReviewerID, approvalID, authorName)
		}
	}()

	return comment, nil
}
