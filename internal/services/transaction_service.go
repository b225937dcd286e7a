// internal/services/transaction_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type TransactionService struct {
	db                  *gorm.DB
	agentService        *AgentService
	scheduleService     *ScheduleService
	configService       *ConfigService
	notificationService *NotificationService
	storageService      *StorageService
}

type CoBrokingRequest struct {
	Enabled         bool   `json:"enabled"`
	AgentName       string `json:"agent_name,omitempty"`
	AgencyName      string `json:"agency_name,omitempty"`
	ContactInfo     string `json:"contact_info,omitempty"`
	CommissionSplit int    `json:"commission_split,omitempty" validate:"required_if=Enabled true,omitempty,commission_split"`
}

type CreateTransactionRequest struct {
	PropertyID        *uuid.UUID             `json:"property_id,omitempty"`
	TransactionType   models.TransactionType `json:"transaction_type" validate:"required,oneof=Sale Rent Primary"`
	TransactionDate   string                 `json:"transaction_date" validate:"required"`
	TransactionValue  float64                `json:"transaction_value" validate:"required,gt=0"`
	CommissionRate    float64                `json:"commission_rate" validate:"required,gt=0"`
	BuyerName         string                 `json:"buyer_name,omitempty"`
	SellerName        string                 `json:"seller_name,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	CoBroking         *CoBrokingRequest      `json:"co_broking,omitempty"`
	PaymentScheduleID *uuid.UUID             `json:"payment_schedule_id,omitempty"`
}

type CalculateBreakdownRequest struct {
	TransactionValue float64           `json:"transaction_value" validate:"required,gt=0"`
	CommissionRate   float64           `json:"commission_rate" validate:"required,gt=0"`
	CoBroking        *CoBrokingRequest `json:"co_broking,omitempty"`
}

type TransactionSearchParams struct {
	utils.PaginationParams
	AgentID         *uuid.UUID                `json:"agent_id,omitempty"`
	PropertyID      *uuid.UUID                `json:"property_id,omitempty"`
	Status          *models.TransactionStatus `json:"status,omitempty"`
	TransactionType *models.TransactionType   `json:"transaction_type,omitempty"`
}

func NewTransactionService(db *gorm.DB, agentService *AgentService, scheduleService *ScheduleService, configService *ConfigService, notificationService *NotificationService, storageService *StorageService) *TransactionService {
	return &TransactionService{
		db:                  db,
		agentService:        agentService,
		scheduleService:     scheduleService,
		configService:       configService,
		notificationService: notificationService,
		storageService:      storageService,
	}
}

func coBrokingTerms(req *CoBrokingRequest) *commission.CoBrokingTerms {
	if req == nil || !req.Enabled {
		return nil
	}
	return &commission.CoBrokingTerms{
		Enabled:         true,
		AgentName:       req.AgentName,
		AgencyName:      req.AgencyName,
		ContactInfo:     req.ContactInfo,
		CommissionSplit: req.CommissionSplit,
	}
}

// CalculateBreakdown derives the commission split for the given inputs
// without persisting anything. Used by the transaction form for live
// preview; the same pure calculation runs again at submission.
func (s *TransactionService) CalculateBreakdown(agentID uuid.UUID, req *CalculateBreakdownRequest) (*commission.Breakdown, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tier, err := s.agentService.TierForAgent(agentID)
	if err != nil {
		return nil, err
	}

	return commission.Calculate(
		decimal.NewFromFloat(req.TransactionValue),
		decimal.NewFromFloat(req.CommissionRate),
		coBrokingTerms(req.CoBroking),
		*tier,
	)
}

// Create records a transaction, derives its commission, resolves a payment
// schedule (explicit or default) and opens a Pending commission approval in
// one database transaction. Installments are NOT generated here; that
// happens when the approval first reaches Approved.
func (s *TransactionService) Create(agentID uuid.UUID, req *CreateTransactionRequest) (*models.PropertyTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	transactionDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return nil, &commission.ValidationError{Field: "transaction_date", Message: "must be formatted YYYY-MM-DD"}
	}

	tier, err := s.agentService.TierForAgent(agentID)
	if err != nil {
		return nil, err
	}

	breakdown, err := commission.Calculate(
		decimal.NewFromFloat(req.TransactionValue),
		decimal.NewFromFloat(req.CommissionRate),
		coBrokingTerms(req.CoBroking),
		*tier,
	)
	if err != nil {
		return nil, err
	}

	// Resolve the payment schedule up front so a dangling explicit reference
	// fails at submission, not at approval time.
	var scheduleID *uuid.UUID
	if req.PaymentScheduleID != nil {
		schedule, err := s.scheduleService.Get(*req.PaymentScheduleID)
		if err != nil {
			return nil, err
		}
		scheduleID = &schedule.ID
	} else if defaultSchedule := s.scheduleService.GetDefault(); defaultSchedule.ID != uuid.Nil {
		scheduleID = &defaultSchedule.ID
	}
	// A nil scheduleID means the catalog served the built-in fallback; the
	// approval path resolves it the same way at generation time.

	threshold := s.configService.ApprovalThreshold()

	transaction := &models.PropertyTransaction{
		PropertyID:        req.PropertyID,
		AgentID:           agentID,
		TransactionType:   req.TransactionType,
		TransactionDate:   transactionDate,
		TransactionValue:  decimal.NewFromFloat(req.TransactionValue),
		CommissionRate:    decimal.NewFromFloat(req.CommissionRate),
		CommissionAmount:  breakdown.TotalCommission,
		BuyerName:         req.BuyerName,
		SellerName:        req.SellerName,
		Notes:             req.Notes,
		Status:            models.TransactionStatusSubmitted,
		PaymentScheduleID: scheduleID,
	}

	if req.CoBroking != nil && req.CoBroking.Enabled {
		transaction.CoBrokingEnabled = true
		transaction.CoAgentName = req.CoBroking.AgentName
		transaction.CoAgencyName = req.CoBroking.AgencyName
		transaction.CoAgentContact = req.CoBroking.ContactInfo
		transaction.CommissionSplit = req.CoBroking.CommissionSplit
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		approval := &models.CommissionApproval{
			TransactionID:     transaction.ID,
			SubmittedBy:       agentID,
			Status:            string(commission.StatusPending),
			ThresholdExceeded: breakdown.TotalCommission.GreaterThan(threshold),
		}
		if err := tx.Create(approval).Error; err != nil {
			return fmt.Errorf("failed to create commission approval: %w", err)
		}

		history := &models.ApprovalHistory{
			ApprovalID: approval.ID,
			NewStatus:  string(commission.StatusPending),
			ChangedBy:  &agentID,
			Notes:      "Commission submitted for approval",
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to create approval history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.notifyAdmins(transaction)

	return transaction, nil
}

func (s *TransactionService) notifyAdmins(transaction *models.PropertyTransaction) {
	var adminIDs []uuid.UUID
	if err := s.db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.UserRoleAdmin, models.UserStatusActive).
		Pluck("id", &adminIDs).Error; err != nil {
		return
	}

	var agent models.User
	agentName := "An agent"
	if err := s.db.First(&agent, transaction.AgentID).Error; err == nil {
		agentName = agent.FullName
	}

	s.notificationService.NotifyTransactionSubmitted(adminIDs, transaction.ID, agentName)
}

func (s *TransactionService) Get(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.PropertyTransaction, error) {
	var transaction models.PropertyTransaction
	err := s.db.
		Preload("Property").
		Preload("Agent").
		Preload("PaymentSchedule.Installments").
		Preload("Approval").
		First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if transaction.AgentID != requesterID && !isAdmin {
		return nil, errors.New("unauthorized to view this transaction")
	}

	return &transaction, nil
}

// Breakdown recomputes the commission split of a stored transaction from its
// persisted inputs. The result is derived on demand, never stored.
func (s *TransactionService) Breakdown(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*commission.Breakdown, error) {
	transaction, err := s.Get(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	tier, err := s.agentService.TierForAgent(transaction.AgentID)
	if err != nil {
		return nil, err
	}

	var terms *commission.CoBrokingTerms
	if transaction.CoBrokingEnabled {
		terms = &commission.CoBrokingTerms{
			Enabled:         true,
			AgentName:       transaction.CoAgentName,
			AgencyName:      transaction.CoAgencyName,
			ContactInfo:     transaction.CoAgentContact,
			CommissionSplit: transaction.CommissionSplit,
		}
	}

	return commission.Calculate(transaction.TransactionValue, transaction.CommissionRate, terms, *tier)
}

func (s *TransactionService) Search(params TransactionSearchParams, requesterID uuid.UUID, isAdmin bool) ([]models.PropertyTransaction, int64, error) {
	query := s.db.Model(&models.PropertyTransaction{}).
		Preload("Property").
		Preload("Agent").
		Preload("Approval")

	// Agents only see their own transactions
	if !isAdmin {
		query = query.Where("agent_id = ?", requesterID)
	} else if params.AgentID != nil {
		query = query.Where("agent_id = ?", *params.AgentID)
	}

	if params.PropertyID != nil {
		query = query.Where("property_id = ?", *params.PropertyID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.TransactionType != nil {
		query = query.Where("transaction_type = ?", *params.TransactionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "transaction_date", "transaction_value", "commission_amount", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var transactions []models.PropertyTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

// AttachDocument records an uploaded supporting document (sale agreement,
// booking form) on the transaction.
func (s *TransactionService) AttachDocument(id uuid.UUID, requesterID uuid.UUID, isAdmin bool, upload *UploadResult, label string) (*models.PropertyTransaction, error) {
	transaction, err := s.Get(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if transaction.Documents == nil {
		transaction.Documents = models.JSONB{}
	}

	documents, _ := transaction.Documents["items"].([]interface{})
	documents = append(documents, map[string]interface{}{
		"key":      upload.Key,
		"url":      upload.URL,
		"label":    label,
		"size":     upload.Size,
		"checksum": upload.Checksum,
	})
	transaction.Documents["items"] = documents

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to attach transaction document: %w", err)
	}

	return transaction, nil
}

type TransactionDocument struct {
	Label    string `json:"label"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	URL      string `json:"url"`
}

// Documents lists the transaction's uploaded documents with download links.
// Document objects are stored private, so each link is presigned on demand;
// when no object store is configured the stored URL is returned as-is.
func (s *TransactionService) Documents(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) ([]TransactionDocument, error) {
	transaction, err := s.Get(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	items, _ := transaction.Documents["items"].([]interface{})
	documents := make([]TransactionDocument, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		document := TransactionDocument{}
		document.Label, _ = entry["label"].(string)
		document.Key, _ = entry["key"].(string)
		document.Checksum, _ = entry["checksum"].(string)
		switch size := entry["size"].(type) {
		case float64:
			document.Size = int64(size)
		case int64:
			document.Size = size
		}

		if url, err := s.storageService.GeneratePresignedURL(document.Key, 15*time.Minute); err == nil {
			document.URL = url
		} else {
			document.URL, _ = entry["url"].(string)
		}

		documents = append(documents, document)
	}

	return documents, nil
}

// Cancel marks a transaction cancelled. Disallowed once installments exist:
// the row is append-only from that point and money movement is handled
// through installment status transitions instead.
func (s *TransactionService) Cancel(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.PropertyTransaction, error) {
	transaction, err := s.Get(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if transaction.InstallmentsGenerated {
		return nil, errors.New("cannot cancel a transaction with generated installments")
	}

	transaction.Status = models.TransactionStatusCancelled
	if err := s.db.Save(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	return transaction, nil
}
