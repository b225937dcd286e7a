// internal/handlers/transaction.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	installmentService *services.InstallmentService
	storageService     *services.StorageService
}

func NewTransactionHandler(transactionService *services.TransactionService, installmentService *services.InstallmentService, storageService *services.StorageService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		installmentService: installmentService,
		storageService:     storageService,
	}
}

// POST /transactions/calculate
//
// Stateless commission preview for the submission form. Nothing is stored.
func (h *TransactionHandler) CalculateCommission(c *gin.Context) {
	agentID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CalculateBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	breakdown, err := h.transactionService.CalculateBreakdown(agentID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, breakdown)
}

// POST /transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	agentID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	transaction, err := h.transactionService.Create(agentID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, transaction)
}

// GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.TransactionSearchParams{
		PaginationParams: params,
	}

	if agentIDStr := c.Query("agent_id"); agentIDStr != "" {
		if agentID, err := uuid.Parse(agentIDStr); err == nil {
			searchParams.AgentID = &agentID
		}
	}
	if propertyIDStr := c.Query("property_id"); propertyIDStr != "" {
		if propertyID, err := uuid.Parse(propertyIDStr); err == nil {
			searchParams.PropertyID = &propertyID
		}
	}
	if status := c.Query("status"); status != "" {
		tStatus := models.TransactionStatus(status)
		searchParams.Status = &tStatus
	}
	if transactionType := c.Query("transaction_type"); transactionType != "" {
		tType := models.TransactionType(transactionType)
		searchParams.TransactionType = &tType
	}

	transactions, total, err := h.transactionService.Search(searchParams, userID, utils.IsAdminFromContext(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	transaction, err := h.transactionService.Get(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, transaction)
}

// GET /transactions/:id/breakdown
func (h *TransactionHandler) GetTransactionBreakdown(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	breakdown, err := h.transactionService.Breakdown(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, breakdown)
}

// GET /transactions/:id/installments
func (h *TransactionHandler) GetTransactionInstallments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	installments, err := h.installmentService.ListForTransaction(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, installments)
}

// GET /transactions/:id/documents
func (h *TransactionHandler) GetTransactionDocuments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	documents, err := h.transactionService.Documents(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, documents)
}

// POST /transactions/:id/documents
func (h *TransactionHandler) UploadTransactionDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("transaction_documents")
	upload, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	transaction, err := h.transactionService.AttachDocument(id, userID, utils.IsAdminFromContext(c), upload, c.PostForm("label"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, transaction)
}

// POST /transactions/:id/cancel
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	transaction, err := h.transactionService.Cancel(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, transaction)
}
