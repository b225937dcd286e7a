// internal/handlers/installment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type InstallmentHandler struct {
	installmentService *services.InstallmentService
}

func NewInstallmentHandler(installmentService *services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		installmentService: installmentService,
	}
}

// GET /installments
func (h *InstallmentHandler) GetInstallments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.InstallmentSearchParams{
		PaginationParams: params,
	}

	if agentIDStr := c.Query("agent_id"); agentIDStr != "" {
		if agentID, err := uuid.Parse(agentIDStr); err == nil {
			searchParams.AgentID = &agentID
		}
	}
	if transactionIDStr := c.Query("transaction_id"); transactionIDStr != "" {
		if transactionID, err := uuid.Parse(transactionIDStr); err == nil {
			searchParams.TransactionID = &transactionID
		}
	}
	if status := c.Query("status"); status != "" {
		iStatus := models.InstallmentStatus(status)
		searchParams.Status = &iStatus
	}
	if dueBefore := c.Query("due_before"); dueBefore != "" {
		searchParams.DueBefore = &dueBefore
	}
	if dueAfter := c.Query("due_after"); dueAfter != "" {
		searchParams.DueAfter = &dueAfter
	}

	installments, total, err := h.installmentService.Search(searchParams, userID, utils.IsAdminFromContext(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(installments, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /installments/:id
func (h *InstallmentHandler) GetInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	installment, err := h.installmentService.Get(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, installment)
}

// PATCH /installments/:id/status (admin)
func (h *InstallmentHandler) UpdateInstallmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateInstallmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	installment, err := h.installmentService.UpdateStatus(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, installment)
}
