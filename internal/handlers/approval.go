// internal/handlers/approval.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
	}
}

// GET /approvals
func (h *ApprovalHandler) GetApprovals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.ApprovalSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		searchParams.Status = &status
	}
	if submittedByStr := c.Query("submitted_by"); submittedByStr != "" {
		if submittedBy, err := uuid.Parse(submittedByStr); err == nil {
			searchParams.SubmittedBy = &submittedBy
		}
	}
	if thresholdStr := c.Query("threshold_exceeded"); thresholdStr != "" {
		if threshold, err := strconv.ParseBool(thresholdStr); err == nil {
			searchParams.ThresholdExceeded = &threshold
		}
	}

	approvals, total, err := h.approvalService.Search(searchParams, userID, utils.IsAdminFromContext(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(approvals, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /approvals/:id
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	approval, err := h.approvalService.Get(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, approval)
}

// PATCH /approvals/:id/status (admin)
//
// Drives the approval state machine. Illegal transitions come back as 409
// INVALID_TRANSITION; the first legal move into Approved also generates the
// transaction's commission installments.
func (h *ApprovalHandler) UpdateApprovalStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateApprovalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	approval, err := h.approvalService.UpdateStatus(id, reviewerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, approval)
}

// GET /approvals/:id/history
func (h *ApprovalHandler) GetApprovalHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	history, err := h.approvalService.GetHistory(id, userID, utils.IsAdminFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, history)
}

// POST /approvals/:id/comments
func (h *ApprovalHandler) AddApprovalComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.approvalService.AddComment(id, authorID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, comment)
}
