// internal/handlers/agent.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type AgentHandler struct {
	agentService *services.AgentService
}

func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
	}
}

// GET /agent-tiers
func (h *AgentHandler) GetTiers(c *gin.Context) {
	tiers, err := h.agentService.ListTiers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tiers)
}

// POST /agent-tiers (admin)
func (h *AgentHandler) CreateTier(c *gin.Context) {
	var req services.AgentTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	tier, err := h.agentService.CreateTier(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, tier)
}

// PUT /agent-tiers/:id (admin)
func (h *AgentHandler) UpdateTier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AgentTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	tier, err := h.agentService.UpdateTier(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, tier)
}

// POST /agent-tiers/assign (admin)
func (h *AgentHandler) AssignTier(c *gin.Context) {
	var req struct {
		AgentID uuid.UUID `json:"agent_id" binding:"required"`
		TierID  uuid.UUID `json:"tier_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.agentService.AssignTier(req.AgentID, req.TierID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Tier assigned"})
}

// GET /agents/dashboard
func (h *AgentHandler) GetDashboard(c *gin.Context) {
	agentID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.agentService.DashboardStats(agentID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}
