// internal/handlers/schedule.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// GET /payment-schedules
//
// Serves the catalog, falling back to the built-in schedule when the store
// is unreachable. This endpoint never fails.
func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	schedules := h.scheduleService.List()
	utils.SuccessResponse(c, schedules)
}

// GET /payment-schedules/default
func (h *ScheduleHandler) GetDefaultSchedule(c *gin.Context) {
	schedule := h.scheduleService.GetDefault()
	utils.SuccessResponse(c, schedule)
}

// GET /payment-schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, schedule)
}

// POST /payment-schedules (admin)
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	schedule, err := h.scheduleService.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, schedule)
}

// PUT /payment-schedules/:id (admin)
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	schedule, err := h.scheduleService.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, schedule)
}

// DELETE /payment-schedules/:id (admin)
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Payment schedule deleted"})
}
