// internal/handlers/forecast.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type ForecastHandler struct {
	forecastService *services.ForecastService
}

func NewForecastHandler(forecastService *services.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
	}
}

// GET /forecast
//
// The authenticated agent's expected commission, bucketed by month.
func (h *ForecastHandler) GetAgentForecast(c *gin.Context) {
	agentID, ok := requireUserID(c)
	if !ok {
		return
	}

	forecast, err := h.forecastService.ForAgent(agentID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, forecast)
}

// GET /forecast/agency (admin)
func (h *ForecastHandler) GetAgencyForecast(c *gin.Context) {
	forecast, err := h.forecastService.ForAgency()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, forecast)
}

// GET /forecast/cycle
func (h *ForecastHandler) GetPaymentCycle(c *gin.Context) {
	cycle := h.forecastService.CurrentCycle(time.Now())
	utils.SuccessResponse(c, cycle)
}
