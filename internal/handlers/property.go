// internal/handlers/property.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/services"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	storageService  *services.StorageService
}

func NewPropertyHandler(propertyService *services.PropertyService, storageService *services.StorageService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		storageService:  storageService,
	}
}

// POST /properties
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	agentID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	property, err := h.propertyService.Create(agentID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, property)
}

// GET /properties
func (h *PropertyHandler) SearchProperties(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.PropertySearchParams{
		PaginationParams: params,
		City:             c.Query("city"),
	}

	if propertyType := c.Query("property_type"); propertyType != "" {
		pType := models.PropertyType(propertyType)
		searchParams.PropertyType = &pType
	}
	if transactionType := c.Query("transaction_type"); transactionType != "" {
		tType := models.TransactionType(transactionType)
		searchParams.TransactionType = &tType
	}
	if status := c.Query("status"); status != "" {
		pStatus := models.PropertyStatus(status)
		searchParams.Status = &pStatus
	}
	if agentIDStr := c.Query("agent_id"); agentIDStr != "" {
		if agentID, err := uuid.Parse(agentIDStr); err == nil {
			searchParams.AgentID = &agentID
		}
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		if featured, err := strconv.ParseBool(featuredStr); err == nil {
			searchParams.Featured = &featured
		}
	}

	properties, total, err := h.propertyService.Search(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(properties, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, property)
}

// PUT /properties/:id
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	property, err := h.propertyService.Update(id, userID, utils.IsAdminFromContext(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, property)
}

// PATCH /properties/:id/status
func (h *PropertyHandler) UpdatePropertyStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.PropertyStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Status is required", nil)
		return
	}

	property, err := h.propertyService.UpdateStatus(id, userID, utils.IsAdminFromContext(c), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, property)
}

// POST /properties/:id/images
func (h *PropertyHandler) UploadPropertyImage(c *gin.Context) {
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

	options := h.storageService.GetDefaultUploadOptions("property_images")
	upload, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	property, err := h.propertyService.AttachImage(id, userID, utils.IsAdminFromContext(c), upload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, property)
}

// DELETE /properties/:id
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(id, userID, utils.IsAdminFromContext(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Property deleted"})
}
