// internal/services/property_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

type PropertyService struct {
	db             *gorm.DB
	storageService *StorageService
}

type PropertyRequest struct {
	Title           string                 `json:"title" validate:"required,min=3,max=100"`
	Description     string                 `json:"description" validate:"required,min=20,max=5000"`
	PropertyType    models.PropertyType    `json:"property_type" validate:"required"`
	PropertySubtype string                 `json:"property_subtype,omitempty"`
	TransactionType models.TransactionType `json:"transaction_type" validate:"required"`
	Price           *float64               `json:"price,omitempty"`
	RentalRate      *float64               `json:"rental_rate,omitempty"`
	AddressStreet   string                 `json:"address_street,omitempty"`
	AddressCity     string                 `json:"address_city,omitempty"`
	AddressState    string                 `json:"address_state,omitempty"`
	AddressZip      string                 `json:"address_zip,omitempty"`
	Bedrooms        int                    `json:"bedrooms,omitempty"`
	Bathrooms       int                    `json:"bathrooms,omitempty"`
	BuiltUpArea     float64                `json:"built_up_area,omitempty"`
	Features        map[string]interface{} `json:"features,omitempty"`
}

type PropertySearchParams struct {
	utils.PaginationParams
	PropertyType    *models.PropertyType    `json:"property_type,omitempty"`
	TransactionType *models.TransactionType `json:"transaction_type,omitempty"`
	Status          *models.PropertyStatus  `json:"status,omitempty"`
	AgentID         *uuid.UUID              `json:"agent_id,omitempty"`
	City            string                  `json:"city,omitempty"`
	Featured        *bool                   `json:"featured,omitempty"`
}

func NewPropertyService(db *gorm.DB, storageService *StorageService) *PropertyService {
	return &PropertyService{
		db:             db,
		storageService: storageService,
	}
}

// validatePriceFields enforces the per-transaction-type pricing invariant:
// Sale and Primary listings need a positive price, rentals a positive rate.
func validatePriceFields(transactionType models.TransactionType, price, rentalRate *float64) error {
	switch transactionType {
	case models.TransactionTypeSale, models.TransactionTypePrimary:
		if price == nil || *price <= 0 {
			return errors.New("price must be set and greater than zero for sale listings")
		}
	case models.TransactionTypeRent:
		if rentalRate == nil || *rentalRate <= 0 {
			return errors.New("rental rate must be set and greater than zero for rental listings")
		}
	default:
		return errors.New("invalid transaction type")
	}
	return nil
}

func (s *PropertyService) Create(agentID uuid.UUID, req *PropertyRequest) (*models.Property, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validatePriceFields(req.TransactionType, req.Price, req.RentalRate); err != nil {
		return nil, err
	}

	property := &models.Property{
		Title:           req.Title,
		Description:     req.Description,
		PropertyType:    req.PropertyType,
		PropertySubtype: req.PropertySubtype,
		TransactionType: req.TransactionType,
		AddressStreet:   req.AddressStreet,
		AddressCity:     req.AddressCity,
		AddressState:    req.AddressState,
		AddressZip:      req.AddressZip,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		BuiltUpArea:     req.BuiltUpArea,
		Features:        models.JSONB(req.Features),
		Status:          models.PropertyStatusDraft,
		AgentID:         agentID,
	}

	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		property.Price = &price
	}
	if req.RentalRate != nil {
		rate := decimal.NewFromFloat(*req.RentalRate)
		property.RentalRate = &rate
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return property, nil
}

func (s *PropertyService) Get(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := s.db.Preload("Agent").First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("property not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &property, nil
}

func (s *PropertyService) Search(params PropertySearchParams) ([]models.Property, int64, error) {
	query := s.db.Model(&models.Property{}).Preload("Agent")

	if params.PropertyType != nil {
		query = query.Where("property_type = ?", *params.PropertyType)
	}
	if params.TransactionType != nil {
		query = query.Where("transaction_type = ?", *params.TransactionType)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.AgentID != nil {
		query = query.Where("agent_id = ?", *params.AgentID)
	}
	if params.City != "" {
		query = query.Where("address_city ILIKE ?", "%"+params.City+"%")
	}
	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}
	if params.Search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "price", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

func (s *PropertyService) Update(id, userID uuid.UUID, isAdmin bool, req *PropertyRequest) (*models.Property, error) {
	property, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if property.AgentID != userID && !isAdmin {
		return nil, errors.New("unauthorized to update this property")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validatePriceFields(req.TransactionType, req.Price, req.RentalRate); err != nil {
		return nil, err
	}

	property.Title = req.Title
	property.Description = req.Description
	property.PropertyType = req.PropertyType
	property.PropertySubtype = req.PropertySubtype
	property.TransactionType = req.TransactionType
	property.AddressStreet = req.AddressStreet
	property.AddressCity = req.AddressCity
	property.AddressState = req.AddressState
	property.AddressZip = req.AddressZip
	property.Bedrooms = req.Bedrooms
	property.Bathrooms = req.Bathrooms
	property.BuiltUpArea = req.BuiltUpArea
	property.Features = models.JSONB(req.Features)

	property.Price = nil
	property.RentalRate = nil
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		property.Price = &price
	}
	if req.RentalRate != nil {
		rate := decimal.NewFromFloat(*req.RentalRate)
		property.RentalRate = &rate
	}

	if err := s.db.Save(property).Error; err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	return property, nil
}

func (s *PropertyService) UpdateStatus(id, userID uuid.UUID, isAdmin bool, status models.PropertyStatus) (*models.Property, error) {
	property, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if property.AgentID != userID && !isAdmin {
		return nil, errors.New("unauthorized to update this property")
	}

	property.Status = status
	if err := s.db.Save(property).Error; err != nil {
		return nil, fmt.Errorf("failed to update property status: %w", err)
	}

	return property, nil
}

// AttachImage records an uploaded image key on the property's image list.
func (s *PropertyService) AttachImage(id, userID uuid.UUID, isAdmin bool, upload *UploadResult) (*models.Property, error) {
	property, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if property.AgentID != userID && !isAdmin {
		return nil, errors.New("unauthorized to update this property")
	}

	if property.Images == nil {
		property.Images = models.JSONB{}
	}

	images, _ := property.Images["items"].([]interface{})
	images = append(images, map[string]interface{}{
		"key": upload.Key,
		"url": upload.URL,
	})
	property.Images["items"] = images

	if err := s.db.Save(property).Error; err != nil {
		return nil, fmt.Errorf("failed to attach property image: %w", err)
	}

	return property, nil
}

func (s *PropertyService) Delete(id, userID uuid.UUID, isAdmin bool) error {
	property, err := s.Get(id)
	if err != nil {
		return err
	}

	if property.AgentID != userID && !isAdmin {
		return errors.New("unauthorized to delete this property")
	}

	var transactionCount int64
	if err := s.db.Model(&models.PropertyTransaction{}).
		Where("property_id = ?", id).
		Count(&transactionCount).Error; err != nil {
		return fmt.Errorf("failed to check property transactions: %w", err)
	}
	if transactionCount > 0 {
		return errors.New("cannot delete a property with recorded transactions")
	}

	if err := s.db.Delete(property).Error; err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	go s.removeImageObjects(property)

	return nil
}

// removeImageObjects deletes the property's stored image objects after the
// row is gone. Best-effort: an orphaned object is logged, never surfaced.
func (s *PropertyService) removeImageObjects(property *models.Property) {
	items, _ := property.Images["items"].([]interface{})
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		key, ok := entry["key"].(string)
		if !ok || key == "" {
			continue
		}
		if err := s.storageService.DeleteFile(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to delete property image object")
		}
	}
}
