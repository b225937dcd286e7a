// internal/models/property.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Property struct {
	BaseModel
	Title           string           `json:"title" gorm:"size:100;not null"`
	Description     string           `json:"description" gorm:"type:text"`
	PropertyType    PropertyType     `json:"property_type" gorm:"type:varchar(20);not null;index"`
	PropertySubtype string           `json:"property_subtype" gorm:"size:50"`
	TransactionType TransactionType  `json:"transaction_type" gorm:"type:varchar(20);not null"`
	Price           *decimal.Decimal `json:"price" gorm:"type:decimal(14,2)"`
	RentalRate      *decimal.Decimal `json:"rental_rate" gorm:"type:decimal(12,2)"`
	AddressStreet   string           `json:"address_street" gorm:"size:255"`
	AddressCity     string           `json:"address_city" gorm:"size:100;index"`
	AddressState    string           `json:"address_state" gorm:"size:100"`
	AddressZip      string           `json:"address_zip" gorm:"size:20"`
	Bedrooms        int              `json:"bedrooms"`
	Bathrooms       int              `json:"bathrooms"`
	BuiltUpArea     float64          `json:"built_up_area"`
	Features        JSONB            `json:"features" gorm:"type:jsonb"`
	Images          JSONB            `json:"images" gorm:"type:jsonb"`
	Status          PropertyStatus   `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Featured        bool             `json:"featured" gorm:"default:false"`
	AgentID         uuid.UUID        `json:"agent_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Agent        User                  `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Transactions []PropertyTransaction `json:"transactions,omitempty" gorm:"foreignKey:PropertyID"`
}
