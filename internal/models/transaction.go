// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyTransaction records a closed sale or rental event. Once
// InstallmentsGenerated flips true the row is append-only: installments have
// been materialized against it and regeneration would duplicate them.
type PropertyTransaction struct {
	BaseModel
	PropertyID       *uuid.UUID        `json:"property_id" gorm:"type:uuid;index"`
	AgentID          uuid.UUID         `json:"agent_id" gorm:"type:uuid;not null;index"`
	TransactionType  TransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	TransactionDate  time.Time         `json:"transaction_date" gorm:"type:date;not null"`
	TransactionValue decimal.Decimal   `json:"transaction_value" gorm:"type:decimal(14,2);not null"`
	CommissionRate   decimal.Decimal   `json:"commission_rate" gorm:"type:decimal(5,2);not null"`
	CommissionAmount decimal.Decimal   `json:"commission_amount" gorm:"type:decimal(12,2);not null"`
	BuyerName        string            `json:"buyer_name" gorm:"size:100"`
	SellerName       string            `json:"seller_name" gorm:"size:100"`
	Notes            string            `json:"notes" gorm:"type:text"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Co-broking configuration. When CoBrokingEnabled is false every split
	// collapses to 100/0 and the counterparty columns are ignored.
	CoBrokingEnabled bool   `json:"co_broking_enabled" gorm:"default:false"`
	CoAgentName      string `json:"co_agent_name" gorm:"size:100"`
	CoAgencyName     string `json:"co_agency_name" gorm:"size:100"`
	CoAgentContact   string `json:"co_agent_contact" gorm:"size:100"`
	CommissionSplit  int    `json:"commission_split" gorm:"default:50"`

	PaymentScheduleID     *uuid.UUID `json:"payment_schedule_id" gorm:"type:uuid;index"`
	InstallmentsGenerated bool       `json:"installments_generated" gorm:"default:false"`

	// Supporting documents (sale agreements, booking forms) as uploaded file
	// descriptors.
	Documents JSONB `json:"documents" gorm:"type:jsonb"`

	// Relationships
	Property        *Property               `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Agent           User                    `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	PaymentSchedule *PaymentSchedule        `json:"payment_schedule,omitempty" gorm:"foreignKey:PaymentScheduleID"`
	Installments    []CommissionInstallment `json:"installments,omitempty" gorm:"foreignKey:TransactionID"`
	Approval        *CommissionApproval     `json:"approval,omitempty" gorm:"foreignKey:TransactionID"`
}

func (PropertyTransaction) TableName() string {
	return "property_transactions"
}
