// internal/models/commission.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSchedule is a named template of percentage-weighted, day-offset
// installments used to spread a commission payout over time. Exactly one
// schedule in the catalog should carry IsDefault; the schedules service keeps
// a built-in fallback for when none does or the store is unreachable.
type PaymentSchedule struct {
	BaseModel
	Name             string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description      string `json:"description" gorm:"type:text"`
	InstallmentCount int    `json:"installment_count" gorm:"not null;default:0"`
	IsDefault        bool   `json:"is_default" gorm:"default:false;index"`

	Installments []ScheduleInstallment `json:"installments,omitempty" gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

func (PaymentSchedule) TableName() string {
	return "commission_payment_schedules"
}

type ScheduleInstallment struct {
	BaseModel
	ScheduleID           uuid.UUID       `json:"schedule_id" gorm:"type:uuid;not null;uniqueIndex:idx_schedule_installment_no"`
	InstallmentNumber    int             `json:"installment_number" gorm:"not null;uniqueIndex:idx_schedule_installment_no"`
	Percentage           decimal.Decimal `json:"percentage" gorm:"type:decimal(5,2);not null"`
	DaysAfterTransaction int             `json:"days_after_transaction" gorm:"not null"`
	Description          string          `json:"description" gorm:"size:255"`
}

func (ScheduleInstallment) TableName() string {
	return "schedule_installments"
}

// CommissionInstallment is one scheduled, dated partial payment of a
// commission. The (transaction_id, installment_number) unique index is the
// persistence-level backstop against duplicate generation.
type CommissionInstallment struct {
	BaseModel
	TransactionID     uuid.UUID         `json:"transaction_id" gorm:"type:uuid;not null;uniqueIndex:idx_txn_installment_no"`
	AgentID           uuid.UUID         `json:"agent_id" gorm:"type:uuid;not null;index"`
	InstallmentNumber int               `json:"installment_number" gorm:"not null;uniqueIndex:idx_txn_installment_no"`
	Amount            decimal.Decimal   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Percentage        decimal.Decimal   `json:"percentage" gorm:"type:decimal(5,2);not null"`
	ScheduledDate     time.Time         `json:"scheduled_date" gorm:"type:date;not null;index"`
	DueDate           time.Time         `json:"due_date" gorm:"type:date;not null"`
	ActualPaymentDate *time.Time        `json:"actual_payment_date" gorm:"type:date"`
	Status            InstallmentStatus `json:"status" gorm:"type:varchar(20);default:'Pending';index"`
	PaymentNotes      string            `json:"payment_notes" gorm:"type:text"`

	// Relationships
	Transaction PropertyTransaction `json:"transaction,omitempty" gorm:"foreignKey:TransactionID"`
	Agent       User                `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

func (CommissionInstallment) TableName() string {
	return "commission_installments"
}

// SystemConfiguration holds key/value settings read at evaluation time, e.g.
// the payment cutoff day and the approval review threshold.
type SystemConfiguration struct {
	BaseModel
	Key         string `json:"key" gorm:"uniqueIndex;size:100;not null"`
	Value       string `json:"value" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
}

func (SystemConfiguration) TableName() string {
	return "system_configuration"
}
