// internal/models/approval.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// CommissionApproval tracks review of a transaction's commission from
// submission through payment. Status strings are owned by the commission
// package's state machine; this row never encodes transition rules itself.
type CommissionApproval struct {
	BaseModel
	TransactionID     uuid.UUID  `json:"transaction_id" gorm:"type:uuid;not null;uniqueIndex"`
	SubmittedBy       uuid.UUID  `json:"submitted_by" gorm:"type:uuid;not null;index"`
	ReviewerID        *uuid.UUID `json:"reviewer_id" gorm:"type:uuid;index"`
	Status            string     `json:"status" gorm:"type:varchar(30);not null;default:'Pending';index"`
	ThresholdExceeded bool       `json:"threshold_exceeded" gorm:"default:false"`
	Notes             string     `json:"notes" gorm:"type:text"`
	ReviewedAt        *time.Time `json:"reviewed_at"`

	// Relationships
	Transaction PropertyTransaction `json:"transaction,omitempty" gorm:"foreignKey:TransactionID"`
	Submitter   User                `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
	Reviewer    *User               `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	History     []ApprovalHistory   `json:"history,omitempty" gorm:"foreignKey:ApprovalID"`
	Comments    []ApprovalComment   `json:"comments,omitempty" gorm:"foreignKey:ApprovalID"`
}

func (CommissionApproval) TableName() string {
	return "commission_approvals"
}

// ApprovalHistory entries are append-only. Rows are never edited or removed;
// together they form the audit trail of every status transition.
type ApprovalHistory struct {
	BaseModel
	ApprovalID     uuid.UUID  `json:"approval_id" gorm:"type:uuid;not null;index"`
	PreviousStatus string     `json:"previous_status" gorm:"type:varchar(30)"`
	NewStatus      string     `json:"new_status" gorm:"type:varchar(30);not null"`
	ChangedBy      *uuid.UUID `json:"changed_by" gorm:"type:uuid"`
	Notes          string     `json:"notes" gorm:"type:text"`
}

func (ApprovalHistory) TableName() string {
	return "approval_history"
}

type ApprovalComment struct {
	BaseModel
	ApprovalID uuid.UUID `json:"approval_id" gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (ApprovalComment) TableName() string {
	return "approval_comments"
}
