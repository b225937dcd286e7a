// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeApprovalStatusChanged NotificationType = "approval_status_changed"
	NotificationTypeInstallmentsGenerated NotificationType = "installments_generated"
	NotificationTypeInstallmentStatus     NotificationType = "installment_status_changed"
	NotificationTypeTransactionSubmitted  NotificationType = "transaction_submitted"
	NotificationTypeApprovalCommentAdded  NotificationType = "approval_comment_added"
)

// Notification rows are one-way event emission for the UI layer. The core
// services write them best-effort and never wait on delivery.
type Notification struct {
	BaseModel
	UserID  uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	Title   string           `json:"title" gorm:"size:255;not null"`
	Message string           `json:"message" gorm:"type:text;not null"`
	Data    JSONB            `json:"data" gorm:"type:jsonb"`
	Read    bool             `json:"read" gorm:"default:false;index"`
	ReadAt  *time.Time       `json:"read_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
