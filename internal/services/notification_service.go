// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

// NotificationService writes notification rows for the UI layer to consume
// and optionally mirrors them to email. Every publish method is best-effort:
// a failure is logged and swallowed, never returned, so notification delivery
// can never roll back or block the operation that triggered it.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) publish(userID uuid.UUID, notificationType models.NotificationType, title, message string, data models.JSONB) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("type", notificationType).Warn("failed to persist notification")
	}
}

func (s *NotificationService) NotifyApprovalStatusChanged(agentID uuid.UUID, transactionID uuid.UUID, previousStatus, newStatus string) {
	s.publish(agentID, models.NotificationTypeApprovalStatusChanged,
		"Commission approval updated",
		fmt.Sprintf("Approval status changed from %s to %s", previousStatus, newStatus),
		models.JSONB{
			"transaction_id":  transactionID.String(),
			"previous_status": previousStatus,
			"new_status":      newStatus,
		})
}

func (s *NotificationService) NotifyInstallmentsGenerated(agentID uuid.UUID, transactionID uuid.UUID, count int) {
	s.publish(agentID, models.NotificationTypeInstallmentsGenerated,
		"Commission installments generated",
		fmt.Sprintf("%d payment installments were scheduled for your transaction", count),
		models.JSONB{
			"transaction_id": transactionID.String(),
			"count":          count,
		})
}

func (s *NotificationService) NotifyInstallmentStatusChanged(agentID uuid.UUID, installmentID uuid.UUID, newStatus models.InstallmentStatus) {
	s.publish(agentID, models.NotificationTypeInstallmentStatus,
		"Installment status updated",
		fmt.Sprintf("An installment moved to %s", newStatus),
		models.JSONB{
			"installment_id": installmentID.String(),
			"new_status":     string(newStatus),
		})
}

func (s *NotificationService) NotifyTransactionSubmitted(adminIDs []uuid.UUID, transactionID uuid.UUID, agentName string) {
	for _, adminID := range adminIDs {
		s.publish(adminID, models.NotificationTypeTransactionSubmitted,
			"Transaction submitted for approval",
			fmt.Sprintf("%s submitted a transaction for commission approval", agentName),
			models.JSONB{
				"transaction_id": transactionID.String(),
			})
	}
}

func (s *NotificationService) NotifyApprovalCommentAdded(recipientID uuid.UUID, approvalID uuid.UUID, authorName string) {
	s.publish(recipientID, models.NotificationTypeApprovalCommentAdded,
		"New comment on commission approval",
		fmt.Sprintf("%s commented on a commission approval", authorName),
		models.JSONB{
			"approval_id": approvalID.String(),
		})
}

func (s *NotificationService) ListForUser(userID uuid.UUID, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"read": true, "read_at": &now})

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SendEmail delivers a plain-text email through the configured SMTP relay.
// Used for account-level mail only; commission events stay in-app.
func (s *NotificationService) SendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		logrus.WithField("to", to).Debug("SMTP not configured, skipping email")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
