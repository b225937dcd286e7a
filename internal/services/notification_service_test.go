// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propfolio/brokerage-backend/internal/config"
)

func TestSendEmailSkipsWhenUnconfigured(t *testing.T) {
	// Without SMTP credentials email delivery is a silent no-op so that
	// local deployments never fail on notification mirroring.
	service := NewNotificationService(nil, &config.Config{})
	assert.NoError(t, service.SendEmail("agent@example.com", "Commission approval Approved", "body"))
}
