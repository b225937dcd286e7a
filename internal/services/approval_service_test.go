// internal/services/approval_service_test.go
package services

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/propfolio/brokerage-backend/internal/commission"
	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/database"
	"github.com/propfolio/brokerage-backend/internal/models"
)

// ApprovalServiceTestSuite exercises the approval state machine against a
// real database. Set TEST_DATABASE_URL to run it; without one the suite
// skips.
type ApprovalServiceTestSuite struct {
	suite.Suite
	db              *gorm.DB
	approvalService *ApprovalService
	scheduleService *ScheduleService

	agent    models.User
	admin    models.User
	schedule models.PaymentSchedule
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

func (s *ApprovalServiceTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(database.RunMigrations(db))

	notificationService := NewNotificationService(db, &config.Config{})
	s.scheduleService = NewScheduleService(db)
	s.approvalService = NewApprovalService(db, s.scheduleService, notificationService)

	s.agent = models.User{
		Username: "approval_test_agent",
		Email:    "approval_test_agent@example.com",
		FullName: "Approval Test Agent",
		Role:     models.UserRoleAgent,
		Status:   models.UserStatusActive,
	}
	s.Require().NoError(s.agent.SetPassword("Str0ng!pass"))
	s.Require().NoError(db.Create(&s.agent).Error)

	s.admin = models.User{
		Username: "approval_test_admin",
		Email:    "approval_test_admin@example.com",
		FullName: "Approval Test Admin",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
	}
	s.Require().NoError(s.admin.SetPassword("Str0ng!pass"))
	s.Require().NoError(db.Create(&s.admin).Error)

	fifty := decimal.NewFromInt(50)
	s.schedule = models.PaymentSchedule{
		Name:             "Approval Test 50/50",
		InstallmentCount: 2,
		Installments: []models.ScheduleInstallment{
			{InstallmentNumber: 1, Percentage: fifty, DaysAfterTransaction: 30},
			{InstallmentNumber: 2, Percentage: fifty, DaysAfterTransaction: 60},
		},
	}
	s.Require().NoError(db.Create(&s.schedule).Error)
}

func (s *ApprovalServiceTestSuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	s.db.Unscoped().Where("agent_id = ?", s.agent.ID).Delete(&models.CommissionInstallment{})
	s.db.Unscoped().Where("submitted_by = ?", s.agent.ID).Delete(&models.CommissionApproval{})
	s.db.Unscoped().Where("agent_id = ?", s.agent.ID).Delete(&models.PropertyTransaction{})
	s.db.Unscoped().Delete(&s.schedule)
	s.db.Unscoped().Delete(&s.agent)
	s.db.Unscoped().Delete(&s.admin)
}

func (s *ApprovalServiceTestSuite) newApproval(thresholdExceeded bool) (models.PropertyTransaction, models.CommissionApproval) {
	transaction := models.PropertyTransaction{
		AgentID:           s.agent.ID,
		TransactionType:   models.TransactionTypeSale,
		TransactionDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TransactionValue:  decimal.NewFromInt(500000),
		CommissionRate:    decimal.NewFromInt(3),
		CommissionAmount:  decimal.NewFromInt(15000),
		Status:            models.TransactionStatusSubmitted,
		PaymentScheduleID: &s.schedule.ID,
	}
	s.Require().NoError(s.db.Create(&transaction).Error)

	approval := models.CommissionApproval{
		TransactionID:     transaction.ID,
		SubmittedBy:       s.agent.ID,
		Status:            string(commission.StatusPending),
		ThresholdExceeded: thresholdExceeded,
	}
	s.Require().NoError(s.db.Create(&approval).Error)

	return transaction, approval
}

func (s *ApprovalServiceTestSuite) TestApproveGeneratesInstallmentsOnce() {
	transaction, approval := s.newApproval(false)

	updated, err := s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusApproved),
	})
	s.Require().NoError(err)
	s.Equal(string(commission.StatusApproved), updated.Status)

	var installments []models.CommissionInstallment
	s.Require().NoError(s.db.Where("transaction_id = ?", transaction.ID).
		Order("installment_number ASC").Find(&installments).Error)
	s.Require().Len(installments, 2)
	s.True(installments[0].Amount.Equal(decimal.NewFromInt(7500)))
	s.True(installments[1].Amount.Equal(decimal.NewFromInt(7500)))

	var reloaded models.PropertyTransaction
	s.Require().NoError(s.db.First(&reloaded, transaction.ID).Error)
	s.True(reloaded.InstallmentsGenerated)
	s.Equal(models.TransactionStatusApproved, reloaded.Status)

	// A second claim must be a no-op even when invoked directly.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		batch, err := s.approvalService.generateInstallments(tx, &reloaded)
		s.NoError(err)
		s.Empty(batch)
		return err
	})
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.db.Model(&models.CommissionInstallment{}).
		Where("transaction_id = ?", transaction.ID).Count(&count).Error)
	s.EqualValues(2, count)
}

func (s *ApprovalServiceTestSuite) TestThresholdForcesReviewRoute() {
	_, approval := s.newApproval(true)

	_, err := s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusApproved),
	})
	s.Require().Error(err)
	var transitionErr *commission.InvalidTransitionError
	s.Require().ErrorAs(err, &transitionErr)

	// Nothing must have moved.
	var reloaded models.CommissionApproval
	s.Require().NoError(s.db.First(&reloaded, approval.ID).Error)
	s.Equal(string(commission.StatusPending), reloaded.Status)

	// The review route succeeds.
	_, err = s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusUnderReview),
	})
	s.Require().NoError(err)
	_, err = s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusApproved),
	})
	s.Require().NoError(err)
}

func (s *ApprovalServiceTestSuite) TestConcurrentTransitionsSerialize() {
	_, approval := s.newApproval(false)

	// Both requests are legal against the Pending status they read; the row
	// lock must force the loser to see the winner's committed state.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
				Status: string(commission.StatusUnderReview),
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			var transitionErr *commission.InvalidTransitionError
			s.ErrorAs(err, &transitionErr)
		}
	}
	s.Equal(1, failures)

	var reloaded models.CommissionApproval
	s.Require().NoError(s.db.First(&reloaded, approval.ID).Error)
	s.Equal(string(commission.StatusUnderReview), reloaded.Status)

	var historyCount int64
	s.Require().NoError(s.db.Model(&models.ApprovalHistory{}).
		Where("approval_id = ?", approval.ID).Count(&historyCount).Error)
	s.EqualValues(1, historyCount)
}

func (s *ApprovalServiceTestSuite) TestRejectedIsTerminal() {
	_, approval := s.newApproval(false)

	_, err := s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusRejected),
		Notes:  "Missing supporting documents",
	})
	s.Require().NoError(err)

	_, err = s.approvalService.UpdateStatus(approval.ID, s.admin.ID, &UpdateApprovalStatusRequest{
		Status: string(commission.StatusApproved),
	})
	s.Require().Error(err)

	history, err := s.approvalService.GetHistory(approval.ID, s.admin.ID, true)
	s.Require().NoError(err)
	s.Require().NotEmpty(history)
	s.Equal(string(commission.StatusRejected), history[len(history)-1].NewStatus)
}
