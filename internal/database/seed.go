// internal/database/seed.go
package database

import (
	"fmt"
	"log"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/models"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

// Seed inserts the baseline rows an empty deployment needs: the agent tier
// ladder, the default payment schedule, the system configuration keys and the
// initial admin account. Each block is skipped when rows already exist, so
// the call is safe on every startup.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := seedAgentTiers(db); err != nil {
		return fmt.Errorf("failed to seed agent tiers: %w", err)
	}
	if err := seedPaymentSchedules(db); err != nil {
		return fmt.Errorf("failed to seed payment schedules: %w", err)
	}
	if err := seedSystemConfiguration(db, cfg); err != nil {
		return fmt.Errorf("failed to seed system configuration: %w", err)
	}
	if err := seedAdminUser(db); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}

// seedAdminUser provisions the first admin account with a generated one-time
// password. Admins are never self-registered, so without this row a fresh
// deployment has no way to review approvals.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password, err := utils.GenerateRandomString(16)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@propfolio.local",
		FullName: "System Administrator",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s with one-time password %s (change it after first login)", admin.Email, password)
	return nil
}

func seedAgentTiers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AgentTier{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tiers := []models.AgentTier{
		{Name: "Junior", AgentPercentage: 70, Rank: 1},
		{Name: "Associate", AgentPercentage: 75, Rank: 2},
		{Name: "Senior", AgentPercentage: 80, Rank: 3},
		{Name: "Director", AgentPercentage: 85, Rank: 4},
		{Name: "Partner", AgentPercentage: 90, Rank: 5},
	}

	if err := db.Create(&tiers).Error; err != nil {
		return err
	}

	log.Println("Seeded agent tiers")
	return nil
}

func seedPaymentSchedules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PaymentSchedule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	schedules := []models.PaymentSchedule{
		{
			Name:             "Standard Payment Schedule",
			Description:      "Default payment schedule with two installments",
			InstallmentCount: 2,
			IsDefault:        true,
			Installments: []models.ScheduleInstallment{
				{InstallmentNumber: 1, Percentage: decimal.NewFromInt(50), DaysAfterTransaction: 30, Description: "50% after 30 days"},
				{InstallmentNumber: 2, Percentage: decimal.NewFromInt(50), DaysAfterTransaction: 60, Description: "Remaining 50% after 60 days"},
			},
		},
		{
			Name:             "Single Payment",
			Description:      "Full commission in one installment",
			InstallmentCount: 1,
			Installments: []models.ScheduleInstallment{
				{InstallmentNumber: 1, Percentage: decimal.NewFromInt(100), DaysAfterTransaction: 30, Description: "100% after 30 days"},
			},
		},
		{
			Name:             "Quarterly Schedule",
			Description:      "Commission spread over four quarterly installments",
			InstallmentCount: 4,
			Installments: []models.ScheduleInstallment{
				{InstallmentNumber: 1, Percentage: decimal.NewFromInt(25), DaysAfterTransaction: 0, Description: "25% on transaction date"},
				{InstallmentNumber: 2, Percentage: decimal.NewFromInt(25), DaysAfterTransaction: 90, Description: "25% after 90 days"},
				{InstallmentNumber: 3, Percentage: decimal.NewFromInt(25), DaysAfterTransaction: 180, Description: "25% after 180 days"},
				{InstallmentNumber: 4, Percentage: decimal.NewFromInt(25), DaysAfterTransaction: 270, Description: "25% after 270 days"},
			},
		},
	}

	if err := db.Create(&schedules).Error; err != nil {
		return err
	}

	log.Println("Seeded payment schedules")
	return nil
}

func seedSystemConfiguration(db *gorm.DB, cfg *config.Config) error {
	entries := []models.SystemConfiguration{
		{
			Key:         "commission_payment_cutoff_day",
			Value:       strconv.Itoa(cfg.Commission.CutoffDay),
			Description: "Day of month after which installments fall into the next payment cycle",
		},
		{
			Key:         "commission_approval_threshold",
			Value:       strconv.FormatFloat(cfg.Commission.ApprovalThreshold, 'f', 2, 64),
			Description: "Commission amount above which approval must pass through review",
		},
	}

	for _, entry := range entries {
		var existing models.SystemConfiguration
		err := db.Where("key = ?", entry.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}

	return nil
}
