// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"full_name" gorm:"size:100"`
	Phone        string     `json:"phone" gorm:"size:30"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'agent'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	AgentTierID  *uuid.UUID `json:"agent_tier_id" gorm:"type:uuid;index"`
	ProfileData  JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	AgentTier    *AgentTier            `json:"agent_tier,omitempty" gorm:"foreignKey:AgentTierID"`
	Properties   []Property            `json:"properties,omitempty" gorm:"foreignKey:AgentID"`
	Transactions []PropertyTransaction `json:"transactions,omitempty" gorm:"foreignKey:AgentID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// AgentTier describes the internal agency/agent split by seniority level.
// Agency percentage is always 100 - AgentPercentage; only the agent side is
// stored. Configured administratively, read-only to calculation logic.
type AgentTier struct {
	BaseModel
	Name            string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	AgentPercentage int    `json:"agent_percentage" gorm:"not null"`
	Rank            int    `json:"rank" gorm:"not null;default:0"`
}
