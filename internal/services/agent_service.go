// internal/services/agent_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propfolio/brokerage-backend/internal/models"
)

type AgentService struct {
	db *gorm.DB
}

type AgentTierRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=50"`
	AgentPercentage int    `json:"agent_percentage" validate:"required,min=0,max=100"`
	Rank            int    `json:"rank" validate:"min=0"`
}

type AgentDashboardStats struct {
	TotalTransactions   int64           `json:"total_transactions"`
	PendingApprovals    int64           `json:"pending_approvals"`
	TotalCommission     decimal.Decimal `json:"total_commission"`
	PendingInstallments int64           `json:"pending_installments"`
	PaidInstallments    int64           `json:"paid_installments"`
	UpcomingAmount      decimal.Decimal `json:"upcoming_amount"`
}

func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

func (s *AgentService) ListTiers() ([]models.AgentTier, error) {
	var tiers []models.AgentTier
	if err := s.db.Order("rank ASC").Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch agent tiers: %w", err)
	}
	return tiers, nil
}

// TierForAgent resolves the agent's configured tier, falling back to the
// lowest-ranked tier for agents without an assignment.
func (s *AgentService) TierForAgent(agentID uuid.UUID) (*models.AgentTier, error) {
	var agent models.User
	if err := s.db.Preload("AgentTier").First(&agent, agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("agent not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if agent.AgentTier != nil {
		return agent.AgentTier, nil
	}

	var tier models.AgentTier
	if err := s.db.Order("rank ASC").First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("no agent tiers configured")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &tier, nil
}

func (s *AgentService) CreateTier(req *AgentTierRequest) (*models.AgentTier, error) {
	tier := &models.AgentTier{
		Name:            req.Name,
		AgentPercentage: req.AgentPercentage,
		Rank:            req.Rank,
	}

	if err := s.db.Create(tier).Error; err != nil {
		return nil, fmt.Errorf("failed to create agent tier: %w", err)
	}

	return tier, nil
}

func (s *AgentService) UpdateTier(id uuid.UUID, req *AgentTierRequest) (*models.AgentTier, error) {
	var tier models.AgentTier
	if err := s.db.First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("agent tier not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	tier.Name = req.Name
	tier.AgentPercentage = req.AgentPercentage
	tier.Rank = req.Rank

	if err := s.db.Save(&tier).Error; err != nil {
		return nil, fmt.Errorf("failed to update agent tier: %w", err)
	}

	return &tier, nil
}

func (s *AgentService) AssignTier(agentID, tierID uuid.UUID) error {
	var tier models.AgentTier
	if err := s.db.First(&tier, tierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("agent tier not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	result := s.db.Model(&models.User{}).
		Where("id = ? AND role = ?", agentID, models.UserRoleAgent).
		Update("agent_tier_id", tierID)
	if result.Error != nil {
		return fmt.Errorf("failed to assign tier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("agent not found")
	}

	return nil
}

func (s *AgentService) DashboardStats(agentID uuid.UUID) (*AgentDashboardStats, error) {
	stats := &AgentDashboardStats{
		TotalCommission: decimal.Zero,
		UpcomingAmount:  decimal.Zero,
	}

	if err := s.db.Model(&models.PropertyTransaction{}).
		Where("agent_id = ?", agentID).
		Count(&stats.TotalTransactions).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	s.db.Model(&models.CommissionApproval{}).
		Where("submitted_by = ? AND status IN (?, ?)", agentID, "Pending", "Under Review").
		Count(&stats.PendingApprovals)

	var totalCommission []decimal.Decimal
	s.db.Model(&models.PropertyTransaction{}).
		Where("agent_id = ? AND installments_generated = ?", agentID, true).
		Pluck("commission_amount", &totalCommission)
	for _, amount := range totalCommission {
		stats.TotalCommission = stats.TotalCommission.Add(amount)
	}

	s.db.Model(&models.CommissionInstallment{}).
		Where("agent_id = ? AND status = ?", agentID, models.InstallmentStatusPending).
		Count(&stats.PendingInstallments)

	s.db.Model(&models.CommissionInstallment{}).
		Where("agent_id = ? AND status = ?", agentID, models.InstallmentStatusPaid).
		Count(&stats.PaidInstallments)

	var upcoming []decimal.Decimal
	s.db.Model(&models.CommissionInstallment{}).
		Where("agent_id = ? AND status IN (?, ?)", agentID, models.InstallmentStatusPending, models.InstallmentStatusProcessing).
		Pluck("amount", &upcoming)
	for _, amount := range upcoming {
		stats.UpcomingAmount = stats.UpcomingAmount.Add(amount)
	}

	return stats, nil
}
