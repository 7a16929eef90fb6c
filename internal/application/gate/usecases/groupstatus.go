package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
)

const recentVerificationLimit = 5

// GetGroupStatusUseCase builds the admin overview of a gated group
type GetGroupStatusUseCase struct {
	groupRepo      gate.GroupRepository
	tierRepo       gate.TierRepository
	membershipRepo gate.MembershipRepository
	logRepo        gate.VerificationLogRepository
}

// NewGetGroupStatusUseCase creates a new GetGroupStatusUseCase
func NewGetGroupStatusUseCase(
	groupRepo gate.GroupRepository,
	tierRepo gate.TierRepository,
	membershipRepo gate.MembershipRepository,
	logRepo gate.VerificationLogRepository,
) *GetGroupStatusUseCase {
	return &GetGroupStatusUseCase{
		groupRepo:      groupRepo,
		tierRepo:       tierRepo,
		membershipRepo: membershipRepo,
		logRepo:        logRepo,
	}
}

// Execute returns group configuration, member counts, and recent audit
// log entries
func (uc *GetGroupStatusUseCase) Execute(ctx context.Context, chatID int64) (*dto.GroupStatusResponse, error) {
	group, err := uc.groupRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gate.ErrGroupNotFound) {
			return nil, gate.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	tiers, err := uc.tierRepo.ListByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}

	memberships, err := uc.membershipRepo.ListByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	entries, err := uc.logRepo.ListRecentByChatID(ctx, chatID, recentVerificationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification log: %w", err)
	}

	resp := &dto.GroupStatusResponse{
		ChatID:      group.ChatID(),
		TokenMint:   group.TokenMint(),
		Active:      group.IsActive(),
		MemberCount: len(memberships),
	}
	for _, m := range memberships {
		if m.HasTier() {
			resp.HolderCount++
		}
	}
	for _, tier := range tiers {
		resp.Tiers = append(resp.Tiers, dto.TierResponse{
			Name:      tier.Name(),
			MinAmount: tier.MinAmount(),
		})
	}
	for _, e := range entries {
		resp.RecentVerifications = append(resp.RecentVerifications, dto.VerificationLogEntry{
			UserID:    e.UserID(),
			Status:    e.Status(),
			Action:    e.Action(),
			Balance:   e.Balance(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return resp, nil
}
