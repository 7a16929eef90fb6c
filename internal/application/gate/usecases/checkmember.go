package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// CheckMemberCommand identifies the membership to re-verify on demand
type CheckMemberCommand struct {
	UserID int64
	ChatID int64
}

// CheckMemberUseCase re-verifies a single member immediately. Unlike
// the scheduled sweep it never removes anyone; the caller gets the
// fresh status to report back.
type CheckMemberUseCase struct {
	groupRepo      gate.GroupRepository
	tierRepo       gate.TierRepository
	membershipRepo gate.MembershipRepository
	verify         *VerifyMembershipUseCase
	logger         logger.Interface
}

// NewCheckMemberUseCase creates a new CheckMemberUseCase
func NewCheckMemberUseCase(
	groupRepo gate.GroupRepository,
	tierRepo gate.TierRepository,
	membershipRepo gate.MembershipRepository,
	verify *VerifyMembershipUseCase,
	logger logger.Interface,
) *CheckMemberUseCase {
	return &CheckMemberUseCase{
		groupRepo:      groupRepo,
		tierRepo:       tierRepo,
		membershipRepo: membershipRepo,
		verify:         verify,
		logger:         logger,
	}
}

// Execute checks the member's current balance and updates their status
func (uc *CheckMemberUseCase) Execute(ctx context.Context, cmd CheckMemberCommand) (*dto.VerificationResponse, error) {
	group, err := uc.groupRepo.GetByChatID(ctx, cmd.ChatID)
	if err != nil {
		if errors.Is(err, gate.ErrGroupNotFound) {
			return nil, gate.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if !group.IsActive() {
		return nil, gate.ErrGroupInactive
	}

	tiers, err := uc.tierRepo.ListByChatID(ctx, cmd.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}
	if len(tiers) == 0 {
		return nil, gate.ErrNoTiersConfigured
	}

	membership, err := uc.membershipRepo.GetByUserAndChat(ctx, cmd.UserID, cmd.ChatID)
	if err != nil {
		if errors.Is(err, gate.ErrMembershipNotFound) {
			return nil, gate.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	return uc.verify.Execute(ctx, VerifyMembershipCommand{
		Group:      group,
		Tiers:      tiers,
		Membership: membership,
	})
}
