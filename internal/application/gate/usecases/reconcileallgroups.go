package usecases

import (
	"context"
	"fmt"
	"sync/atomic"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// ReconcileAllGroupsUseCase sweeps every active group and re-verifies
// each linked membership. At most one sweep runs at a time; a trigger
// that arrives while a sweep is in flight is dropped, not queued.
type ReconcileAllGroupsUseCase struct {
	groupRepo      gate.GroupRepository
	tierRepo       gate.TierRepository
	membershipRepo gate.MembershipRepository
	verify         *VerifyMembershipUseCase
	logger         logger.Interface

	running atomic.Bool
}

// NewReconcileAllGroupsUseCase creates a new ReconcileAllGroupsUseCase
func NewReconcileAllGroupsUseCase(
	groupRepo gate.GroupRepository,
	tierRepo gate.TierRepository,
	membershipRepo gate.MembershipRepository,
	verify *VerifyMembershipUseCase,
	logger logger.Interface,
) *ReconcileAllGroupsUseCase {
	return &ReconcileAllGroupsUseCase{
		groupRepo:      groupRepo,
		tierRepo:       tierRepo,
		membershipRepo: membershipRepo,
		verify:         verify,
		logger:         logger,
	}
}

// Execute runs one full sweep. Failures are isolated per group and per
// member: an oracle or store error for one member never aborts the
// sweep, it is counted and the sweep moves on.
func (uc *ReconcileAllGroupsUseCase) Execute(ctx context.Context) (*dto.ReconcileResponse, error) {
	if !uc.running.CompareAndSwap(false, true) {
		uc.logger.Warnw("reconciliation already in progress, skipping trigger")
		return &dto.ReconcileResponse{Skipped: true}, nil
	}
	defer uc.running.Store(false)

	groups, err := uc.groupRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active groups: %w", err)
	}

	resp := &dto.ReconcileResponse{}
	for _, group := range groups {
		if ctx.Err() != nil {
			uc.logger.Warnw("reconciliation interrupted", "error", ctx.Err())
			break
		}
		uc.sweepGroup(ctx, group, resp)
	}

	uc.logger.Infow("reconciliation sweep completed",
		"groups", resp.GroupsSwept,
		"checked", resp.Checked,
		"updated", resp.Updated,
		"removed", resp.Removed,
		"errors", resp.Errors,
	)
	return resp, nil
}

func (uc *ReconcileAllGroupsUseCase) sweepGroup(ctx context.Context, group *gate.Group, resp *dto.ReconcileResponse) {
	tiers, err := uc.tierRepo.ListByChatID(ctx, group.ChatID())
	if err != nil {
		uc.logger.Errorw("failed to load tiers, skipping group", "chat_id", group.ChatID(), "error", err)
		resp.Errors++
		return
	}
	if len(tiers) == 0 {
		uc.logger.Warnw("group has no tiers configured, skipping", "chat_id", group.ChatID())
		return
	}

	memberships, err := uc.membershipRepo.ListByChatID(ctx, group.ChatID())
	if err != nil {
		uc.logger.Errorw("failed to list memberships, skipping group", "chat_id", group.ChatID(), "error", err)
		resp.Errors++
		return
	}

	resp.GroupsSwept++
	for _, m := range memberships {
		if ctx.Err() != nil {
			return
		}

		result, err := uc.verify.Execute(ctx, VerifyMembershipCommand{
			Group:      group,
			Tiers:      tiers,
			Membership: m,
			Enforce:    true,
		})
		if err != nil {
			resp.Errors++
			continue
		}

		resp.Checked++
		if result.Changed {
			resp.Updated++
		}
		if result.Removed {
			resp.Removed++
		}
	}
}
