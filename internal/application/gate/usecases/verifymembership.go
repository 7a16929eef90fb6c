package usecases

import (
	"context"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// VerifyMembershipCommand carries one membership to verify against its
// group's tier set. Tiers are passed in so sweeps load them once per
// group instead of once per member.
type VerifyMembershipCommand struct {
	Group      *gate.Group
	Tiers      []*gate.Tier
	Membership *gate.Membership
	// Enforce enables removal of members who no longer qualify for any
	// tier. On-demand checks leave it off; only the scheduled sweep
	// removes members.
	Enforce bool
}

// VerifyMembershipUseCase runs a single balance check and records the
// outcome: membership state, audit log entry, and removal when enforced.
type VerifyMembershipUseCase struct {
	membershipRepo gate.MembershipRepository
	logRepo        gate.VerificationLogRepository
	oracle         BalanceOracle
	notifier       MemberNotifier
	enforcer       MembershipEnforcer
	logger         logger.Interface
}

// NewVerifyMembershipUseCase creates a new VerifyMembershipUseCase
func NewVerifyMembershipUseCase(
	membershipRepo gate.MembershipRepository,
	logRepo gate.VerificationLogRepository,
	oracle BalanceOracle,
	notifier MemberNotifier,
	enforcer MembershipEnforcer,
	logger logger.Interface,
) *VerifyMembershipUseCase {
	return &VerifyMembershipUseCase{
		membershipRepo: membershipRepo,
		logRepo:        logRepo,
		oracle:         oracle,
		notifier:       notifier,
		enforcer:       enforcer,
		logger:         logger,
	}
}

// Execute verifies one membership. When the balance check itself fails
// the membership status is left untouched and only an audit entry is
// written; the member keeps whatever access they had.
func (uc *VerifyMembershipUseCase) Execute(ctx context.Context, cmd VerifyMembershipCommand) (*dto.VerificationResponse, error) {
	group := cmd.Group
	m := cmd.Membership

	balance, err := uc.oracle.GetTokenBalance(ctx, m.WalletAddress(), group.TokenMint())
	if err != nil {
		uc.logger.Warnw("balance check failed",
			"user_id", m.UserID(),
			"chat_id", m.ChatID(),
			"wallet", m.WalletAddress(),
			"error", err,
		)
		uc.appendLog(ctx, m, 0, gate.VerificationStatusError, gate.BalanceCheckFailedAction(err))
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}

	previous := m.Status()
	newStatus := gate.StatusNoHolder
	if tier := gate.SelectTier(balance, cmd.Tiers); tier != nil {
		newStatus = tier.Name()
	}

	if newStatus == gate.StatusNoHolder && cmd.Enforce {
		return uc.revoke(ctx, m, balance, previous)
	}

	if newStatus == previous {
		if err := uc.membershipRepo.UpdateStatus(ctx, m.UserID(), m.ChatID(), newStatus, balance); err != nil {
			return nil, fmt.Errorf("failed to refresh membership status: %w", err)
		}
		uc.appendLog(ctx, m, balance, newStatus, gate.ActionVerified)
		return &dto.VerificationResponse{
			PreviousStatus: previous,
			Status:         newStatus,
			Balance:        balance,
		}, nil
	}

	if err := uc.membershipRepo.UpdateStatus(ctx, m.UserID(), m.ChatID(), newStatus, balance); err != nil {
		return nil, fmt.Errorf("failed to update membership status: %w", err)
	}
	uc.appendLog(ctx, m, balance, newStatus, gate.ActionStatusUpdated)

	uc.logger.Infow("membership status updated",
		"user_id", m.UserID(),
		"chat_id", m.ChatID(),
		"previous", previous,
		"status", newStatus,
		"balance", balance,
	)

	if uc.notifier != nil {
		text := fmt.Sprintf("🎉 Your status has been updated!\n\nNew status: *%s*\nBalance: %.2f tokens", newStatus, balance)
		if err := uc.notifier.SendMessage(ctx, m.UserID(), text); err != nil {
			uc.logger.Warnw("failed to notify member of status change", "user_id", m.UserID(), "error", err)
		}
	}

	return &dto.VerificationResponse{
		PreviousStatus: previous,
		Status:         newStatus,
		Balance:        balance,
		Changed:        true,
	}, nil
}

// revoke persists the removal before touching the chat: the enforcer
// call is best-effort and a failed kick is retried naturally on the
// next sweep, but the stored status and audit trail must not depend
// on it.
func (uc *VerifyMembershipUseCase) revoke(ctx context.Context, m *gate.Membership, balance float64, previous string) (*dto.VerificationResponse, error) {
	if err := uc.membershipRepo.UpdateStatus(ctx, m.UserID(), m.ChatID(), gate.StatusRemoved, balance); err != nil {
		return nil, fmt.Errorf("failed to update membership status: %w", err)
	}
	uc.appendLog(ctx, m, balance, gate.StatusRemoved, gate.ActionAccessRevoked)

	if err := uc.enforcer.ResetMember(ctx, m.ChatID(), m.UserID()); err != nil {
		uc.logger.Warnw("failed to remove member from chat",
			"user_id", m.UserID(),
			"chat_id", m.ChatID(),
			"error", err,
		)
	}

	uc.logger.Infow("member access revoked",
		"user_id", m.UserID(),
		"chat_id", m.ChatID(),
		"previous", previous,
		"balance", balance,
	)

	if uc.notifier != nil {
		text := fmt.Sprintf("⚠️ Your access to the token-gated group has been removed.\n\n"+
			"Reason: insufficient token balance (%.2f tokens).\n\n"+
			"To regain access, top up and use /linkwallet to verify again.", balance)
		if err := uc.notifier.SendMessage(ctx, m.UserID(), text); err != nil {
			uc.logger.Warnw("failed to notify member of removal", "user_id", m.UserID(), "error", err)
		}
	}

	return &dto.VerificationResponse{
		PreviousStatus: previous,
		Status:         gate.StatusRemoved,
		Balance:        balance,
		Changed:        previous != gate.StatusRemoved,
		Removed:        true,
	}, nil
}

// appendLog writes an audit entry. Log failures are logged and dropped;
// the audit trail never blocks verification itself.
func (uc *VerifyMembershipUseCase) appendLog(ctx context.Context, m *gate.Membership, balance float64, status, action string) {
	entry, err := gate.NewVerificationEntry(m.UserID(), m.ChatID(), m.WalletAddress(), balance, status, action)
	if err != nil {
		uc.logger.Errorw("failed to build verification log entry", "error", err)
		return
	}
	if err := uc.logRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to append verification log entry",
			"user_id", m.UserID(),
			"chat_id", m.ChatID(),
			"error", err,
		)
	}
}
