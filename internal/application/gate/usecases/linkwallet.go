package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// LinkWalletCommand carries a wallet link request
type LinkWalletCommand struct {
	UserID        int64
	ChatID        int64
	WalletAddress string
}

// LinkWalletUseCase links a wallet to a membership after an immediate
// balance check. Only qualifying wallets are persisted; a rejected link
// leaves any existing membership untouched.
type LinkWalletUseCase struct {
	groupRepo      gate.GroupRepository
	tierRepo       gate.TierRepository
	membershipRepo gate.MembershipRepository
	logRepo        gate.VerificationLogRepository
	oracle         BalanceOracle
	logger         logger.Interface
}

// NewLinkWalletUseCase creates a new LinkWalletUseCase
func NewLinkWalletUseCase(
	groupRepo gate.GroupRepository,
	tierRepo gate.TierRepository,
	membershipRepo gate.MembershipRepository,
	logRepo gate.VerificationLogRepository,
	oracle BalanceOracle,
	logger logger.Interface,
) *LinkWalletUseCase {
	return &LinkWalletUseCase{
		groupRepo:      groupRepo,
		tierRepo:       tierRepo,
		membershipRepo: membershipRepo,
		logRepo:        logRepo,
		oracle:         oracle,
		logger:         logger,
	}
}

// Execute verifies the wallet's balance and grants access when a tier
// qualifies
func (uc *LinkWalletUseCase) Execute(ctx context.Context, cmd LinkWalletCommand) (*dto.LinkWalletResponse, error) {
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

	balance, err := uc.oracle.GetTokenBalance(ctx, cmd.WalletAddress, group.TokenMint())
	if err != nil {
		uc.logger.Warnw("balance check failed during wallet link",
			"user_id", cmd.UserID,
			"chat_id", cmd.ChatID,
			"wallet", cmd.WalletAddress,
			"error", err,
		)
		uc.appendLog(ctx, cmd, 0, gate.VerificationStatusError, gate.BalanceCheckFailedAction(err))
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}

	tier := gate.SelectTier(balance, tiers)
	if tier == nil {
		uc.appendLog(ctx, cmd, balance, gate.VerificationStatusRejected, gate.ActionInsufficientBalance)
		uc.logger.Infow("wallet link rejected",
			"user_id", cmd.UserID,
			"chat_id", cmd.ChatID,
			"balance", balance,
		)
		return &dto.LinkWalletResponse{Balance: balance}, nil
	}

	membership, err := gate.NewMembership(cmd.UserID, cmd.ChatID, cmd.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	membership.ApplyVerification(tier.Name(), balance)

	if err := uc.membershipRepo.Upsert(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}
	uc.appendLog(ctx, cmd, balance, tier.Name(), gate.ActionAccessGranted)

	uc.logger.Infow("wallet linked",
		"user_id", cmd.UserID,
		"chat_id", cmd.ChatID,
		"tier", tier.Name(),
		"balance", balance,
	)

	return &dto.LinkWalletResponse{
		Granted:  true,
		TierName: tier.Name(),
		Balance:  balance,
	}, nil
}

func (uc *LinkWalletUseCase) appendLog(ctx context.Context, cmd LinkWalletCommand, balance float64, status, action string) {
	entry, err := gate.NewVerificationEntry(cmd.UserID, cmd.ChatID, cmd.WalletAddress, balance, status, action)
	if err != nil {
		uc.logger.Errorw("failed to build verification log entry", "error", err)
		return
	}
	if err := uc.logRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to append verification log entry",
			"user_id", cmd.UserID,
			"chat_id", cmd.ChatID,
			"error", err,
		)
	}
}
