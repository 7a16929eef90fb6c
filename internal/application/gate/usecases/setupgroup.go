package usecases

import (
	"context"
	"fmt"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/errors"
	"tokengate/internal/shared/logger"
)

// TierSpec describes one tier in a setup command
type TierSpec struct {
	MinAmount uint64
	Name      string
}

// SetupGroupCommand carries a full group configuration. Running setup
// on an already configured chat replaces the token and the whole tier
// set.
type SetupGroupCommand struct {
	ChatID    int64
	AdminID   int64
	TokenMint string
	Tiers     []TierSpec
}

// SetupGroupUseCase registers or reconfigures a gated group
type SetupGroupUseCase struct {
	groupRepo gate.GroupRepository
	tierRepo  gate.TierRepository
	logger    logger.Interface
}

// NewSetupGroupUseCase creates a new SetupGroupUseCase
func NewSetupGroupUseCase(
	groupRepo gate.GroupRepository,
	tierRepo gate.TierRepository,
	logger logger.Interface,
) *SetupGroupUseCase {
	return &SetupGroupUseCase{
		groupRepo: groupRepo,
		tierRepo:  tierRepo,
		logger:    logger,
	}
}

// Execute validates and stores the group configuration
func (uc *SetupGroupUseCase) Execute(ctx context.Context, cmd SetupGroupCommand) error {
	if len(cmd.Tiers) == 0 {
		return errors.NewValidationError("at least one tier is required")
	}

	tiers := make([]*gate.Tier, 0, len(cmd.Tiers))
	for _, spec := range cmd.Tiers {
		tier, err := gate.NewTier(cmd.ChatID, spec.MinAmount, spec.Name)
		if err != nil {
			return errors.NewValidationError("invalid tier", err.Error())
		}
		tiers = append(tiers, tier)
	}
	if err := gate.ValidateTierSet(tiers); err != nil {
		return errors.NewValidationError("invalid tier set", err.Error())
	}

	group, err := gate.NewGroup(cmd.ChatID, cmd.AdminID, cmd.TokenMint)
	if err != nil {
		return errors.NewValidationError("invalid group configuration", err.Error())
	}

	if err := uc.groupRepo.Upsert(ctx, group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	if err := uc.tierRepo.ReplaceForChat(ctx, cmd.ChatID, tiers); err != nil {
		return fmt.Errorf("failed to save tiers: %w", err)
	}

	uc.logger.Infow("group configured",
		"chat_id", cmd.ChatID,
		"admin_id", cmd.AdminID,
		"token_mint", cmd.TokenMint,
		"tiers", len(tiers),
	)
	return nil
}
