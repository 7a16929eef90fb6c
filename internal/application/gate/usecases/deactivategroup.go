package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// DeactivateGroupUseCase disables gating for a chat. Configuration and
// memberships are kept so gating can be re-enabled later.
type DeactivateGroupUseCase struct {
	groupRepo gate.GroupRepository
	logger    logger.Interface
}

// NewDeactivateGroupUseCase creates a new DeactivateGroupUseCase
func NewDeactivateGroupUseCase(groupRepo gate.GroupRepository, logger logger.Interface) *DeactivateGroupUseCase {
	return &DeactivateGroupUseCase{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// Execute marks the group inactive so sweeps skip it
func (uc *DeactivateGroupUseCase) Execute(ctx context.Context, chatID int64) error {
	group, err := uc.groupRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gate.ErrGroupNotFound) {
			return gate.ErrGroupNotFound
		}
		return fmt.Errorf("failed to load group: %w", err)
	}

	group.Deactivate()
	if err := uc.groupRepo.Update(ctx, group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	uc.logger.Infow("group deactivated", "chat_id", chatID)
	return nil
}
