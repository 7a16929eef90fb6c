package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
)

// ListGroupTiersUseCase returns a group's tier ladder
type ListGroupTiersUseCase struct {
	groupRepo gate.GroupRepository
	tierRepo  gate.TierRepository
}

// NewListGroupTiersUseCase creates a new ListGroupTiersUseCase
func NewListGroupTiersUseCase(groupRepo gate.GroupRepository, tierRepo gate.TierRepository) *ListGroupTiersUseCase {
	return &ListGroupTiersUseCase{
		groupRepo: groupRepo,
		tierRepo:  tierRepo,
	}
}

// Execute returns the tiers ordered by minimum amount descending
func (uc *ListGroupTiersUseCase) Execute(ctx context.Context, chatID int64) ([]dto.TierResponse, error) {
	if _, err := uc.groupRepo.GetByChatID(ctx, chatID); err != nil {
		if errors.Is(err, gate.ErrGroupNotFound) {
			return nil, gate.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	tiers, err := uc.tierRepo.ListByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}

	out := make([]dto.TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, dto.TierResponse{
			Name:      tier.Name(),
			MinAmount: tier.MinAmount(),
		})
	}
	return out, nil
}
