package usecases

import (
	"context"
	"errors"
	"fmt"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/domain/gate"
)

// GetMemberStatusUseCase returns a member's stored access state without
// touching the balance oracle
type GetMemberStatusUseCase struct {
	membershipRepo gate.MembershipRepository
}

// NewGetMemberStatusUseCase creates a new GetMemberStatusUseCase
func NewGetMemberStatusUseCase(membershipRepo gate.MembershipRepository) *GetMemberStatusUseCase {
	return &GetMemberStatusUseCase{membershipRepo: membershipRepo}
}

// Execute returns the stored membership state for (user, chat)
func (uc *GetMemberStatusUseCase) Execute(ctx context.Context, userID, chatID int64) (*dto.MemberStatusResponse, error) {
	m, err := uc.membershipRepo.GetByUserAndChat(ctx, userID, chatID)
	if err != nil {
		if errors.Is(err, gate.ErrMembershipNotFound) {
			return nil, gate.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	return &dto.MemberStatusResponse{
		UserID:        m.UserID(),
		ChatID:        m.ChatID(),
		WalletAddress: m.WalletAddress(),
		Status:        m.Status(),
		Balance:       m.Balance(),
		LastCheckedAt: m.LastCheckedAt(),
	}, nil
}
