package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/errors"
)

func TestSetupGroup_Success(t *testing.T) {
	var savedGroup *gate.Group
	var savedTiers []*gate.Tier

	groupRepo := &mockGroupRepository{
		UpsertFunc: func(ctx context.Context, group *gate.Group) error {
			savedGroup = group
			return nil
		},
	}
	tierRepo := &mockTierRepository{
		ReplaceForChatFunc: func(ctx context.Context, chatID int64, tiers []*gate.Tier) error {
			assert.Equal(t, testChatID, chatID)
			savedTiers = tiers
			return nil
		},
	}

	uc := NewSetupGroupUseCase(groupRepo, tierRepo, &mockLogger{})

	err := uc.Execute(context.Background(), SetupGroupCommand{
		ChatID:    testChatID,
		AdminID:   7,
		TokenMint: testMint,
		Tiers: []TierSpec{
			{MinAmount: 100, Name: "Holder"},
			{MinAmount: 10000, Name: "Whale"},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, savedGroup)
	assert.Equal(t, testChatID, savedGroup.ChatID())
	assert.Equal(t, testMint, savedGroup.TokenMint())
	assert.True(t, savedGroup.IsActive())
	require.Len(t, savedTiers, 2)
}

func TestSetupGroup_NoTiers(t *testing.T) {
	uc := NewSetupGroupUseCase(&mockGroupRepository{}, &mockTierRepository{}, &mockLogger{})

	err := uc.Execute(context.Background(), SetupGroupCommand{
		ChatID:    testChatID,
		AdminID:   7,
		TokenMint: testMint,
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSetupGroup_DuplicateTierAmounts(t *testing.T) {
	upsertCalled := false
	groupRepo := &mockGroupRepository{
		UpsertFunc: func(ctx context.Context, group *gate.Group) error {
			upsertCalled = true
			return nil
		},
	}

	uc := NewSetupGroupUseCase(groupRepo, &mockTierRepository{}, &mockLogger{})

	err := uc.Execute(context.Background(), SetupGroupCommand{
		ChatID:    testChatID,
		AdminID:   7,
		TokenMint: testMint,
		Tiers: []TierSpec{
			{MinAmount: 100, Name: "Silver"},
			{MinAmount: 100, Name: "Gold"},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.False(t, upsertCalled)
}

func TestSetupGroup_InvalidTierName(t *testing.T) {
	uc := NewSetupGroupUseCase(&mockGroupRepository{}, &mockTierRepository{}, &mockLogger{})

	err := uc.Execute(context.Background(), SetupGroupCommand{
		ChatID:    testChatID,
		AdminID:   7,
		TokenMint: testMint,
		Tiers:     []TierSpec{{MinAmount: 100, Name: ""}},
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSetupGroup_MissingMint(t *testing.T) {
	uc := NewSetupGroupUseCase(&mockGroupRepository{}, &mockTierRepository{}, &mockLogger{})

	err := uc.Execute(context.Background(), SetupGroupCommand{
		ChatID:  testChatID,
		AdminID: 7,
		Tiers:   []TierSpec{{MinAmount: 100, Name: "Holder"}},
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
