package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengate/internal/domain/gate"
)

func checkMemberFixture(t *testing.T, oracle *mockBalanceOracle) (*CheckMemberUseCase, *mockMembershipRepository) {
	t.Helper()

	groupRepo := &mockGroupRepository{
		GetByChatIDFunc: func(ctx context.Context, chatID int64) (*gate.Group, error) {
			return testGroup(t), nil
		},
	}
	tierRepo := &mockTierRepository{
		ListByChatIDFunc: func(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
			return testTiers(t), nil
		},
	}
	membershipRepo := &mockMembershipRepository{
		GetByUserAndChatFunc: func(ctx context.Context, userID, chatID int64) (*gate.Membership, error) {
			return membershipWithStatus(t, "Holder", 200), nil
		},
	}

	verify := newVerifyUseCase(membershipRepo, &mockVerificationLogRepository{}, oracle, &mockMemberNotifier{}, &mockMembershipEnforcer{})
	uc := NewCheckMemberUseCase(groupRepo, tierRepo, membershipRepo, verify, &mockLogger{})
	return uc, membershipRepo
}

func TestCheckMember_NeverRemoves(t *testing.T) {
	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			return 1, nil
		},
	}
	uc, _ := checkMemberFixture(t, oracle)

	resp, err := uc.Execute(context.Background(), CheckMemberCommand{UserID: testUserID, ChatID: testChatID})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.False(t, resp.Removed)
	assert.Equal(t, gate.StatusNoHolder, resp.Status)
}

func TestCheckMember_RefreshesUnchangedStatus(t *testing.T) {
	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			return 500, nil
		},
	}
	uc, _ := checkMemberFixture(t, oracle)

	resp, err := uc.Execute(context.Background(), CheckMemberCommand{UserID: testUserID, ChatID: testChatID})

	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, "Holder", resp.Status)
	assert.Equal(t, float64(500), resp.Balance)
}

func TestCheckMember_GroupNotFound(t *testing.T) {
	verify := newVerifyUseCase(&mockMembershipRepository{}, &mockVerificationLogRepository{}, &mockBalanceOracle{}, &mockMemberNotifier{}, &mockMembershipEnforcer{})
	uc := NewCheckMemberUseCase(&mockGroupRepository{}, &mockTierRepository{}, &mockMembershipRepository{}, verify, &mockLogger{})

	resp, err := uc.Execute(context.Background(), CheckMemberCommand{UserID: testUserID, ChatID: testChatID})

	assert.ErrorIs(t, err, gate.ErrGroupNotFound)
	assert.Nil(t, resp)
}

func TestCheckMember_MembershipNotFound(t *testing.T) {
	oracle := &mockBalanceOracle{}
	uc, membershipRepo := checkMemberFixture(t, oracle)
	membershipRepo.GetByUserAndChatFunc = nil

	resp, err := uc.Execute(context.Background(), CheckMemberCommand{UserID: testUserID, ChatID: testChatID})

	assert.ErrorIs(t, err, gate.ErrMembershipNotFound)
	assert.Nil(t, resp)
}
