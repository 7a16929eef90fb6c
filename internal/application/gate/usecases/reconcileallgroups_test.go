package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengate/internal/domain/gate"
)

func reconcileFixture(t *testing.T, oracle *mockBalanceOracle, enforcer *mockMembershipEnforcer) (*ReconcileAllGroupsUseCase, *mockGroupRepository, *mockTierRepository, *mockMembershipRepository) {
	t.Helper()

	groupRepo := &mockGroupRepository{
		ListActiveFunc: func(ctx context.Context) ([]*gate.Group, error) {
			return []*gate.Group{testGroup(t)}, nil
		},
	}
	tierRepo := &mockTierRepository{
		ListByChatIDFunc: func(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
			return testTiers(t), nil
		},
	}
	membershipRepo := &mockMembershipRepository{}

	verify := newVerifyUseCase(membershipRepo, &mockVerificationLogRepository{}, oracle, &mockMemberNotifier{}, enforcer)
	uc := NewReconcileAllGroupsUseCase(groupRepo, tierRepo, membershipRepo, verify, &mockLogger{})
	return uc, groupRepo, tierRepo, membershipRepo
}

func reconstructMember(t *testing.T, userID int64, status string, balance float64) *gate.Membership {
	t.Helper()
	m, err := gate.NewMembership(userID, testChatID, testWallet)
	require.NoError(t, err)
	if status != "" {
		m.ApplyVerification(status, balance)
	}
	return m
}

func TestReconcileAllGroups_SweepCounts(t *testing.T) {
	balances := map[int64]float64{
		1: 150,   // Holder, unchanged
		2: 25000, // Holder -> Whale
		3: 2,     // Holder -> removed
	}
	var checkedWallets sync.Map
	next := int64(0)

	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			next++
			checkedWallets.Store(next, wallet)
			return balances[next], nil
		},
	}
	uc, _, _, membershipRepo := reconcileFixture(t, oracle, &mockMembershipEnforcer{})
	membershipRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
		return []*gate.Membership{
			reconstructMember(t, 1, "Holder", 150),
			reconstructMember(t, 2, "Holder", 150),
			reconstructMember(t, 3, "Holder", 150),
		}, nil
	}

	resp, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.False(t, resp.Skipped)
	assert.Equal(t, 1, resp.GroupsSwept)
	assert.Equal(t, 3, resp.Checked)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, 1, resp.Removed)
	assert.Equal(t, 0, resp.Errors)
}

func TestReconcileAllGroups_DropsConcurrentTrigger(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once

	groupRepo := &mockGroupRepository{
		ListActiveFunc: func(ctx context.Context) ([]*gate.Group, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return nil, nil
		},
	}
	verify := newVerifyUseCase(&mockMembershipRepository{}, &mockVerificationLogRepository{}, &mockBalanceOracle{}, &mockMemberNotifier{}, &mockMembershipEnforcer{})
	uc := NewReconcileAllGroupsUseCase(groupRepo, &mockTierRepository{}, &mockMembershipRepository{}, verify, &mockLogger{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := uc.Execute(context.Background())
		assert.NoError(t, err)
	}()

	<-started
	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Skipped)

	close(release)
	wg.Wait()

	// With the first sweep finished, a new trigger runs again.
	resp, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Skipped)
}

func TestReconcileAllGroups_SkipsGroupWithoutTiers(t *testing.T) {
	oracleCalled := false
	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			oracleCalled = true
			return 0, nil
		},
	}
	uc, _, tierRepo, membershipRepo := reconcileFixture(t, oracle, &mockMembershipEnforcer{})
	tierRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
		return nil, nil
	}
	membershipRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
		return []*gate.Membership{reconstructMember(t, 1, "Holder", 150)}, nil
	}

	resp, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, resp.GroupsSwept)
	assert.Equal(t, 0, resp.Checked)
	assert.False(t, oracleCalled)
}

func TestReconcileAllGroups_MemberFailureIsolated(t *testing.T) {
	call := 0
	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			call++
			if call == 1 {
				return 0, fmt.Errorf("rpc unavailable")
			}
			return 150, nil
		},
	}
	uc, _, _, membershipRepo := reconcileFixture(t, oracle, &mockMembershipEnforcer{})
	membershipRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
		return []*gate.Membership{
			reconstructMember(t, 1, "Holder", 150),
			reconstructMember(t, 2, "Holder", 150),
		}, nil
	}

	resp, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Errors)
	assert.Equal(t, 1, resp.Checked)
	assert.Equal(t, 2, call)
}

func TestReconcileAllGroups_GroupFailureIsolated(t *testing.T) {
	secondChat := testChatID - 1

	group1 := testGroup(t)
	group2, err := gate.NewGroup(secondChat, 7, testMint)
	require.NoError(t, err)

	oracle := &mockBalanceOracle{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			return 150, nil
		},
	}
	uc, groupRepo, tierRepo, membershipRepo := reconcileFixture(t, oracle, &mockMembershipEnforcer{})
	groupRepo.ListActiveFunc = func(ctx context.Context) ([]*gate.Group, error) {
		return []*gate.Group{group1, group2}, nil
	}
	tierRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
		if chatID == testChatID {
			return nil, fmt.Errorf("database locked")
		}
		whale, err := gate.NewTier(chatID, 100, "Holder")
		require.NoError(t, err)
		return []*gate.Tier{whale}, nil
	}
	membershipRepo.ListByChatIDFunc = func(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
		m, err := gate.NewMembership(1, chatID, testWallet)
		require.NoError(t, err)
		m.ApplyVerification("Holder", 150)
		return []*gate.Membership{m}, nil
	}

	resp, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, resp.GroupsSwept)
	assert.Equal(t, 1, resp.Checked)
	assert.Equal(t, 1, resp.Errors)
}
