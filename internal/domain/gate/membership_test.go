package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func newTestMembership(t *testing.T) *Membership {
	t.Helper()
	m, err := NewMembership(42, -100, testWallet)
	require.NoError(t, err)
	return m
}

func TestNewMembership_ValidInput(t *testing.T) {
	m, err := NewMembership(42, -100, testWallet)

	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(42), m.UserID())
	assert.Equal(t, int64(-100), m.ChatID())
	assert.Equal(t, testWallet, m.WalletAddress())
	assert.Empty(t, m.Status())
	assert.Zero(t, m.Balance())
	assert.Nil(t, m.LastCheckedAt())
	assert.False(t, m.WasVerified())
	assert.False(t, m.HasTier())
}

func TestNewMembership_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		chatID int64
		wallet string
	}{
		{"zero user", 0, -100, testWallet},
		{"zero chat", 42, 0, testWallet},
		{"empty wallet", 42, -100, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMembership(tc.userID, tc.chatID, tc.wallet)
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestMembership_ApplyVerification(t *testing.T) {
	m := newTestMembership(t)

	m.ApplyVerification("Whale", 15000)

	assert.Equal(t, "Whale", m.Status())
	assert.Equal(t, float64(15000), m.Balance())
	require.NotNil(t, m.LastCheckedAt())
	assert.True(t, m.WasVerified())
	assert.True(t, m.HasTier())
}

func TestMembership_ApplyVerification_NoHolder(t *testing.T) {
	m := newTestMembership(t)

	m.ApplyVerification(StatusNoHolder, 3)

	assert.Equal(t, StatusNoHolder, m.Status())
	assert.True(t, m.WasVerified())
	assert.False(t, m.HasTier())
}

func TestMembership_ApplyVerification_Removed(t *testing.T) {
	m := newTestMembership(t)
	m.ApplyVerification("Holder", 200)

	m.ApplyVerification(StatusRemoved, 0)

	assert.Equal(t, StatusRemoved, m.Status())
	assert.False(t, m.HasTier())
}

func TestMembership_Relink_ResetsVerificationState(t *testing.T) {
	m := newTestMembership(t)
	m.ApplyVerification("Holder", 200)

	other := "9yQNfDeGhv5PjBvxLqmZsw3TkRuhWdC21aXoBnEpFtKm"
	require.NoError(t, m.Relink(other))

	assert.Equal(t, other, m.WalletAddress())
	assert.Empty(t, m.Status())
	assert.Zero(t, m.Balance())
	assert.Nil(t, m.LastCheckedAt())
	assert.False(t, m.WasVerified())
}

func TestMembership_Relink_EmptyWallet(t *testing.T) {
	m := newTestMembership(t)

	assert.Error(t, m.Relink(""))
	assert.Equal(t, testWallet, m.WalletAddress())
}
