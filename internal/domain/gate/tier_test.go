package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func mustTier(t *testing.T, chatID int64, minAmount uint64, name string) *Tier {
	t.Helper()
	tier, err := NewTier(chatID, minAmount, name)
	require.NoError(t, err)
	return tier
}

func standardTiers(t *testing.T) []*Tier {
	t.Helper()
	// Deliberately unsorted to verify SelectTier orders internally.
	return []*Tier{
		mustTier(t, -100, 100, "Holder"),
		mustTier(t, -100, 10000, "Whale"),
		mustTier(t, -100, 1000, "Dolphin"),
	}
}

// =====================================================================
// TestNewTier_*
// =====================================================================

func TestNewTier_ValidInput(t *testing.T) {
	tier, err := NewTier(-100, 500, "Holder")

	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, int64(-100), tier.ChatID())
	assert.Equal(t, uint64(500), tier.MinAmount())
	assert.Equal(t, "Holder", tier.Name())
	assert.False(t, tier.CreatedAt().IsZero())
}

func TestNewTier_ZeroMinAmount(t *testing.T) {
	tier, err := NewTier(-100, 0, "Member")

	require.NoError(t, err)
	assert.Equal(t, uint64(0), tier.MinAmount())
}

func TestNewTier_EmptyName(t *testing.T) {
	tier, err := NewTier(-100, 500, "")

	assert.Error(t, err)
	assert.Nil(t, tier)
	assert.Contains(t, err.Error(), "tier name is required")
}

func TestNewTier_ZeroChatID(t *testing.T) {
	tier, err := NewTier(0, 500, "Holder")

	assert.Error(t, err)
	assert.Nil(t, tier)
}

func TestNewTier_NameTooLong(t *testing.T) {
	name := make([]byte, 51)
	for i := range name {
		name[i] = 'a'
	}

	tier, err := NewTier(-100, 500, string(name))

	assert.Error(t, err)
	assert.Nil(t, tier)
}

// =====================================================================
// TestSelectTier_*
// =====================================================================

func TestSelectTier_HighestMatchWins(t *testing.T) {
	tiers := standardTiers(t)

	tests := []struct {
		name     string
		balance  float64
		expected string
	}{
		{"whale balance", 15000, "Whale"},
		{"exact whale threshold", 10000, "Whale"},
		{"dolphin balance", 9999, "Dolphin"},
		{"holder balance", 150, "Holder"},
		{"exact holder threshold", 100, "Holder"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tier := SelectTier(tc.balance, tiers)
			require.NotNil(t, tier)
			assert.Equal(t, tc.expected, tier.Name())
		})
	}
}

func TestSelectTier_NoTierQualifies(t *testing.T) {
	tiers := standardTiers(t)

	assert.Nil(t, SelectTier(99, tiers))
	assert.Nil(t, SelectTier(0, tiers))
}

func TestSelectTier_EmptyTierSet(t *testing.T) {
	assert.Nil(t, SelectTier(1000000, nil))
	assert.Nil(t, SelectTier(1000000, []*Tier{}))
}

func TestSelectTier_ZeroMinimumCatchesAll(t *testing.T) {
	tiers := []*Tier{
		mustTier(t, -100, 0, "Member"),
		mustTier(t, -100, 1000, "Whale"),
	}

	tier := SelectTier(0, tiers)
	require.NotNil(t, tier)
	assert.Equal(t, "Member", tier.Name())

	tier = SelectTier(1000, tiers)
	require.NotNil(t, tier)
	assert.Equal(t, "Whale", tier.Name())
}

func TestSelectTier_DoesNotMutateInput(t *testing.T) {
	tiers := standardTiers(t)

	SelectTier(15000, tiers)

	assert.Equal(t, "Holder", tiers[0].Name())
	assert.Equal(t, "Whale", tiers[1].Name())
	assert.Equal(t, "Dolphin", tiers[2].Name())
}

func TestSelectTier_SingleTier(t *testing.T) {
	tiers := []*Tier{mustTier(t, -100, 1, "Holder")}

	tier := SelectTier(1, tiers)
	require.NotNil(t, tier)
	assert.Equal(t, "Holder", tier.Name())

	assert.Nil(t, SelectTier(0.5, tiers))
}

// =====================================================================
// TestValidateTierSet_*
// =====================================================================

func TestValidateTierSet_Valid(t *testing.T) {
	assert.NoError(t, ValidateTierSet(standardTiers(t)))
}

func TestValidateTierSet_Empty(t *testing.T) {
	assert.Error(t, ValidateTierSet(nil))
}

func TestValidateTierSet_DuplicateMinAmount(t *testing.T) {
	tiers := []*Tier{
		mustTier(t, -100, 500, "Silver"),
		mustTier(t, -100, 500, "Gold"),
	}

	err := ValidateTierSet(tiers)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTierAmount)
}
