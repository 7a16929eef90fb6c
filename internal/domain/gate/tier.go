package gate

import (
	"fmt"
	"sort"
	"time"

	"tokengate/internal/shared/biztime"
)

// Tier represents a named access level within a group, granted when a
// member's token balance reaches the tier's minimum amount.
type Tier struct {
	id        uint
	chatID    int64
	minAmount uint64 // minimum token balance (UI amount) to qualify
	name      string // status label shown to members, e.g. "Holder"

	createdAt time.Time
}

// NewTier creates a new tier definition
func NewTier(chatID int64, minAmount uint64, name string) (*Tier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("tier name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("tier name must be at most 50 characters")
	}

	return &Tier{
		chatID:    chatID,
		minAmount: minAmount,
		name:      name,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructTier reconstructs from persistence
func ReconstructTier(id uint, chatID int64, minAmount uint64, name string, createdAt time.Time) *Tier {
	return &Tier{
		id:        id,
		chatID:    chatID,
		minAmount: minAmount,
		name:      name,
		createdAt: createdAt,
	}
}

// Getters
func (t *Tier) ID() uint             { return t.id }
func (t *Tier) ChatID() int64        { return t.chatID }
func (t *Tier) MinAmount() uint64    { return t.minAmount }
func (t *Tier) Name() string         { return t.name }
func (t *Tier) CreatedAt() time.Time { return t.createdAt }

// SetID sets the tier ID (only for persistence layer use)
func (t *Tier) SetID(id uint) {
	t.id = id
}

// Qualifies reports whether the given balance reaches this tier's minimum
func (t *Tier) Qualifies(balance float64) bool {
	return balance >= float64(t.minAmount)
}

// SelectTier resolves the highest tier whose minimum amount the balance
// reaches. Tiers are evaluated from the highest minimum downward; the
// first match wins. Returns nil when no tier qualifies. A tier with
// minAmount 0 therefore acts as a catch-all that any balance matches.
//
// The input slice is not mutated.
func SelectTier(balance float64, tiers []*Tier) *Tier {
	if len(tiers) == 0 {
		return nil
	}

	sorted := make([]*Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].minAmount > sorted[j].minAmount
	})

	for _, tier := range sorted {
		if tier.Qualifies(balance) {
			return tier
		}
	}
	return nil
}

// ValidateTierSet checks that a tier set is well formed: non-empty and
// with unique minimum amounts. Duplicate minimums would make resolution
// order-dependent.
func ValidateTierSet(tiers []*Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}

	seen := make(map[uint64]string, len(tiers))
	for _, tier := range tiers {
		if prev, ok := seen[tier.minAmount]; ok {
			return fmt.Errorf("%w: %q and %q both require %d", ErrDuplicateTierAmount, prev, tier.name, tier.minAmount)
		}
		seen[tier.minAmount] = tier.name
	}
	return nil
}
