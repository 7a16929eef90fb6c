package gate

import (
	"fmt"
	"time"

	"tokengate/internal/shared/biztime"
)

// Group represents a token-gated Telegram group aggregate root.
// A group is bound to exactly one SPL token mint; membership tiers
// are resolved against holdings of that mint.
type Group struct {
	id        uint
	chatID    int64  // Telegram chat_id (negative for groups/supergroups)
	adminID   int64  // Telegram user_id of the configuring admin
	tokenMint string // SPL token mint address (base58)
	active    bool

	createdAt time.Time
	updatedAt time.Time
}

// NewGroup creates a new gated group configuration
func NewGroup(chatID, adminID int64, tokenMint string) (*Group, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat ID is required")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}
	if tokenMint == "" {
		return nil, fmt.Errorf("token mint address is required")
	}

	now := biztime.NowUTC()
	return &Group{
		chatID:    chatID,
		adminID:   adminID,
		tokenMint: tokenMint,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructGroup reconstructs from persistence
func ReconstructGroup(
	id uint,
	chatID, adminID int64,
	tokenMint string,
	active bool,
	createdAt, updatedAt time.Time,
) *Group {
	return &Group{
		id:        id,
		chatID:    chatID,
		adminID:   adminID,
		tokenMint: tokenMint,
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters
func (g *Group) ID() uint             { return g.id }
func (g *Group) ChatID() int64        { return g.chatID }
func (g *Group) AdminID() int64       { return g.adminID }
func (g *Group) TokenMint() string    { return g.tokenMint }
func (g *Group) IsActive() bool       { return g.active }
func (g *Group) CreatedAt() time.Time { return g.createdAt }
func (g *Group) UpdatedAt() time.Time { return g.updatedAt }

// SetID sets the group ID (only for persistence layer use)
func (g *Group) SetID(id uint) {
	g.id = id
}

// UpdateToken rebinds the group to a different token mint
func (g *Group) UpdateToken(tokenMint string) error {
	if tokenMint == "" {
		return fmt.Errorf("token mint address is required")
	}
	g.tokenMint = tokenMint
	g.updatedAt = biztime.NowUTC()
	return nil
}

// Deactivate marks the group as no longer gated. Reconciliation
// sweeps skip inactive groups.
func (g *Group) Deactivate() {
	g.active = false
	g.updatedAt = biztime.NowUTC()
}

// Activate re-enables gating for the group
func (g *Group) Activate() {
	g.active = true
	g.updatedAt = biztime.NowUTC()
}
