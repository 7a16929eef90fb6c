package gate

import "context"

// GroupRepository defines the repository interface for gated groups
type GroupRepository interface {
	// Upsert creates the group or replaces its configuration when the
	// chat is already registered.
	Upsert(ctx context.Context, group *Group) error
	GetByChatID(ctx context.Context, chatID int64) (*Group, error)
	// ListActive returns all groups with gating enabled.
	ListActive(ctx context.Context) ([]*Group, error)
	Update(ctx context.Context, group *Group) error
}

// TierRepository defines the repository interface for tier definitions
type TierRepository interface {
	// ReplaceForChat atomically swaps the group's tier set. Readers
	// never observe a partially replaced set.
	ReplaceForChat(ctx context.Context, chatID int64, tiers []*Tier) error
	// ListByChatID returns the group's tiers ordered by minimum amount
	// descending.
	ListByChatID(ctx context.Context, chatID int64) ([]*Tier, error)
}

// MembershipRepository defines the repository interface for memberships
type MembershipRepository interface {
	// Upsert creates the membership or replaces the wallet link for an
	// existing (user, chat) pair.
	Upsert(ctx context.Context, membership *Membership) error
	GetByUserAndChat(ctx context.Context, userID, chatID int64) (*Membership, error)
	ListByChatID(ctx context.Context, chatID int64) ([]*Membership, error)
	// UpdateStatus records a verification outcome unconditionally; the
	// latest write wins.
	UpdateStatus(ctx context.Context, userID, chatID int64, status string, balance float64) error
}

// VerificationLogRepository defines the repository interface for the
// append-only verification audit log
type VerificationLogRepository interface {
	Append(ctx context.Context, entry *VerificationEntry) error
	// ListRecentByChatID returns the newest entries for a chat, up to limit.
	ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]*VerificationEntry, error)
}
