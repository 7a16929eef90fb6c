package gate

import (
	"fmt"
	"time"

	"tokengate/internal/shared/biztime"
)

// Membership statuses that are not tier names. Any other non-empty
// status value is the name of the tier the member currently holds.
const (
	// StatusNoHolder marks a linked member whose balance qualifies for no tier.
	StatusNoHolder = "no_holder"
	// StatusRemoved marks a member removed from the group after losing access.
	StatusRemoved = "removed"
)

// Membership represents a user's wallet link and access state within a
// single gated group. The same Telegram user holds an independent
// membership per group. An empty status means the wallet was linked but
// never verified.
type Membership struct {
	id            uint
	userID        int64 // Telegram user_id
	chatID        int64
	walletAddress string
	status        string
	balance       float64
	lastCheckedAt *time.Time

	createdAt time.Time
	updatedAt time.Time
}

// NewMembership creates a membership for a freshly linked wallet
func NewMembership(userID, chatID int64, walletAddress string) (*Membership, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("chat ID is required")
	}
	if walletAddress == "" {
		return nil, fmt.Errorf("wallet address is required")
	}

	now := biztime.NowUTC()
	return &Membership{
		userID:        userID,
		chatID:        chatID,
		walletAddress: walletAddress,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructMembership reconstructs from persistence
func ReconstructMembership(
	id uint,
	userID, chatID int64,
	walletAddress string,
	status string,
	balance float64,
	lastCheckedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Membership {
	return &Membership{
		id:            id,
		userID:        userID,
		chatID:        chatID,
		walletAddress: walletAddress,
		status:        status,
		balance:       balance,
		lastCheckedAt: lastCheckedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Getters
func (m *Membership) ID() uint                   { return m.id }
func (m *Membership) UserID() int64              { return m.userID }
func (m *Membership) ChatID() int64              { return m.chatID }
func (m *Membership) WalletAddress() string      { return m.walletAddress }
func (m *Membership) Status() string             { return m.status }
func (m *Membership) Balance() float64           { return m.balance }
func (m *Membership) LastCheckedAt() *time.Time  { return m.lastCheckedAt }
func (m *Membership) CreatedAt() time.Time       { return m.createdAt }
func (m *Membership) UpdatedAt() time.Time       { return m.updatedAt }

// SetID sets the membership ID (only for persistence layer use)
func (m *Membership) SetID(id uint) {
	m.id = id
}

// ApplyVerification records the outcome of a balance check. Status is
// either a tier name or one of the reserved status constants.
func (m *Membership) ApplyVerification(status string, balance float64) {
	now := biztime.NowUTC()
	m.status = status
	m.balance = balance
	m.lastCheckedAt = &now
	m.updatedAt = now
}

// Relink replaces the linked wallet and resets verification state so
// the next check starts fresh.
func (m *Membership) Relink(walletAddress string) error {
	if walletAddress == "" {
		return fmt.Errorf("wallet address is required")
	}
	m.walletAddress = walletAddress
	m.status = ""
	m.balance = 0
	m.lastCheckedAt = nil
	m.updatedAt = biztime.NowUTC()
	return nil
}

// HasTier reports whether the current status names a tier, i.e. the
// member holds access right now.
func (m *Membership) HasTier() bool {
	return m.status != "" && m.status != StatusNoHolder && m.status != StatusRemoved
}

// WasVerified reports whether the membership has ever completed a
// balance check.
func (m *Membership) WasVerified() bool {
	return m.status != ""
}
