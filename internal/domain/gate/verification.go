package gate

import (
	"fmt"
	"time"

	"tokengate/internal/shared/biztime"
)

// Verification log actions
const (
	// ActionVerified is recorded when a sweep confirms an unchanged tier.
	ActionVerified = "verified"
	// ActionStatusUpdated is recorded when a sweep moves a member between tiers.
	ActionStatusUpdated = "status_updated"
	// ActionAccessGranted is recorded when a wallet link qualifies for a tier.
	ActionAccessGranted = "access_granted"
	// ActionAccessRevoked is recorded when a member is removed from the group.
	ActionAccessRevoked = "access_revoked"
	// ActionInsufficientBalance is recorded when a wallet link fails to qualify.
	ActionInsufficientBalance = "insufficient_balance"
)

// Verification log statuses that are not tier names
const (
	// VerificationStatusRejected marks a failed wallet link attempt.
	VerificationStatusRejected = "rejected"
	// VerificationStatusError marks a check that could not complete.
	VerificationStatusError = "error"
)

// BalanceCheckFailedAction builds the action value recorded when the
// balance oracle itself fails, preserving the failure reason.
func BalanceCheckFailedAction(err error) string {
	return fmt.Sprintf("balance_check_failed: %v", err)
}

// VerificationEntry is one row of the append-only verification audit
// log. Entries are never updated or deleted.
type VerificationEntry struct {
	id            uint
	userID        int64
	chatID        int64
	walletAddress string
	balance       float64
	status        string // tier name or a reserved status
	action        string

	createdAt time.Time
}

// NewVerificationEntry creates a log entry for a verification outcome
func NewVerificationEntry(userID, chatID int64, walletAddress string, balance float64, status, action string) (*VerificationEntry, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("chat ID is required")
	}
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}

	return &VerificationEntry{
		userID:        userID,
		chatID:        chatID,
		walletAddress: walletAddress,
		balance:       balance,
		status:        status,
		action:        action,
		createdAt:     biztime.NowUTC(),
	}, nil
}

// ReconstructVerificationEntry reconstructs from persistence
func ReconstructVerificationEntry(
	id uint,
	userID, chatID int64,
	walletAddress string,
	balance float64,
	status, action string,
	createdAt time.Time,
) *VerificationEntry {
	return &VerificationEntry{
		id:            id,
		userID:        userID,
		chatID:        chatID,
		walletAddress: walletAddress,
		balance:       balance,
		status:        status,
		action:        action,
		createdAt:     createdAt,
	}
}

// Getters
func (e *VerificationEntry) ID() uint              { return e.id }
func (e *VerificationEntry) UserID() int64         { return e.userID }
func (e *VerificationEntry) ChatID() int64         { return e.chatID }
func (e *VerificationEntry) WalletAddress() string { return e.walletAddress }
func (e *VerificationEntry) Balance() float64      { return e.balance }
func (e *VerificationEntry) Status() string        { return e.status }
func (e *VerificationEntry) Action() string        { return e.action }
func (e *VerificationEntry) CreatedAt() time.Time  { return e.createdAt }

// SetID sets the entry ID (only for persistence layer use)
func (e *VerificationEntry) SetID(id uint) {
	e.id = id
}
