package dto

import "time"

// TierResponse describes one tier of a gated group
type TierResponse struct {
	Name      string `json:"name"`
	MinAmount uint64 `json:"min_amount"`
}

// MemberStatusResponse describes a member's current access state
type MemberStatusResponse struct {
	UserID        int64      `json:"user_id"`
	ChatID        int64      `json:"chat_id"`
	WalletAddress string     `json:"wallet_address"`
	Status        string     `json:"status"`
	Balance       float64    `json:"balance"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

// VerificationResponse describes the outcome of a single balance check
type VerificationResponse struct {
	PreviousStatus string  `json:"previous_status"`
	Status         string  `json:"status"`
	Balance        float64 `json:"balance"`
	Changed        bool    `json:"changed"`
	Removed        bool    `json:"removed"`
}

// LinkWalletResponse describes the outcome of a wallet link attempt
type LinkWalletResponse struct {
	Granted  bool    `json:"granted"`
	TierName string  `json:"tier_name,omitempty"`
	Balance  float64 `json:"balance"`
}

// GroupStatusResponse summarizes a gated group for its admin
type GroupStatusResponse struct {
	ChatID              int64                   `json:"chat_id"`
	TokenMint           string                  `json:"token_mint"`
	Active              bool                    `json:"active"`
	Tiers               []TierResponse          `json:"tiers"`
	MemberCount         int                     `json:"member_count"`
	HolderCount         int                     `json:"holder_count"`
	RecentVerifications []VerificationLogEntry  `json:"recent_verifications"`
}

// VerificationLogEntry is one audit log row in admin views
type VerificationLogEntry struct {
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	Action    string    `json:"action"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// ReconcileResponse summarizes one reconciliation sweep
type ReconcileResponse struct {
	Skipped      bool `json:"skipped"`
	GroupsSwept  int  `json:"groups_swept"`
	Checked      int  `json:"checked"`
	Updated      int  `json:"updated"`
	Removed      int  `json:"removed"`
	Errors       int  `json:"errors"`
}
