package gate

import "errors"

var (
	// ErrGroupNotFound is returned when a gated group is not configured
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupInactive is returned when the group exists but gating is disabled
	ErrGroupInactive = errors.New("group is not active")
	// ErrMembershipNotFound is returned when a user has no wallet linked in the group
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrNoTiersConfigured is returned when a group has no tier definitions
	ErrNoTiersConfigured = errors.New("no tiers configured for group")
	// ErrDuplicateTierAmount is returned when two tiers share a minimum amount
	ErrDuplicateTierAmount = errors.New("duplicate tier minimum amount")
	// ErrInvalidWalletAddress is returned when a wallet address fails base58 validation
	ErrInvalidWalletAddress = errors.New("invalid wallet address")
	// ErrInvalidMintAddress is returned when a token mint address fails base58 validation
	ErrInvalidMintAddress = errors.New("invalid token mint address")
)
