package usecases

import "context"

// BalanceOracle resolves the token balance a wallet holds for a mint.
// Implementations are expected to apply their own rate limiting; calls
// may therefore block until a request slot is available.
type BalanceOracle interface {
	GetTokenBalance(ctx context.Context, walletAddress, mintAddress string) (float64, error)
}

// MemberNotifier delivers messages to chats and users
type MemberNotifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// MembershipEnforcer removes members who lost access. ResetMember kicks
// the user without leaving a permanent ban, so they can rejoin after
// re-qualifying.
type MembershipEnforcer interface {
	ResetMember(ctx context.Context, chatID, userID int64) error
}
