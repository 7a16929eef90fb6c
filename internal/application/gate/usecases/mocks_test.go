package usecases

import (
	"context"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

type mockGroupRepository struct {
	UpsertFunc      func(ctx context.Context, group *gate.Group) error
	GetByChatIDFunc func(ctx context.Context, chatID int64) (*gate.Group, error)
	ListActiveFunc  func(ctx context.Context) ([]*gate.Group, error)
	UpdateFunc      func(ctx context.Context, group *gate.Group) error
}

func (m *mockGroupRepository) Upsert(ctx context.Context, group *gate.Group) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, group)
	}
	return nil
}

func (m *mockGroupRepository) GetByChatID(ctx context.Context, chatID int64) (*gate.Group, error) {
	if m.GetByChatIDFunc != nil {
		return m.GetByChatIDFunc(ctx, chatID)
	}
	return nil, gate.ErrGroupNotFound
}

func (m *mockGroupRepository) ListActive(ctx context.Context) ([]*gate.Group, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockGroupRepository) Update(ctx context.Context, group *gate.Group) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, group)
	}
	return nil
}

type mockTierRepository struct {
	ReplaceForChatFunc func(ctx context.Context, chatID int64, tiers []*gate.Tier) error
	ListByChatIDFunc   func(ctx context.Context, chatID int64) ([]*gate.Tier, error)
}

func (m *mockTierRepository) ReplaceForChat(ctx context.Context, chatID int64, tiers []*gate.Tier) error {
	if m.ReplaceForChatFunc != nil {
		return m.ReplaceForChatFunc(ctx, chatID, tiers)
	}
	return nil
}

func (m *mockTierRepository) ListByChatID(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
	if m.ListByChatIDFunc != nil {
		return m.ListByChatIDFunc(ctx, chatID)
	}
	return nil, nil
}

type mockMembershipRepository struct {
	UpsertFunc           func(ctx context.Context, membership *gate.Membership) error
	GetByUserAndChatFunc func(ctx context.Context, userID, chatID int64) (*gate.Membership, error)
	ListByChatIDFunc     func(ctx context.Context, chatID int64) ([]*gate.Membership, error)
	UpdateStatusFunc     func(ctx context.Context, userID, chatID int64, status string, balance float64) error
}

func (m *mockMembershipRepository) Upsert(ctx context.Context, membership *gate.Membership) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, membership)
	}
	return nil
}

func (m *mockMembershipRepository) GetByUserAndChat(ctx context.Context, userID, chatID int64) (*gate.Membership, error) {
	if m.GetByUserAndChatFunc != nil {
		return m.GetByUserAndChatFunc(ctx, userID, chatID)
	}
	return nil, gate.ErrMembershipNotFound
}

func (m *mockMembershipRepository) ListByChatID(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
	if m.ListByChatIDFunc != nil {
		return m.ListByChatIDFunc(ctx, chatID)
	}
	return nil, nil
}

func (m *mockMembershipRepository) UpdateStatus(ctx context.Context, userID, chatID int64, status string, balance float64) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, userID, chatID, status, balance)
	}
	return nil
}

type mockVerificationLogRepository struct {
	AppendFunc             func(ctx context.Context, entry *gate.VerificationEntry) error
	ListRecentByChatIDFunc func(ctx context.Context, chatID int64, limit int) ([]*gate.VerificationEntry, error)
}

func (m *mockVerificationLogRepository) Append(ctx context.Context, entry *gate.VerificationEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *mockVerificationLogRepository) ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]*gate.VerificationEntry, error) {
	if m.ListRecentByChatIDFunc != nil {
		return m.ListRecentByChatIDFunc(ctx, chatID, limit)
	}
	return nil, nil
}

type mockBalanceOracle struct {
	GetTokenBalanceFunc func(ctx context.Context, walletAddress, mintAddress string) (float64, error)
}

func (m *mockBalanceOracle) GetTokenBalance(ctx context.Context, walletAddress, mintAddress string) (float64, error) {
	if m.GetTokenBalanceFunc != nil {
		return m.GetTokenBalanceFunc(ctx, walletAddress, mintAddress)
	}
	return 0, nil
}

type mockMemberNotifier struct {
	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
}

func (m *mockMemberNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	return nil
}

type mockMembershipEnforcer struct {
	ResetMemberFunc func(ctx context.Context, chatID, userID int64) error
}

func (m *mockMembershipEnforcer) ResetMember(ctx context.Context, chatID, userID int64) error {
	if m.ResetMemberFunc != nil {
		return m.ResetMemberFunc(ctx, chatID, userID)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
