package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// VerificationLogModel is the GORM model for the verification_log table
type VerificationLogModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	ChatID        int64     `gorm:"column:chat_id;not null;index"`
	WalletAddress string    `gorm:"column:wallet_address;type:varchar(64)"`
	Balance       float64   `gorm:"column:balance;not null;default:0"`
	Status        string    `gorm:"column:status;type:varchar(50)"`
	Action        string    `gorm:"column:action;type:varchar(255);not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (VerificationLogModel) TableName() string {
	return "verification_log"
}

// VerificationLogRepository implements gate.VerificationLogRepository.
// The table is append-only; rows are never updated or deleted.
type VerificationLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewVerificationLogRepository creates a new VerificationLogRepository
func NewVerificationLogRepository(db *gorm.DB, logger logger.Interface) *VerificationLogRepository {
	return &VerificationLogRepository{db: db, logger: logger}
}

// Append writes one audit entry
func (r *VerificationLogRepository) Append(ctx context.Context, entry *gate.VerificationEntry) error {
	model := r.toModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.SetID(model.ID)
	return nil
}

// ListRecentByChatID returns the newest entries for a chat, up to limit
func (r *VerificationLogRepository) ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]*gate.VerificationEntry, error) {
	var models []VerificationLogModel
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*gate.VerificationEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, r.toDomain(&model))
	}
	return entries, nil
}

// toModel converts domain entity to GORM model
func (r *VerificationLogRepository) toModel(entry *gate.VerificationEntry) *VerificationLogModel {
	return &VerificationLogModel{
		ID:            entry.ID(),
		UserID:        entry.UserID(),
		ChatID:        entry.ChatID(),
		WalletAddress: entry.WalletAddress(),
		Balance:       entry.Balance(),
		Status:        entry.Status(),
		Action:        entry.Action(),
		CreatedAt:     entry.CreatedAt(),
	}
}

// toDomain converts GORM model to domain entity
func (r *VerificationLogRepository) toDomain(model *VerificationLogModel) *gate.VerificationEntry {
	return gate.ReconstructVerificationEntry(
		model.ID,
		model.UserID,
		model.ChatID,
		model.WalletAddress,
		model.Balance,
		model.Status,
		model.Action,
		model.CreatedAt,
	)
}
