package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// TierModel is the GORM model for the tiers table
type TierModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatID    int64     `gorm:"column:chat_id;not null;uniqueIndex:idx_tiers_chat_amount"`
	MinAmount uint64    `gorm:"column:min_amount;not null;uniqueIndex:idx_tiers_chat_amount"`
	Name      string    `gorm:"column:name;type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for GORM
func (TierModel) TableName() string {
	return "tiers"
}

// TierRepository implements gate.TierRepository
type TierRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewTierRepository creates a new TierRepository
func NewTierRepository(db *gorm.DB, logger logger.Interface) *TierRepository {
	return &TierRepository{db: db, logger: logger}
}

// ReplaceForChat swaps the chat's tier set inside one transaction so
// concurrent readers see either the old set or the new one
func (r *TierRepository) ReplaceForChat(ctx context.Context, chatID int64, tiers []*gate.Tier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&TierModel{}).Error; err != nil {
			return err
		}
		for _, tier := range tiers {
			model := r.toModel(tier)
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			tier.SetID(model.ID)
		}
		return nil
	})
}

// ListByChatID returns the chat's tiers ordered by minimum amount
// descending
func (r *TierRepository) ListByChatID(ctx context.Context, chatID int64) ([]*gate.Tier, error) {
	var models []TierModel
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("min_amount DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	tiers := make([]*gate.Tier, 0, len(models))
	for _, model := range models {
		tiers = append(tiers, r.toDomain(&model))
	}
	return tiers, nil
}

// toModel converts domain entity to GORM model
func (r *TierRepository) toModel(tier *gate.Tier) *TierModel {
	return &TierModel{
		ID:        tier.ID(),
		ChatID:    tier.ChatID(),
		MinAmount: tier.MinAmount(),
		Name:      tier.Name(),
		CreatedAt: tier.CreatedAt(),
	}
}

// toDomain converts GORM model to domain entity
func (r *TierRepository) toDomain(model *TierModel) *gate.Tier {
	return gate.ReconstructTier(
		model.ID,
		model.ChatID,
		model.MinAmount,
		model.Name,
		model.CreatedAt,
	)
}
