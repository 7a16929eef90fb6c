package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/biztime"
	"tokengate/internal/shared/logger"
)

// MembershipModel is the GORM model for the memberships table
type MembershipModel struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"`
	UserID        int64      `gorm:"column:user_id;not null;uniqueIndex:idx_memberships_user_chat"`
	ChatID        int64      `gorm:"column:chat_id;not null;uniqueIndex:idx_memberships_user_chat"`
	WalletAddress string     `gorm:"column:wallet_address;type:varchar(64);not null"`
	Status        string     `gorm:"column:status;type:varchar(50);not null;default:''"`
	Balance       float64    `gorm:"column:balance;not null;default:0"`
	LastCheckedAt *time.Time `gorm:"column:last_checked_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// MembershipRepository implements gate.MembershipRepository
type MembershipRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB, logger logger.Interface) *MembershipRepository {
	return &MembershipRepository{db: db, logger: logger}
}

// Upsert creates the membership or replaces the wallet link for an
// existing (user, chat) pair
func (r *MembershipRepository) Upsert(ctx context.Context, membership *gate.Membership) error {
	model := r.toModel(membership)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"wallet_address", "status", "balance", "last_checked_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	membership.SetID(model.ID)
	return nil
}

// GetByUserAndChat retrieves a membership by (user, chat)
func (r *MembershipRepository) GetByUserAndChat(ctx context.Context, userID, chatID int64) (*gate.Membership, error) {
	var model MembershipModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gate.ErrMembershipNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// ListByChatID returns all memberships of a chat
func (r *MembershipRepository) ListByChatID(ctx context.Context, chatID int64) ([]*gate.Membership, error) {
	var models []MembershipModel
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Find(&models).Error; err != nil {
		return nil, err
	}

	memberships := make([]*gate.Membership, 0, len(models))
	for _, model := range models {
		memberships = append(memberships, r.toDomain(&model))
	}
	return memberships, nil
}

// UpdateStatus records a verification outcome unconditionally; the
// latest write wins
func (r *MembershipRepository) UpdateStatus(ctx context.Context, userID, chatID int64, status string, balance float64) error {
	now := biztime.NowUTC()
	return r.db.WithContext(ctx).
		Model(&MembershipModel{}).
		Where("user_id = ? AND chat_id = ?", userID, chatID).
		Updates(map[string]interface{}{
			"status":          status,
			"balance":         balance,
			"last_checked_at": now,
			"updated_at":      now,
		}).Error
}

// toModel converts domain entity to GORM model
func (r *MembershipRepository) toModel(membership *gate.Membership) *MembershipModel {
	return &MembershipModel{
		ID:            membership.ID(),
		UserID:        membership.UserID(),
		ChatID:        membership.ChatID(),
		WalletAddress: membership.WalletAddress(),
		Status:        membership.Status(),
		Balance:       membership.Balance(),
		LastCheckedAt: membership.LastCheckedAt(),
		CreatedAt:     membership.CreatedAt(),
		UpdatedAt:     membership.UpdatedAt(),
	}
}

// toDomain converts GORM model to domain entity
func (r *MembershipRepository) toDomain(model *MembershipModel) *gate.Membership {
	return gate.ReconstructMembership(
		model.ID,
		model.UserID,
		model.ChatID,
		model.WalletAddress,
		model.Status,
		model.Balance,
		model.LastCheckedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
