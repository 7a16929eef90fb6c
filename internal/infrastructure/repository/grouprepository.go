package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tokengate/internal/domain/gate"
	"tokengate/internal/shared/logger"
)

// GroupModel is the GORM model for the groups table
type GroupModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatID    int64     `gorm:"column:chat_id;not null;uniqueIndex"`
	AdminID   int64     `gorm:"column:admin_id;not null"`
	TokenMint string    `gorm:"column:token_mint;type:varchar(64);not null"`
	Active    bool      `gorm:"column:active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "groups"
}

// GroupRepository implements gate.GroupRepository
type GroupRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB, logger logger.Interface) *GroupRepository {
	return &GroupRepository{db: db, logger: logger}
}

// Upsert creates the group or replaces the configuration for an
// existing chat
func (r *GroupRepository) Upsert(ctx context.Context, group *gate.Group) error {
	model := r.toModel(group)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"admin_id", "token_mint", "active", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	group.SetID(model.ID)
	return nil
}

// GetByChatID retrieves a group by chat ID
func (r *GroupRepository) GetByChatID(ctx context.Context, chatID int64) (*gate.Group, error) {
	var model GroupModel
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gate.ErrGroupNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// ListActive returns all groups with gating enabled
func (r *GroupRepository) ListActive(ctx context.Context) ([]*gate.Group, error) {
	var models []GroupModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&models).Error; err != nil {
		return nil, err
	}

	groups := make([]*gate.Group, 0, len(models))
	for _, model := range models {
		groups = append(groups, r.toDomain(&model))
	}
	return groups, nil
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *gate.Group) error {
	return r.db.WithContext(ctx).Save(r.toModel(group)).Error
}

// toModel converts domain entity to GORM model
func (r *GroupRepository) toModel(group *gate.Group) *GroupModel {
	return &GroupModel{
		ID:        group.ID(),
		ChatID:    group.ChatID(),
		AdminID:   group.AdminID(),
		TokenMint: group.TokenMint(),
		Active:    group.IsActive(),
		CreatedAt: group.CreatedAt(),
		UpdatedAt: group.UpdatedAt(),
	}
}

// toDomain converts GORM model to domain entity
func (r *GroupRepository) toDomain(model *GroupModel) *gate.Group {
	return gate.ReconstructGroup(
		model.ID,
		model.ChatID,
		model.AdminID,
		model.TokenMint,
		model.Active,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
