package migration

import (
	"fmt"

	"gorm.io/gorm"

	"tokengate/internal/infrastructure/repository"
)

// AutoMigrateModels returns all models managed by auto-migration
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&repository.GroupModel{},
		&repository.TierModel{},
		&repository.MembershipModel{},
		&repository.VerificationLogModel{},
	}
}

// Run applies the schema for all managed models
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
