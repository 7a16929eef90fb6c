// Package migrate applies the database schema outside the serve path,
// for deployments that run migrations as a separate step.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokengate/internal/infrastructure/config"
	"tokengate/internal/infrastructure/database"
	"tokengate/internal/infrastructure/migration"
	"tokengate/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Create or update all tables managed by auto-migration.`,
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log.Infow("running schema migration", "driver", cfg.Database.Driver)

	if err := migration.Run(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}

	log.Infow("migration completed successfully")
	return nil
}
