// Package serve wires the bot, scheduler, and storage together and runs
// them until interrupted.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tokengate/internal/application/gate/usecases"
	"tokengate/internal/infrastructure/config"
	"tokengate/internal/infrastructure/database"
	"tokengate/internal/infrastructure/migration"
	"tokengate/internal/infrastructure/repository"
	"tokengate/internal/infrastructure/scheduler"
	"tokengate/internal/infrastructure/solana"
	"tokengate/internal/infrastructure/telegram"
	"tokengate/internal/shared/biztime"
	"tokengate/internal/shared/logger"
)

var skipMigrate bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the token gate bot",
		Long:  `Start the Telegram bot, the polling loop, and the periodic balance verification scheduler.`,
		RunE:  run,
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Skip schema auto-migration on startup")

	return cmd
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

	if err := biztime.Init(cfg.Verifier.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if !skipMigrate {
		if err := migration.Run(database.Get()); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	db := database.Get()
	groupRepo := repository.NewGroupRepository(db, log)
	tierRepo := repository.NewTierRepository(db, log)
	membershipRepo := repository.NewMembershipRepository(db, log)
	logRepo := repository.NewVerificationLogRepository(db, log)

	bot := telegram.NewBotService(cfg.Telegram)
	oracle := solana.NewHeliusOracle(&cfg.Helius, log)

	verify := usecases.NewVerifyMembershipUseCase(membershipRepo, logRepo, oracle, bot, bot, log)
	reconcile := usecases.NewReconcileAllGroupsUseCase(groupRepo, tierRepo, membershipRepo, verify, log)

	handler := telegram.NewCommandHandler(bot, telegram.GateUseCases{
		SetupGroup:      usecases.NewSetupGroupUseCase(groupRepo, tierRepo, log),
		DeactivateGroup: usecases.NewDeactivateGroupUseCase(groupRepo, log),
		LinkWallet:      usecases.NewLinkWalletUseCase(groupRepo, tierRepo, membershipRepo, logRepo, oracle, log),
		CheckMember:     usecases.NewCheckMemberUseCase(groupRepo, tierRepo, membershipRepo, verify, log),
		MemberStatus:    usecases.NewGetMemberStatusUseCase(membershipRepo),
		GroupTiers:      usecases.NewListGroupTiersUseCase(groupRepo, tierRepo),
		GroupStatus:     usecases.NewGetGroupStatusUseCase(groupRepo, tierRepo, membershipRepo, logRepo),
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bot.SetMyCommands(ctx, telegram.GetDefaultCommands()); err != nil {
		log.Warnw("failed to set bot command menu", "error", err)
	}

	polling := telegram.NewPollingService(bot, handler, cfg.Telegram.PollTimeout, log)
	if err := polling.Start(ctx); err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		polling.Stop()
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := schedulerManager.RegisterVerificationJob(cfg.Verifier.CronSchedule, reconcile); err != nil {
		polling.Stop()
		return fmt.Errorf("failed to register verification job: %w", err)
	}
	schedulerManager.Start()

	log.Infow("token gate bot started",
		"bot", bot.GetBotUsername(),
		"schedule", cfg.Verifier.CronSchedule,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	cancel()
	polling.Stop()
	if err := schedulerManager.Stop(); err != nil {
		log.Errorw("scheduler shutdown failed", "error", err)
	}

	log.Infow("shutdown complete")
	return nil
}
