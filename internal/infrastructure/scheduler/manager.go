// Package scheduler provides scheduled job management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"tokengate/internal/application/gate/dto"
	"tokengate/internal/shared/biztime"
	"tokengate/internal/shared/logger"
)

// reconcileTimeout bounds one full sweep. Each member check costs at
// least one rate-limited RPC call, so large groups need headroom.
const reconcileTimeout = 30 * time.Minute

// Reconciler runs one verification sweep over all active groups.
type Reconciler interface {
	Execute(ctx context.Context) (*dto.ReconcileResponse, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterVerificationJob registers the periodic balance verification
// sweep. cronExpr uses standard 5-field cron syntax evaluated in the
// business timezone.
func (m *SchedulerManager) RegisterVerificationJob(cronExpr string, reconciler Reconciler) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
			defer cancel()
			m.runVerificationSweep(ctx, reconciler)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("gate", "verification"),
		gocron.WithName("verification-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered verification job", "schedule", cronExpr)
	return nil
}

func (m *SchedulerManager) runVerificationSweep(ctx context.Context, reconciler Reconciler) {
	m.logger.Debugw("verification sweep started")

	startTime := biztime.NowUTC()
	result, err := reconciler.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("verification sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Skipped {
		m.logger.Warnw("verification sweep skipped, previous sweep still running")
		return
	}

	m.logger.Infow("verification sweep completed",
		"groups", result.GroupsSwept,
		"checked", result.Checked,
		"updated", result.Updated,
		"removed", result.Removed,
		"errors", result.Errors,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
