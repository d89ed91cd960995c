package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExportRunner triggers a scheduled export run
type ExportRunner interface {
	RunScheduled(ctx context.Context) (*export.Report, error)
}

// ExportSchedulerConfig holds configuration for the export scheduler
type ExportSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// DailyCronSchedule is the cron expression for the daily run
	DailyCronSchedule string
	// Location is the reference timezone the schedule fires in
	Location *time.Location
}

// DefaultExportSchedulerConfig returns defaults: a daily run at 2:00 AM UTC
func DefaultExportSchedulerConfig() ExportSchedulerConfig {
	return ExportSchedulerConfig{
		Enabled:           true,
		DailyCronSchedule: "0 2 * * *",
		Location:          time.UTC,
	}
}

// ExportScheduler drives the daily export cadence and one-shot failure
// retries. The daily entry fires through a cron engine; a pending retry is a
// single timer, re-armed on every scheduling so at most one retry is ever
// outstanding.
type ExportScheduler struct {
	config ExportSchedulerConfig
	runner ExportRunner
	logger *zap.Logger
	cron   *cron.Cron

	mu         sync.Mutex
	isRunning  bool
	dailyEntry cron.EntryID
	retryTimer *time.Timer
	lastRunAt  *time.Time
}

// NewExportScheduler creates a new export scheduler
func NewExportScheduler(config ExportSchedulerConfig, runner ExportRunner, logger *zap.Logger) *ExportScheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.DailyCronSchedule == "" {
		config.DailyCronSchedule = "0 2 * * *"
	}
	return &ExportScheduler{
		config: config,
		runner: runner,
		logger: logger,
		cron:   cron.New(cron.WithLocation(config.Location)),
	}
}

// SetRunner wires the export runner. The scheduler and the orchestrator
// reference each other, so the runner is injected after construction.
func (s *ExportScheduler) SetRunner(runner ExportRunner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner = runner
}

// Start starts the cron engine. The daily entry is not armed until
// ArmDaily is called.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.cron.Start()

	s.logger.Info("Export scheduler started",
		zap.String("schedule", s.config.DailyCronSchedule),
		zap.String("timezone", s.config.Location.String()),
	)
	return nil
}

// Stop stops the cron engine and cancels any pending retry. It waits for an
// in-flight run to finish, bounded by ctx.
func (s *ExportScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Export scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Export scheduler stop timed out")
		return ctx.Err()
	}
}

// ArmDaily registers the daily cron entry. Arming twice is a no-op.
func (s *ExportScheduler) ArmDaily(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dailyEntry != 0 {
		return nil
	}

	entry, err := s.cron.AddFunc(s.config.DailyCronSchedule, s.runOnce)
	if err != nil {
		return err
	}
	s.dailyEntry = entry

	s.logger.Info("Daily export schedule armed",
		zap.String("schedule", s.config.DailyCronSchedule),
	)
	return nil
}

// ScheduleRetry arms a one-shot re-invocation after the given delay,
// replacing any pending retry
func (s *ExportScheduler) ScheduleRetry(ctx context.Context, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		s.retryTimer = nil
		s.mu.Unlock()
		s.runOnce()
	})

	s.logger.Info("Export retry scheduled", zap.Duration("delay", delay))
	return nil
}

// CancelRetry cancels a pending retry, if any
func (s *ExportScheduler) CancelRetry(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
		s.logger.Info("Pending export retry cancelled")
	}
}

// runOnce executes one scheduled run. Failures are logged, never
// propagated: the orchestrator owns retry policy.
func (s *ExportScheduler) runOnce() {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	runner := s.runner
	s.mu.Unlock()

	if runner == nil {
		s.logger.Warn("Scheduled run fired without a runner wired")
		return
	}
	if _, err := runner.RunScheduled(context.Background()); err != nil {
		s.logger.Error("Scheduled export run failed", zap.Error(err))
	}
}

// GetStatus returns the current status of the scheduler
func (s *ExportScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled":       s.config.Enabled,
		"is_running":    s.isRunning,
		"schedule":      s.config.DailyCronSchedule,
		"timezone":      s.config.Location.String(),
		"daily_armed":   s.dailyEntry != 0,
		"retry_pending": s.retryTimer != nil,
		"last_run_at":   s.lastRunAt,
	}
	if s.dailyEntry != 0 {
		next := s.cron.Entry(s.dailyEntry).Next
		status["next_run_at"] = next
	}
	return status
}
