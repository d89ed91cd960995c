package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cartloom/exporter/internal/domain/commerce"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the orchestrator's run-wide settings
type Config struct {
	// ServiceName identifies this deployment in alerts and in the
	// synthesized origin column
	ServiceName string
	// Bucket is the destination object-storage bucket
	Bucket string
	// Folder is an optional top-level folder prepended to every object key
	Folder string
	// ExportRoot is the local staging directory; each export type stages
	// under its configured subfolder
	ExportRoot string
	// Location is the fixed reference timezone for date filters and
	// date-derived filenames
	Location *time.Location
	// RetryDelay is the constant delay before a failed run is retried
	RetryDelay time.Duration
	// RunTimeout bounds one whole run; exceeding it is a total failure
	RunTimeout time.Duration
}

// DefaultConfig returns orchestrator defaults: hourly retries and a
// ten-minute run ceiling
func DefaultConfig() Config {
	return Config{
		Location:   time.UTC,
		RetryDelay: time.Hour,
		RunTimeout: 10 * time.Minute,
	}
}

// Orchestrator drives one export cycle through precondition checks,
// extraction, CSV writing, upload, and outcome recording. All collaborators
// are injected; the orchestrator owns no global state.
type Orchestrator struct {
	cfg       Config
	types     export.TypeConfigRepository
	source    commerce.DataSource
	writer    *CSVWriter
	uploader  Uploader
	history   export.HistoryRepository
	retry     export.RetryStateRepository
	scheduler RetryScheduler
	locks     RunLock
	alerter   Alerter
	logger    *zap.Logger

	mu         sync.Mutex
	lastReport *export.Report
}

// NewOrchestrator creates a new Orchestrator with injected collaborators
func NewOrchestrator(
	cfg Config,
	types export.TypeConfigRepository,
	source commerce.DataSource,
	writer *CSVWriter,
	uploader Uploader,
	history export.HistoryRepository,
	retry export.RetryStateRepository,
	scheduler RetryScheduler,
	locks RunLock,
	alerter Alerter,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 10 * time.Minute
	}
	return &Orchestrator{
		cfg:       cfg,
		types:     types,
		source:    source,
		writer:    writer,
		uploader:  uploader,
		history:   history,
		retry:     retry,
		scheduler: scheduler,
		locks:     locks,
		alerter:   alerter,
		logger:    logger,
	}
}

// RunScheduled executes the automated run: every enabled export type for
// yesterday in the reference timezone. Types that already have a completed
// history entry for the date are skipped.
func (o *Orchestrator) RunScheduled(ctx context.Context) (*export.Report, error) {
	date := time.Now().In(o.cfg.Location).AddDate(0, 0, -1)
	configs, err := o.types.FindEnabled(ctx)
	if err != nil {
		return o.failBeforeRun(ctx, export.TriggerScheduled, date, fmt.Errorf("failed to load export types: %w", err))
	}
	return o.run(ctx, export.TriggerScheduled, date, configs)
}

// RunManual executes a run for an explicit target date and an optional
// subset of export type IDs. Manual runs re-execute even for dates that
// already have history entries: the local file is overwritten and a new
// history entry appended.
func (o *Orchestrator) RunManual(ctx context.Context, date time.Time, typeIDs []uuid.UUID) (*export.Report, error) {
	var (
		configs []export.TypeConfig
		err     error
	)
	if len(typeIDs) == 0 {
		configs, err = o.types.FindEnabled(ctx)
	} else {
		configs, err = o.types.FindByIDs(ctx, typeIDs)
	}
	if err != nil {
		return o.failBeforeRun(ctx, export.TriggerManual, date, fmt.Errorf("failed to load export types: %w", err))
	}
	return o.run(ctx, export.TriggerManual, date, configs)
}

// run drives one pipeline execution across the given export types
func (o *Orchestrator) run(ctx context.Context, trigger export.Trigger, date time.Time, configs []export.TypeConfig) (*export.Report, error) {
	report := &export.Report{Trigger: trigger, Date: date, StartedAt: time.Now()}
	runCtx, cancel := context.WithTimeout(ctx, o.cfg.RunTimeout)
	defer cancel()

	o.logger.Info("Starting export run",
		zap.String("trigger", string(trigger)),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("export_types", len(configs)),
	)

	if err := o.checkPreconditions(runCtx); err != nil {
		return o.failBeforeRun(ctx, trigger, date, err)
	}

	for i := range configs {
		report.Results = append(report.Results, o.runType(runCtx, &configs[i], date, trigger))
	}

	report.FinishedAt = time.Now()
	if runCtx.Err() != nil {
		// Ran past the ceiling; never silently truncate.
		report.Outcome = export.OutcomeTotalFailure
		o.logger.Error("Export run exceeded its time ceiling", zap.Duration("timeout", o.cfg.RunTimeout))
	} else {
		report.Outcome = report.ComputeOutcome()
	}

	switch report.Outcome {
	case export.OutcomeCompleted:
		o.clearRetry(ctx)
	case export.OutcomePartialFailure:
		// Alert only: a partially succeeded run is deliberately not retried.
		o.alerter.Alert(ctx, string(report.Outcome), report.FailedTypeNames())
	case export.OutcomeTotalFailure:
		o.alerter.Alert(ctx, string(report.Outcome), report.FailedTypeNames())
		o.armRetry(context.WithoutCancel(ctx), fmt.Sprintf("run for %s failed entirely", date.Format("2006-01-02")))
	}

	o.mu.Lock()
	o.lastReport = report
	o.mu.Unlock()

	o.logger.Info("Export run finished",
		zap.String("outcome", string(report.Outcome)),
		zap.Int("succeeded", report.SucceededCount()),
		zap.Strings("failed_types", report.FailedTypeNames()),
	)

	return report, nil
}

// failBeforeRun short-circuits a run that never reached extraction: the
// outcome is a total failure and an hourly retry is armed.
func (o *Orchestrator) failBeforeRun(ctx context.Context, trigger export.Trigger, date time.Time, err error) (*export.Report, error) {
	o.logger.Error("Export run preconditions failed", zap.Error(err))
	report := &export.Report{
		Trigger:    trigger,
		Date:       date,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Outcome:    export.OutcomeTotalFailure,
	}
	o.armRetry(context.WithoutCancel(ctx), err.Error())

	o.mu.Lock()
	o.lastReport = report
	o.mu.Unlock()

	return report, err
}

// checkPreconditions verifies the data source is reachable and at least one
// export type is enabled before any extraction is attempted
func (o *Orchestrator) checkPreconditions(ctx context.Context) error {
	if err := o.source.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", export.ErrDataSourceUnavailable.Message, err)
	}
	n, err := o.types.CountEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to count enabled export types: %w", err)
	}
	if n < 1 {
		return export.ErrNoEnabledExportTypes
	}
	return nil
}

// runType runs the pipeline for one export type. Types succeed and fail
// independently; an error here never propagates past the TypeResult.
func (o *Orchestrator) runType(ctx context.Context, cfg *export.TypeConfig, date time.Time, trigger export.Trigger) export.TypeResult {
	res := export.TypeResult{
		TypeID:   cfg.ID,
		Name:     cfg.Name,
		Kind:     cfg.Kind,
		Stage:    export.StageCheckingPreconditions,
		FileName: cfg.FileName(date),
	}
	log := o.logger.With(
		zap.String("export_type", cfg.Name),
		zap.String("date", date.Format("2006-01-02")),
	)

	if trigger == export.TriggerScheduled {
		exists, err := o.history.Exists(ctx, cfg.Kind, date, cfg.Name)
		if err != nil {
			res.Err = fmt.Errorf("failed to check export history: %w", err)
			return res
		}
		if exists {
			log.Info("Export already recorded for date, skipping")
			res.Skipped = true
			return res
		}
	}

	release, err := o.locks.Acquire(ctx, lockKey(cfg.ID, date))
	if err != nil {
		res.Err = fmt.Errorf("failed to acquire run lock: %w", err)
		return res
	}
	defer release()

	res.Stage = export.StageExtracting
	extractor, err := NewExtractor(cfg.Kind, o.source, o.cfg.ServiceName, o.cfg.Location, log)
	if err != nil {
		res.Err = err
		return res
	}
	records, collector, err := extractor.Extract(ctx, *cfg, date)
	if err != nil {
		res.Err = err
		return res
	}
	if collector.Count() > 0 {
		log.Warn("Extraction skipped entities", zap.Int("skipped", collector.Count()))
	}
	res.RecordCount = len(records)

	res.Stage = export.StageWriting
	path := filepath.Join(o.cfg.ExportRoot, cfg.LocalFolder, res.FileName)
	wres, err := o.writer.Write(records, cfg.EnabledMappings(), path)
	if err != nil {
		res.Err = fmt.Errorf("failed to write export file: %w", err)
		o.recordHistory(ctx, cfg, date, res.FileName, path, export.StatusFailed, 0, log)
		return res
	}
	if !wres.Produced {
		// Empty data or mapping set: nothing to upload, nothing to record.
		log.Info("Export produced no file")
		return res
	}
	res.Produced = true
	res.FilePath = path
	res.FileSize = wres.Size

	res.Stage = export.StageUploading
	res.ObjectKey = objectKey(o.cfg.Folder, cfg.RemoteDirectory, res.FileName)
	ok, err := o.uploader.Upload(ctx, o.cfg.Bucket, res.FileName, path, cfg.RemoteDirectory, o.cfg.Folder)
	status := export.StatusCompleted
	if !ok {
		status = export.StatusFailed
		res.Err = fmt.Errorf("upload failed: %w", err)
	}

	if err := o.recordHistory(ctx, cfg, date, res.FileName, path, status, wres.Size, log); err != nil && res.Err == nil {
		res.Err = err
	}
	return res
}

// recordHistory appends a ledger entry. Entries are written only after the
// stage they describe has fully completed.
func (o *Orchestrator) recordHistory(ctx context.Context, cfg *export.TypeConfig, date time.Time, fileName, path string, status export.Status, size int64, log *zap.Logger) error {
	entry := &export.HistoryEntry{
		ID:         uuid.New(),
		ExportType: cfg.Kind,
		ExportName: cfg.Name,
		Date:       date,
		FileName:   fileName,
		FilePath:   path,
		Status:     status,
		FileSize:   size,
		FileExists: fileExists(path),
		CreatedAt:  time.Now(),
	}
	if err := o.history.Record(ctx, entry); err != nil {
		log.Error("Failed to record export history", zap.Error(err))
		return fmt.Errorf("failed to record export history: %w", err)
	}
	return nil
}

// armRetry persists the retry marker and asks the scheduler for exactly one
// re-invocation. The delay is constant, re-armed on every subsequent
// failure, so repeated failures retry hourly until success.
func (o *Orchestrator) armRetry(ctx context.Context, reason string) {
	attempts := 1
	if state, err := o.retry.Get(ctx); err != nil {
		o.logger.Warn("Failed to read retry state", zap.Error(err))
	} else if state != nil {
		attempts = state.Attempts + 1
	}

	state := &export.RetryState{Reason: reason, Timestamp: time.Now(), Attempts: attempts}
	if err := o.retry.Save(ctx, state); err != nil {
		o.logger.Error("Failed to persist retry state", zap.Error(err))
	}
	if err := o.scheduler.ScheduleRetry(ctx, o.cfg.RetryDelay); err != nil {
		o.logger.Error("Failed to schedule retry", zap.Error(err))
		return
	}
	o.logger.Warn("Export retry armed",
		zap.String("reason", reason),
		zap.Int("attempts", attempts),
		zap.Duration("delay", o.cfg.RetryDelay),
	)
}

// clearRetry removes the retry marker after a fully successful run and
// cancels any pending retry timer, so a manual run that succeeded does not
// get followed by a redundant scheduled re-run.
func (o *Orchestrator) clearRetry(ctx context.Context) {
	o.scheduler.CancelRetry(ctx)
	if err := o.retry.Clear(ctx); err != nil {
		o.logger.Warn("Failed to clear retry state", zap.Error(err))
	}
}

// SetupAutomation verifies storage connectivity and arms the daily
// schedule. It refuses to arm when credentials or the bucket are incomplete
// or the connection test fails.
func (o *Orchestrator) SetupAutomation(ctx context.Context) error {
	if o.cfg.Bucket == "" {
		return export.ErrStorageNotConfigured
	}
	status := o.uploader.TestConnection(ctx)
	if !status.OK {
		return fmt.Errorf("storage connection test failed: %s", status.Reason)
	}
	if err := o.scheduler.ArmDaily(ctx); err != nil {
		return fmt.Errorf("failed to arm daily schedule: %w", err)
	}
	o.logger.Info("Export automation armed")
	return nil
}

// Status reports the orchestrator's current state for health surfaces
func (o *Orchestrator) Status(ctx context.Context) map[string]any {
	o.mu.Lock()
	last := o.lastReport
	o.mu.Unlock()

	status := map[string]any{
		"service": o.cfg.ServiceName,
		"bucket":  o.cfg.Bucket,
	}
	if last != nil {
		status["last_run"] = map[string]any{
			"trigger":     string(last.Trigger),
			"date":        last.Date.Format("2006-01-02"),
			"outcome":     string(last.Outcome),
			"succeeded":   last.SucceededCount(),
			"failed":      last.FailedTypeNames(),
			"finished_at": last.FinishedAt,
		}
	}
	if state, err := o.retry.Get(ctx); err == nil && state != nil {
		status["retry"] = map[string]any{
			"reason":   state.Reason,
			"attempts": state.Attempts,
			"since":    state.Timestamp,
		}
	}
	return status
}

// lockKey builds the per-(export type, date) lease key
func lockKey(typeID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("export:%s:%s", typeID, date.Format("2006-01-02"))
}

// objectKey builds "[folder/]directory/filename"
func objectKey(folder, directory, filename string) string {
	if folder == "" {
		return directory + "/" + filename
	}
	return folder + "/" + directory + "/" + filename
}

// fileExists reports whether a local file is present
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
