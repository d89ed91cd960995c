package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	appexport "github.com/cartloom/exporter/internal/application/export"
	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/cartloom/exporter/internal/infrastructure/config"
	"github.com/cartloom/exporter/internal/infrastructure/lock"
	"github.com/cartloom/exporter/internal/infrastructure/logger"
	"github.com/cartloom/exporter/internal/infrastructure/notify"
	"github.com/cartloom/exporter/internal/infrastructure/persistence"
	"github.com/cartloom/exporter/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// noRetryScheduler satisfies the orchestrator's scheduler port for one-shot
// CLI invocations. The retry state is still persisted, so the long-running
// server picks the retry up on its own cadence.
type noRetryScheduler struct {
	logger *zap.Logger
}

func (s noRetryScheduler) ScheduleRetry(ctx context.Context, delay time.Duration) error {
	s.logger.Info("Retry left for the scheduled service", zap.Duration("delay", delay))
	return nil
}

func (s noRetryScheduler) CancelRetry(ctx context.Context) {}

func (s noRetryScheduler) ArmDaily(ctx context.Context) error {
	return fmt.Errorf("daily schedules are armed by the server process")
}

func main() {
	var (
		dateFlag  string
		typesFlag string
		limitFlag int
		logLevel  string
	)
	flag.StringVar(&dateFlag, "date", "", "Target date YYYY-MM-DD (default: yesterday)")
	flag.StringVar(&typesFlag, "types", "", "Comma-separated export type IDs (default: all enabled)")
	flag.IntVar(&limitFlag, "limit", 20, "Number of history entries to show")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	typeRepo := persistence.NewGormExportTypeRepository(db.DB)
	historyRepo := persistence.NewGormExportHistoryRepository(db.DB)
	retryRepo := persistence.NewGormRetryStateRepository(db.DB)
	source := persistence.NewGormCommerceSource(db.DB)

	uploader, err := storage.NewS3Uploader(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to configure object storage", zap.Error(err))
	}

	ctx := context.Background()

	switch command {
	case "run":
		var notifier appexport.EmailNotifier
		if cfg.Alert.EmailEnabled {
			n, err := notify.NewSMTPNotifier(&cfg.Alert, notify.WithLogger(log))
			if err != nil {
				log.Fatal("Failed to configure alert email", zap.Error(err))
			}
			notifier = n
		}
		orchestrator := appexport.NewOrchestrator(appexport.Config{
			ServiceName: cfg.Export.ServiceName,
			Bucket:      cfg.Storage.Bucket,
			Folder:      cfg.Storage.Folder,
			ExportRoot:  cfg.Export.Root,
			Location:    cfg.Export.Location(),
			RetryDelay:  cfg.Scheduler.RetryDelay,
			RunTimeout:  cfg.Export.RunTimeout,
		}, typeRepo, source, appexport.NewCSVWriter(log), uploader, historyRepo, retryRepo,
			noRetryScheduler{logger: log}, lock.NewMemoryRunLock(),
			appexport.NewLogAlerter(cfg.Export.ServiceName, cfg.Alert.EmailEnabled, notifier, log),
			log)

		date, err := resolveDate(dateFlag, cfg.Export.Location())
		if err != nil {
			log.Fatal("Invalid date", zap.String("value", dateFlag), zap.Error(err))
		}
		typeIDs, err := parseTypeIDs(typesFlag)
		if err != nil {
			log.Fatal("Invalid type ID", zap.Error(err))
		}

		report, err := orchestrator.RunManual(ctx, date, typeIDs)
		if err != nil {
			log.Error("Export run failed", zap.Error(err))
		}
		printReport(report)
		if report.Outcome != export.OutcomeCompleted {
			os.Exit(1)
		}

	case "history":
		entries, err := historyRepo.List(ctx, limitFlag)
		if err != nil {
			log.Fatal("Failed to list history", zap.Error(err))
		}
		if len(entries) == 0 {
			fmt.Println("No export history recorded")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %-10s %-20s %-10s %8d bytes  %s\n",
				e.CreatedAt.Format(time.RFC3339), e.ExportType, e.ExportName,
				e.Status, e.FileSize, e.FileName)
		}

	case "stats":
		stats, err := historyRepo.Statistics(ctx)
		if err != nil {
			log.Fatal("Failed to load statistics", zap.Error(err))
		}
		fmt.Printf("total: %d\nsucceeded: %d\nfailed: %d\n", stats.Total, stats.Succeeded, stats.Failed)

	case "retry":
		state, err := retryRepo.Get(ctx)
		if err != nil {
			log.Fatal("Failed to read retry state", zap.Error(err))
		}
		if state == nil {
			fmt.Println("No retry pending")
			return
		}
		fmt.Printf("reason: %s\nsince: %s\nattempts: %d\n",
			state.Reason, state.Timestamp.Format(time.RFC3339), state.Attempts)

	case "test-storage":
		status := uploader.TestConnection(ctx)
		if !status.OK {
			fmt.Printf("storage connection FAILED: %s\n", status.Reason)
			os.Exit(1)
		}
		fmt.Println("storage connection OK")

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// resolveDate parses the -date flag in the reference timezone; empty means
// yesterday.
func resolveDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Now().In(loc).AddDate(0, 0, -1), nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

func parseTypeIDs(value string) ([]uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	var ids []uuid.UUID
	for _, raw := range strings.Split(value, ",") {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid export type ID %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printReport(report *export.Report) {
	fmt.Printf("run %s for %s: %s\n",
		report.Trigger, report.Date.Format("2006-01-02"), report.Outcome)
	for _, res := range report.Results {
		line := fmt.Sprintf("  %-20s stage=%s records=%d", res.Name, res.Stage, res.RecordCount)
		switch {
		case res.Skipped:
			line += " (skipped, already exported)"
		case res.Failed():
			line += " FAILED: " + res.Err.Error()
		case res.Produced:
			line += fmt.Sprintf(" -> %s (%d bytes)", res.ObjectKey, res.FileSize)
		default:
			line += " (no file produced)"
		}
		fmt.Println(line)
	}
}

func printUsage() {
	fmt.Println(`Cartloom Exporter CLI

Usage:
  exportctl [flags] <command>

Commands:
  run            Run an export for a date (default: yesterday)
  history        Show recent export history entries
  stats          Show export history statistics
  retry          Show the pending retry marker, if any
  test-storage   Test the object storage connection

Flags:
  -date string       Target date YYYY-MM-DD (run)
  -types string      Comma-separated export type IDs (run)
  -limit int         History entries to show (default: 20)
  -log-level string  Log level (default: warn)`)
}
