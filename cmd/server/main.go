package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appexport "github.com/cartloom/exporter/internal/application/export"
	"github.com/cartloom/exporter/internal/infrastructure/config"
	"github.com/cartloom/exporter/internal/infrastructure/lock"
	"github.com/cartloom/exporter/internal/infrastructure/logger"
	"github.com/cartloom/exporter/internal/infrastructure/notify"
	"github.com/cartloom/exporter/internal/infrastructure/persistence"
	"github.com/cartloom/exporter/internal/infrastructure/scheduler"
	"github.com/cartloom/exporter/internal/infrastructure/storage"
	"github.com/cartloom/exporter/internal/interfaces/http/handler"
	"github.com/cartloom/exporter/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Cartloom Exporter",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories over the exporter schema and the commerce read tables
	typeRepo := persistence.NewGormExportTypeRepository(db.DB)
	historyRepo := persistence.NewGormExportHistoryRepository(db.DB)
	retryRepo := persistence.NewGormRetryStateRepository(db.DB)
	source := persistence.NewGormCommerceSource(db.DB)

	uploader, err := storage.NewS3Uploader(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to configure object storage", zap.Error(err))
	}

	// Redis-backed run locks for multi-instance deployments; in-process
	// locks otherwise
	var runLock appexport.RunLock = lock.NewMemoryRunLock()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		runLock = lock.NewRedisRunLock(redisClient, lock.WithLogger(log))
		log.Info("Redis run locks enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	var notifier appexport.EmailNotifier
	if cfg.Alert.EmailEnabled {
		n, err := notify.NewSMTPNotifier(&cfg.Alert, notify.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure alert email", zap.Error(err))
		}
		notifier = n
	}
	alerter := appexport.NewLogAlerter(cfg.Export.ServiceName, cfg.Alert.EmailEnabled, notifier, log)

	location := cfg.Export.Location()

	exportScheduler := scheduler.NewExportScheduler(scheduler.ExportSchedulerConfig{
		Enabled:           cfg.Scheduler.Enabled,
		DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
		Location:          location,
	}, nil, log)

	orchestrator := appexport.NewOrchestrator(appexport.Config{
		ServiceName: cfg.Export.ServiceName,
		Bucket:      cfg.Storage.Bucket,
		Folder:      cfg.Storage.Folder,
		ExportRoot:  cfg.Export.Root,
		Location:    location,
		RetryDelay:  cfg.Scheduler.RetryDelay,
		RunTimeout:  cfg.Export.RunTimeout,
	}, typeRepo, source, appexport.NewCSVWriter(log), uploader, historyRepo, retryRepo,
		exportScheduler, runLock, alerter, log)
	exportScheduler.SetRunner(orchestrator)

	if cfg.Scheduler.Enabled {
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := exportScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping export scheduler", zap.Error(err))
			}
		}()

		// Arming verifies storage connectivity; a refusal leaves the API
		// up so the operator can fix credentials and arm via the endpoint.
		if err := orchestrator.SetupAutomation(context.Background()); err != nil {
			log.Warn("Daily automation not armed", zap.Error(err))
		}
	}

	engine, err := router.New(router.Config{
		Env:            cfg.App.Env,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Export:     handler.NewExportHandler(orchestrator, historyRepo, retryRepo, uploader, location),
		ExportType: handler.NewExportTypeHandler(typeRepo),
	}, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
