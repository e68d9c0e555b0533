// Package main wires together the forms service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/api"
	"github.com/talentgate/forms-service/internal/background"
	"github.com/talentgate/forms-service/internal/clock/system"
	"github.com/talentgate/forms-service/internal/config"
	"github.com/talentgate/forms-service/internal/database"
	"github.com/talentgate/forms-service/internal/id/uuid"
	"github.com/talentgate/forms-service/internal/logging"
	"github.com/talentgate/forms-service/internal/metrics"
	"github.com/talentgate/forms-service/internal/publisher"
	pubsubPublisher "github.com/talentgate/forms-service/internal/publisher/pubsub"
	"github.com/talentgate/forms-service/internal/sheets"
	"github.com/talentgate/forms-service/internal/storage"
	gcsStorage "github.com/talentgate/forms-service/internal/storage/gcs"
	localStorage "github.com/talentgate/forms-service/internal/storage/local"
	memoryStorage "github.com/talentgate/forms-service/internal/storage/memory"
	"github.com/talentgate/forms-service/internal/uploads"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	store, err := newSubmissionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("submission store init failed", zap.Error(err))
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("submission store close failed", zap.Error(closeErr))
		}
	}()

	blobStore, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal("blob store init failed", zap.Error(err))
	}

	events, err := newEventPublisher(ctx, cfg)
	if err != nil {
		logger.Fatal("event publisher init failed", zap.Error(err))
	}
	defer func() {
		if closeErr := events.Close(); closeErr != nil {
			logger.Error("event publisher close failed", zap.Error(closeErr))
		}
	}()

	clock := system.New()
	idGen := uuid.NewUUIDGenerator()

	sheetClient := newSheetClient(cfg, logger.Named("sheets"))
	sheetSvc := sheets.NewService(sheetClient, logger.Named("sheets"))
	sheetSvc.InitializeSheets()

	uploadSvc := uploads.NewService(blobStore, cfg.Uploads.MaxBytes, idGen, logger.Named("uploads"))

	queue := background.NewQueue(cfg.Sync.QueueDepth)
	dispatcher := background.NewDispatcher(queue, cfg.Sync.Workers, logger.Named("dispatcher"))

	apiServer := api.NewServer(store, sheetSvc, uploadSvc, events, dispatcher, idGen, clock, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("dispatcher started", zap.Int("workers", cfg.Sync.Workers))
		dispatcher.Run(ctx)
	}()

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	queue.Close()
	logger.Info("shutdown complete")
}

func newSubmissionStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (database.Provider, error) {
	switch cfg.Database.Provider {
	case "postgres":
		provider, err := database.NewPostgresProvider(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return provider, nil
	case "noop":
		logger.Warn("submission store disabled: submissions will not be persisted")
		return &database.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown database provider %q", cfg.Database.Provider)
	}
}

func newBlobStore(ctx context.Context, cfg config.Config) (storage.BlobStore, error) {
	switch cfg.Storage.Provider {
	case "local":
		return localStorage.New(localStorage.Config{BaseDir: cfg.Storage.BaseDir})
	case "gcs":
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return gcsStorage.New(client, gcsStorage.Config{Bucket: cfg.Storage.GCSBucket})
	case "memory":
		return memoryStorage.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func newEventPublisher(ctx context.Context, cfg config.Config) (publisher.Provider, error) {
	switch cfg.Events.Provider {
	case "pubsub":
		return pubsubPublisher.New(ctx, cfg.Events.ProjectID, cfg.Events.TopicName)
	case "noop":
		return &publisher.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown events provider %q", cfg.Events.Provider)
	}
}

func newSheetClient(cfg config.Config, logger *zap.Logger) sheets.Appender {
	if cfg.Sheets.Mode == "proxy" {
		return sheets.NewProxyClient(cfg.Sheets, logger)
	}
	return sheets.NewDirectClient(cfg.Sheets, logger)
}
