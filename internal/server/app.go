// Package server initializes and runs the transfer server: configuration,
// database and migrations, artifact storage, application services and the
// HTTP endpoint, with graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/ulak-labs/ulak/internal/logging"
	"github.com/ulak-labs/ulak/internal/server/config"
	"github.com/ulak-labs/ulak/internal/server/httpapi"
	"github.com/ulak-labs/ulak/internal/server/repositories/repomanager"
	"github.com/ulak-labs/ulak/internal/server/services"
	"github.com/ulak-labs/ulak/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	http   *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newArtifactStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, repos, cfg, logger)
	ts := services.NewTransferService(db, repos, store, logger)

	hs := httpapi.NewServer(cfg.EndpointAddr, cfg.APIPrefix, logger, us, ts, cfg.IPAllowlist, cfg.IPBlocklist)

	return &App{config: cfg, logger: logger, http: hs}, nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config) (storage.ArtifactStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 backend requires a bucket")
		}
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			SpoolDir:     filepath.Join(cfg.StorageDir, "spool"),
		})
	case config.StorageLocal:
		return storage.NewLocalStore(cfg.StorageDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
