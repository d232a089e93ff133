package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/ustabul/api"
	dbfs "github.com/garnizeh/ustabul/db"
	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/config"
	"github.com/garnizeh/ustabul/internal/db"
	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/internal/media"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/internal/repository/sqlite"
	"github.com/garnizeh/ustabul/internal/sweeper"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("server exited with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("starting ustabul", slog.String("version", version), slog.String("buildTime", buildTime))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("close db", slog.Any("err", err))
		}
	}()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			return err
		}
	}

	repo := sqlite.New(database, logger)

	var publisher notify.Publisher
	if cfg.RedisURL != "" {
		rdb, err := notify.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		publisher = notify.NewRedisPublisher(rdb)
		logger.Info("publishing notifications to redis")
	}

	mediaStore, err := media.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return err
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenDuration)
	svc := marketplace.New(repo, notify.New(repo, publisher, logger), issuer, mediaStore, marketplace.Options{
		EnforceOwnership: cfg.Marketplace.EnforceOwnership,
		JobLifetime:      cfg.Marketplace.JobLifetime,
	}, logger)

	sw := sweeper.New(svc, cfg.SweeperSpec, logger)
	if err := sw.Start(ctx); err != nil {
		return err
	}
	defer sw.Stop()

	handler, err := api.SetupRoutes(cfg, version, buildTime, svc, issuer)
	if err != nil {
		return err
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
