package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/config"
	"github.com/parkwise/parkd/internal/server"
	"github.com/parkwise/parkd/internal/store/postgres"
	redisstore "github.com/parkwise/parkd/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Optional .env for local development. Real deployments set env directly.
	_ = godotenv.Load()

	// Initialize structured logging from environment.
	logLevel := os.Getenv("PARKD_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("PARKD_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Apply schema migrations, then connect to PostgreSQL.
	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		return err
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	cache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer cache.Close()

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Assemble the audit engine.
	recorder := audit.NewRecorder(store.Events())
	svcs := server.Services{
		Recorder:  recorder,
		Query:     audit.NewQueryService(store.Events()),
		Stats:     audit.NewStatsService(store.Events(), cache, cfg.Audit.CacheTTL),
		Exporter:  audit.NewExportService(store.Events()),
		Retention: audit.NewRetention(store.Events(), recorder),
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Scheduled retention sweep.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Audit.SweepSchedule, func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer sweepCancel()

		removed, sweepErr := svcs.Retention.Sweep(sweepCtx, cfg.Audit.RetentionDays, "system")
		if sweepErr != nil {
			log.Error().Err(sweepErr).Msg("scheduled retention sweep failed")
			return
		}
		log.Info().Int64("removed", removed).Msg("scheduled retention sweep finished")
	})
	if err != nil {
		return fmt.Errorf("sweep schedule %q: %w", cfg.Audit.SweepSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, cache, authSvc, svcs)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
