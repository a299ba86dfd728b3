package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"kovaidetail/internal/api"
	"kovaidetail/internal/auth"
	"kovaidetail/internal/config"
	"kovaidetail/internal/database"
	"kovaidetail/internal/domain"
	"kovaidetail/internal/events"
	"kovaidetail/internal/export"
	"kovaidetail/internal/logging"
	"kovaidetail/internal/metrics"
	"kovaidetail/internal/notify"
	"kovaidetail/internal/repository"
	"kovaidetail/internal/service"
	"kovaidetail/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("database init failed")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	if err := seedAdmin(ctx, db, cfg, &logger); err != nil {
		return err
	}

	redisClient, sessions := initSessionStore(ctx, cfg, &logger)

	metrics.Register()

	eventBus := events.NewEventBus()
	exporter := export.NewExporter(cfg.Exports.Path, &logger)

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, Multiplier: 2}
	exportWorker := worker.NewExportWorker(db, db, exporter, redisClient, retryPolicy, &logger)
	go exportWorker.Start(ctx)

	notifier := initNotifier(cfg, &logger)
	service.SubscribeBookingEvents(ctx, eventBus, db, exportWorker, notifier, &logger)
	service.SubscribeUserEvents(eventBus, notifier, &logger)

	authService := service.NewAuthService(db, sessions, issuer, eventBus, cfg.Auth.BcryptCost, &logger)
	bookingService := service.NewBookingService(db, eventBus, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	apiServer := api.NewHTTPServer(cfg, db, authService, bookingService, exporter, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create export directory")
		return err
	}
	return nil
}

// seedAdmin guarantees the configured admin account exists. The seed password
// is only consulted when the row is missing.
func seedAdmin(ctx context.Context, db *database.DB, cfg *config.Config, logger *zerolog.Logger) error {
	hash, err := auth.HashPassword(cfg.Admin.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	created, err := db.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, hash)
	if err != nil {
		logger.Error().Err(err).Msg("admin seed failed")
		return err
	}
	if created {
		logger.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
	}
	return nil
}

func initSessionStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.SessionStore) {
	fallback := repository.NewMemorySessionStore()

	if cfg.Redis.Address == "" {
		return nil, fallback
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primary := repository.NewRedisSessionStore(redisClient)
	return redisClient, repository.NewFailoverSessionStore(primary, fallback, logger)
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.AdminChatIDs) == 0 {
		return nil
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram notifier disabled")
		return nil
	}
	return notifier
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
