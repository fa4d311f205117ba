package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"telenews/internal/config"
	pgRepo "telenews/internal/infra/adapter/persistence/postgres"
	"telenews/internal/infra/db"
	"telenews/internal/infra/media"
	"telenews/internal/infra/source"
	"telenews/internal/infra/worker"
	"telenews/internal/observability/logging"
	"telenews/internal/repository"

	chanUC "telenews/internal/usecase/channel"
	groupUC "telenews/internal/usecase/group"
	newsUC "telenews/internal/usecase/news"
	syncUC "telenews/internal/usecase/sync"

	hhttp "telenews/internal/handler/http"
	hauth "telenews/internal/handler/http/auth"
	hchannel "telenews/internal/handler/http/channel"
	hgroup "telenews/internal/handler/http/group"
	hnews "telenews/internal/handler/http/news"
	"telenews/internal/handler/http/requestid"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg := loadConfig(logger)
	database := initDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		logger.Error("failed to prepare media directory", slog.Any("error", err))
		os.Exit(1)
	}

	bridge := source.NewBridgeSource(createHTTPClient(), source.Config{
		BaseURL:       cfg.Source.BaseURL,
		UserAgent:     cfg.Source.UserAgent,
		FetchTimeout:  cfg.Source.FetchTimeout,
		RatePerSecond: cfg.Source.RatePerSecond,
		Burst:         cfg.Source.Burst,
	})
	defer bridge.Shutdown()

	channels := pgRepo.NewChannelRepo(database)
	groups := pgRepo.NewGroupRepo(database)
	items := pgRepo.NewNewsItemRepo(database)

	syncSvc := syncUC.NewService(channels, items, bridge, mediaStore, cfg.Sync.Window)
	coordinator := syncUC.NewCoordinator(syncSvc, channels, items, mediaStore, cfg.Sync.MaxParallel)

	runner := worker.NewRunner()

	chanSvc := &chanUC.Service{
		Channels: channels,
		Groups:   groups,
		Syncer:   coordinator,
		Sweeper:  coordinator,
		Tasks:    runner,
	}
	groupSvc := &groupUC.Service{Groups: groups, Channels: channels}
	newsSvc := &newsUC.Service{Items: items}

	scheduler, err := worker.NewScheduler(cfg.Sync.Schedule, cfg.Sync.Timezone, cfg.Sync.JobTimeout, coordinator)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	handler := setupRoutes(cfg, database, channels, coordinator, chanSvc, groupSvc, newsSvc)
	handler = applyMiddleware(logger, handler)

	runServer(logger, cfg, handler, scheduler, runner)
}

// loadConfig loads configuration from the optional file named by CONFIG_FILE
// plus the environment, exiting on validation failure.
func loadConfig(logger *slog.Logger) *config.Config {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger, cfg *config.Config) *sql.DB {
	database, err := db.Open(cfg.DatabaseURL, db.DefaultConnectionConfig())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// createHTTPClient creates the shared HTTP client used against the channel
// gateway. TLS 1.2+ is enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// setupRoutes registers all HTTP routes (public and protected).
func setupRoutes(
	cfg *config.Config,
	database *sql.DB,
	channels repository.ChannelRepository,
	coordinator *syncUC.Coordinator,
	chanSvc *chanUC.Service,
	groupSvc *groupUC.Service,
	newsSvc *newsUC.Service,
) http.Handler {
	mux := http.NewServeMux()

	authz := authzMiddleware(cfg.AuthSecret)

	// Expensive trigger endpoints get a tight per-IP budget.
	triggerLimiter := hhttp.NewRateLimiter(5, time.Minute)

	hgroup.Register(mux, groupSvc, authz)
	hchannel.Register(mux, chanSvc, channels, coordinator, authz, triggerLimiter.Limit)
	hnews.Register(mux, newsSvc, coordinator, authz, triggerLimiter.Limit)

	mux.Handle("GET /media/", http.StripPrefix("/media/",
		http.FileServer(http.Dir(cfg.MediaDir))))

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: getVersion()})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return mux
}

// authzMiddleware returns the JWT middleware, or a pass-through when no
// secret is configured (local setups).
func authzMiddleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		slog.Default().Warn("AUTH_SECRET not set, mutating routes are unprotected")
		return func(next http.Handler) http.Handler { return next }
	}
	return hauth.Authz([]byte(secret))
}

// applyMiddleware wraps the mux with the common middleware chain, outermost
// first: request id, logging, metrics, panic recovery, body limit.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	handler = hhttp.LimitRequestBody(1 << 20)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = requestid.Middleware(handler)
	return handler
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// runServer starts the HTTP server and blocks until shutdown completes.
func runServer(
	logger *slog.Logger,
	cfg *config.Config,
	handler http.Handler,
	scheduler *worker.Scheduler,
	runner *worker.Runner,
) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.ListenAddr),
			slog.String("version", getVersion()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown failed", slog.Any("error", err))
	}
	if err := runner.Shutdown(shutdownCtx); err != nil {
		logger.Error("background tasks shutdown failed", slog.Any("error", err))
	}

	logger.Info("server stopped")
}
