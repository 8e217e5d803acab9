// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/borka-sandviken/borka-api/internal/admin"
	"github.com/borka-sandviken/borka-api/internal/auth"
	"github.com/borka-sandviken/borka-api/internal/calendar"
	"github.com/borka-sandviken/borka-api/internal/category"
	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/event"
	"github.com/borka-sandviken/borka-api/internal/health"
	"github.com/borka-sandviken/borka-api/internal/metrics"
	"github.com/borka-sandviken/borka-api/internal/middleware"
	"github.com/borka-sandviken/borka-api/internal/news"
	"github.com/borka-sandviken/borka-api/internal/notify"
	"github.com/borka-sandviken/borka-api/internal/seed"
	"github.com/borka-sandviken/borka-api/internal/server"
	"github.com/borka-sandviken/borka-api/internal/user"
)

const (
	drainDelay          = 5 * time.Second
	memoryQueueCapacity = 1024
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen,gocyclo // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"database", cfg.Database.Driver,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = st.close(ctx) //nolint:errcheck // cleanup on startup failure
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	var (
		registry       *prometheus.Registry
		collector      *metrics.Collector
		notifyRecorder notify.Recorder
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		collector = metrics.NewCollector(registry)
		notifyRecorder = collector
	}

	var queue notify.Queue
	switch cfg.Notify.Queue {
	case "memory":
		queue = notify.NewMemoryQueue(memoryQueueCapacity, cfg.Notify.PollTimeout)
	default:
		queue = notify.NewRedisQueue(redis.Client, cfg.Notify.QueueKey, cfg.Notify.PollTimeout)
	}
	dispatcher := notify.NewDispatcher(queue, notifyRecorder)

	categorySvc := category.NewService(st.categories)
	categoryHandler := category.NewHandler(categorySvc)

	userSvc := user.NewService(st.users)
	userHandler := user.NewHandler(userSvc)

	identity := auth.NewIdentityClient(
		cfg.Auth.IdentityURL,
		core.NewHTTPClient(cfg.Auth.IdentityTimeout),
	)
	authSvc := auth.NewService(st.sessions, userSvc, identity, cfg.Auth)
	if collector != nil {
		authSvc = authSvc.WithRecorder(collector)
	}
	authHandler := auth.NewHandler(authSvc, cfg.Auth.SecureCookie)

	eventSvc := event.NewService(st.events, dispatcher, cfg.Calendar.DefaultLocation)
	eventHandler := event.NewHandler(eventSvc)

	newsSvc := news.NewService(st.news, dispatcher)
	newsHandler := news.NewHandler(newsSvc)

	calendarHandler := calendar.NewHandler(eventSvc, calendar.NewExporter(cfg.Calendar))

	var sender notify.Sender
	switch cfg.Notify.Sender {
	case "log":
		sender = notify.NewLogSender(logger)
	default:
		sender = notify.NewExpoSender(
			cfg.Notify.ExpoURL,
			cfg.Notify.ExpoAccessToken,
			core.NewHTTPClient(cfg.Notify.Timeout),
		)
	}

	worker := notify.NewWorker(notify.WorkerConfig{
		Queue:          queue,
		Recipients:     userSvc,
		Sender:         sender,
		Categories:     categorySvc,
		Recorder:       notifyRecorder,
		Logger:         logger.With("component", "notify"),
		RecipientLimit: cfg.Notify.RecipientLimit,
	})

	if cfg.Seed.Enabled {
		seeder := seed.New(cfg.Seed, categorySvc, userSvc, eventSvc, newsSvc)
		if err := seeder.Run(ctx); err != nil {
			logger.Error("seeding failed", "error", err)
		}
	}

	healthHandler := health.NewHandler(
		cfg.App.Version,
		health.Dependency{Name: cfg.Database.Driver, Checker: st.checker},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBDriver:   cfg.Database.Driver,
		DBStats:    st.dbStats,
		DBPing:     st.checker.Ping,
		RedisStats: redis.PoolStats,
		RedisPing:  redis.Ping,
		RedisInfo:  redis.ServerInfo,
		Sessions:   authSvc,
		Events:     eventSvc,
		News:       newsSvc,
		Queue:      dispatcher,
		Worker:     worker,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		Tracing:       telemetry != nil,
	})

	router := srv.Router()

	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if collector != nil {
		router.Use(collector.Middleware)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	var onLimited func(scope string)
	if collector != nil {
		onLimited = collector.RecordRateLimited
	}

	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Scope: "global",
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: middleware.BypassPaths("/healthz", "/livez", "/readyz", cfg.Metrics.Path),
			OnLimited:  onLimited,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)
	if registry != nil {
		router.Handle(cfg.Metrics.Path, metrics.Handler(registry))
	}

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope:     "auth",
		Limit:     middleware.PerMinute(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthBurst),
		KeyFunc:   middleware.KeyByIPAndEndpoint,
		FailOpen:  true,
		OnLimited: onLimited,
	}).Handler
	userLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope:     "user",
		Limit:     middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
		KeyFunc:   middleware.KeyByUser,
		FailOpen:  true,
		OnLimited: onLimited,
	}).Handler

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			core.OK(w, map[string]string{
				"message": "BORKA API",
				"version": cfg.App.Version,
			})
		})

		authHandler.RegisterRoutes(r, authenticator, authLimiter)
		userHandler.RegisterRoutes(r, authenticator, userLimiter)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		categoryHandler.RegisterRoutes(r)
		eventHandler.RegisterRoutes(r, authenticator, adminOnly)
		newsHandler.RegisterRoutes(r, authenticator, adminOnly)
		calendarHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		worker.Run(workerCtx)
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if runErr == nil {
		if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}

	stopWorker()
	workers.Wait()
	logger.Info("notification worker stopped", "stats", worker.Stats())

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := st.close(shutdownCtx); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return runErr
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
