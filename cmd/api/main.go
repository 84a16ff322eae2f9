// Package main is the entrypoint for the ConstanFit API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/constanfit/constanfit/internal/auth"
	"github.com/constanfit/constanfit/internal/cache"
	"github.com/constanfit/constanfit/internal/config"
	"github.com/constanfit/constanfit/internal/events"
	"github.com/constanfit/constanfit/internal/handler"
	"github.com/constanfit/constanfit/internal/medication"
	"github.com/constanfit/constanfit/internal/metrics"
	"github.com/constanfit/constanfit/internal/middleware"
	"github.com/constanfit/constanfit/internal/repository"
	"github.com/constanfit/constanfit/internal/server"
	"github.com/constanfit/constanfit/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(registry)

	// Medication store is local and always available.
	medStore, err := medication.Open(ctx, cfg.MedicationDBPath)
	if err != nil {
		logger.Error("failed to open medication store", "error", err, "path", cfg.MedicationDBPath)
		os.Exit(1)
	}
	logger.Info("opened medication store", "path", cfg.MedicationDBPath)

	app := &application{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		registry: registry,
		medStore: medStore,
	}

	var shutdowns []namedShutdown
	shutdowns = append(shutdowns, namedShutdown{"medication-store", func(context.Context) error { return medStore.Close() }})

	if cfg.StoreConfigured() {
		more, err := app.connectStore(ctx)
		shutdowns = append(shutdowns, more...)
		if err != nil {
			runShutdowns(context.Background(), shutdowns, logger)
			os.Exit(1)
		}
	} else {
		logger.Warn("account store not configured, serving degraded",
			"missing", strings.Join(cfg.MissingStoreSettings(), ","),
		)
	}

	r := app.router()

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	for _, s := range shutdowns {
		srv.OnShutdown(s.name, s.fn)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"timezone", cfg.Location().String(),
		"events_backend", cfg.EventsBackend,
		"degraded", !cfg.StoreConfigured(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

type namedShutdown struct {
	name string
	fn   server.ShutdownFunc
}

func runShutdowns(ctx context.Context, shutdowns []namedShutdown, logger *slog.Logger) {
	for i := len(shutdowns) - 1; i >= 0; i-- {
		if err := shutdowns[i].fn(ctx); err != nil {
			logger.Error("component shutdown error", "name", shutdowns[i].name, "error", err)
		}
	}
}

// application holds the wired components. The store-backed fields stay nil
// when the account store is not configured.
type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	registry *prometheus.Registry
	medStore *medication.Store

	repo        *repository.Repository
	cacheClient *cache.Cache
	tokens      *auth.TokenIssuer
	dispatcher  *events.Dispatcher
}

// connectStore connects Postgres, Redis and the event broker.
// It returns shutdown hooks for everything it opened, even on error.
func (a *application) connectStore(ctx context.Context) ([]namedShutdown, error) {
	var shutdowns []namedShutdown
	cfg, logger := a.cfg, a.logger

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return shutdowns, err
	}
	shutdowns = append(shutdowns, namedShutdown{"postgres", func(context.Context) error { repo.Close(); return nil }})
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return shutdowns, err
	}
	shutdowns = append(shutdowns, namedShutdown{"redis", func(context.Context) error { return cacheClient.Close() }})
	logger.Info("connected to Redis")

	var publisher events.Publisher
	switch cfg.EventsBackend {
	case "redis":
		publisher = events.NewRedisPublisher(cacheClient.Client())
	case "amqp":
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Error(
				"failed to connect to RabbitMQ",
				slog.String("error", sanitizeError(err, cfg.AMQPURL)),
				slog.String("amqp_url", redactURL(cfg.AMQPURL)),
			)
			return shutdowns, err
		}
		publisher = p
		logger.Info("connected to RabbitMQ")
	default:
		publisher = events.Noop{}
	}

	dispatcher := events.NewDispatcher(publisher, logger, a.recorder)
	shutdowns = append(shutdowns, namedShutdown{"events", dispatcher.Close})

	a.repo = repo
	a.cacheClient = cacheClient
	a.tokens = auth.NewTokenIssuer(cfg.AuthTokenSecret, cfg.AuthTokenTTL)
	a.dispatcher = dispatcher
	return shutdowns, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// router configures the chi router with all routes and middleware.
func (a *application) router() *chi.Mux {
	cfg, logger := a.cfg, a.logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	h := handler.New()

	// Health and metrics endpoints (no auth required)
	var db, redisCheck handler.HealthChecker
	if a.repo != nil {
		db, redisCheck = a.repo, a.cacheClient
	}
	healthHandler := handler.NewHealthHandler(db, redisCheck, a.medStore)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", handler.NewMetricsHandler(a.registry).Metrics)

	// Landing page
	r.Get("/", h.Landing)

	r.Route("/api/v1", func(r chi.Router) {
		if a.repo == nil {
			r.Use(middleware.Unavailable(config.StoreGuidance))
			r.HandleFunc("/*", h.NotFound)
			return
		}
		a.mountAPI(r)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// mountAPI registers the store-backed API routes.
func (a *application) mountAPI(r chi.Router) {
	logger := a.logger

	authService := service.NewAuthService(a.repo, a.tokens, a.dispatcher, a.recorder, logger)
	quizService := service.NewQuizService(a.repo, a.cacheClient, a.dispatcher, a.recorder, logger)
	resultService := service.NewResultService(a.repo, a.cacheClient, a.recorder, logger)
	engagementService := service.NewEngagementService(a.repo, a.dispatcher, a.cfg.Location(), logger)

	tracker := medication.NewTracker(a.medStore,
		medication.WithLocation(a.cfg.Location()),
		medication.WithNotifier(engagementService.OnDoseTaken),
	)

	authHandler := handler.NewAuthHandler(authService, logger)
	quizHandler := handler.NewQuizHandler(quizService, logger)
	resultHandler := handler.NewResultHandler(resultService, logger)
	medicationHandler := handler.NewMedicationHandler(tracker, a.recorder, logger)
	streakHandler := handler.NewStreakHandler(engagementService, logger)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: a.tokens,
	}

	limitAuth := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimitIP(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: a.cacheClient,
			Enabled: a.cfg.RateLimitAuthEnabled,
			Scope:   scope,
			RPS:     a.cfg.RateLimitAuthRPS,
			Burst:   a.cfg.RateLimitAuthBurst,
		})
	}

	// Login and signup, rate limited per IP
	r.Route("/auth", func(r chi.Router) {
		r.With(limitAuth("signup")).Post("/signup", authHandler.Signup)
		r.With(limitAuth("login")).Post("/login", authHandler.Login)
		r.With(middleware.Auth(authCfg)).Get("/me", authHandler.Me)
	})

	// Everything else requires a session
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", quizHandler.Get)
			r.Delete("/", quizHandler.Reset)
			r.Put("/field", quizHandler.SetField)
			r.Post("/advance", quizHandler.Advance)
			r.Post("/retreat", quizHandler.Retreat)
		})

		r.Get("/result", resultHandler.Get)
		r.Get("/streak", streakHandler.Get)

		r.Route("/medications", func(r chi.Router) {
			r.Get("/", medicationHandler.List)
			r.Post("/", medicationHandler.Create)
			r.Post("/{id}/toggle", medicationHandler.Toggle)
			r.Delete("/{id}", medicationHandler.Delete)
		})
	})
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
