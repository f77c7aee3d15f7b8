package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tasktrack/tasks-api/internal/config"
	"github.com/tasktrack/tasks-api/internal/middleware"
	"github.com/tasktrack/tasks-api/internal/tasks"
	"github.com/tasktrack/tasks-api/internal/telemetry"
)

func main() {
	logger := newLoggerFromEnv()
	slog.SetDefault(logger) // for third-party packages that use slog

	cfg := config.Load()
	ctx := context.Background()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("tracer_init_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	repo, cleanup, err := newRepoFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("store_init_error",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer cleanup()

	r := newRouter(repo, logger, cfg)

	addr := ":" + cfg.Port
	logger.Info("server_listen",
		slog.String("addr", addr),
		slog.String("backend", cfg.StoreBackend),
	)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRepoFromConfig selects the storage backend. The flat JSON file is
// the default; sqlite and memory are drop-in substitutes behind the
// same Repository interface.
func newRepoFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (tasks.Repository, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case "sqlite":
		dsn, err := tasks.SQLiteFileDSN(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		repo, err := tasks.NewSQLiteRepo(dsn)
		if err != nil {
			return nil, noop, err
		}
		if err := repo.ApplyMigrations(ctx); err != nil {
			_ = repo.Close()
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case "memory":
		return tasks.NewInMemoryRepo(), noop, nil
	default:
		repo, err := tasks.NewFileRepo(cfg.TasksFile, logger)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	}
}

// newRouter wires the health and metrics endpoints, task routes, and middleware stack
func newRouter(repo tasks.Repository, logger *slog.Logger, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, spans, etc.)
	r.Use(chimw.RequestID)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	// Timeouts: cancel handlers that exceed this duration
	r.Use(chimw.Timeout(15 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)

	// Our structured request logger (logs every request and any non-empty body).
	r.Use(middleware.RequestLogger(logger))

	// ---- Routes ----

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// prometheus exposition
	r.Handle("/metrics", middleware.MetricsHandler())

	// task routes
	tasks.RegisterRoutes(r, repo)

	return r
}

func newLoggerFromEnv() *slog.Logger {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: l,
	})
	return slog.New(handler)
}
