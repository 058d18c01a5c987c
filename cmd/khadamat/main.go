package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/khadamat/internal/catalog"
	"github.com/kailas-cloud/khadamat/internal/config"
	"github.com/kailas-cloud/khadamat/internal/db"
	logpkg "github.com/kailas-cloud/khadamat/internal/logger"
	"github.com/kailas-cloud/khadamat/internal/metrics"
	"github.com/kailas-cloud/khadamat/internal/repository/record"
	chiTransport "github.com/kailas-cloud/khadamat/internal/transport/chi"
	chatuc "github.com/kailas-cloud/khadamat/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/khadamat/internal/usecase/health"
	usageuc "github.com/kailas-cloud/khadamat/internal/usecase/usage"
	"github.com/kailas-cloud/khadamat/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting khadamat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("completion", cfg.Completion.Enabled),
	)

	ctx := context.Background()

	store, err := openRecordStore(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create record store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Record store not ready", zap.Error(err))
	}
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate record store", zap.Error(err))
	}
	logger.Info("Connected to record store")

	repo := record.New(store, logger)
	if cfg.Catalog.SeedOnStart {
		if _, err := catalog.Seed(ctx, repo, cfg.Catalog.Path, logger); err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	kv, closeKV, err := openKVStore(&cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer closeKV()

	metrics.RegisterSearchMetrics()
	metrics.RegisterCompletionMetrics()

	p, err := buildPipeline(ctx, &cfg, kv, logger)
	if err != nil {
		logger.Fatal("Failed to build search pipeline", zap.Error(err))
	}
	p.deps.Matcher = newMatcher(repo, &cfg.Search, logger)
	p.deps.Stats = repo

	chatSvc := chatuc.New(p.deps, logger)
	usageSvc := usageuc.New(p.budgets...)

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var cachePinger healthuc.Pinger
	if kv != nil {
		cachePinger = kv
	}
	var completionChecker healthuc.ProviderChecker
	if p.router != nil {
		completionChecker = p.router
	}
	healthSvc := healthuc.New(store, cachePinger, completionChecker)

	server := chiTransport.NewServer(chatSvc, repo, usageSvc, p.history, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// kvStore is what the cache-backed components and the health probe need.
type kvStore interface {
	db.KVStore
	db.Pinger
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("completion_tokens", ww.Header().Get(metrics.CompletionTokensHeader)),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
