package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/httpx"
	"bookstore/internal/logger"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(os.Stderr, "info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogPretty).
		With().Str("env", cfg.App.Env).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	bookService := book.NewService(book.NewPostgresRepo(database.NewPoolProvider(pool)))
	bookHandler := book.NewHTTPHandler(bookService, log)

	handler := newHandler(ctx, cfg, log, pool, bookHandler)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// pinger is the part of the pool readiness needs.
type pinger interface {
	Ping(ctx context.Context) error
}

type routeRegistrar interface {
	Register(mux *http.ServeMux)
}

// newHandler builds the routed, middleware-wrapped handler. ctx bounds
// the rate limiter's background cleanup.
func newHandler(ctx context.Context, cfg *config.Config, log zerolog.Logger, db pinger, books routeRegistrar) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	books.Register(router)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.App.Env == "production"),
		httpx.CORSMiddleware(cfg.Server.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
	}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := httpx.NewRateLimitMiddleware(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, cfg.Server.TrustedProxies...)
		middlewares = append(middlewares, limiter.Middleware)
	}

	return httpx.Chain(router, middlewares...)
}
