// Package server assembles the HTTP surface of the remediation pipeline.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/decision"
	"aegis-hq/aegis/pkg/orchestrator"
	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/reward"
	"aegis-hq/aegis/pkg/server/handlers"
	"aegis-hq/aegis/pkg/server/middleware"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

// Dependencies are the constructed pipeline components the server exposes.
// Learner and Metrics may be nil when the corresponding feature is disabled.
type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	Engine       decision.Engine
	Gateway      orchestrator.Executor
	Learner      *reward.Learner
	Table        *qtable.Table
	Algorithm    string
	Metrics      *metrics.Collector
	Readiness    map[string]handlers.ReadinessCheck
}

// Server is the HTTP front of the pipeline.
type Server struct {
	config     *config.ServerConfig
	deps       Dependencies
	logger     *slog.Logger
	httpServer *http.Server

	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// New creates a server. It does not bind until Start.
func New(cfg *config.ServerConfig, deps Dependencies, logger *slog.Logger) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger.With(slog.String("component", "server")),
	}
}

// Start binds the listener and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("address", s.config.ListenAddress))
		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
			return
		}
		errChan <- nil
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout. Safe to
// call more than once; only the first call does work.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.isRunning = false
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", slog.String("error", err.Error()))
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			return
		}
		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes wires handlers behind the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/v1/events", handlers.NewEventsHandler(s.deps.Orchestrator))
	mux.Handle("/v1/decide", handlers.NewDecideHandler(s.deps.Engine))
	mux.Handle("/v1/execute", handlers.NewExecuteHandler(s.deps.Gateway))
	mux.Handle("/v1/feedback", handlers.NewFeedbackHandler(s.deps.Learner))
	mux.Handle("/v1/policy/qtable", handlers.NewQTableHandler(s.deps.Table, s.deps.Algorithm))
	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/ready", handlers.NewReadyHandler(s.deps.Readiness))

	if s.deps.Metrics != nil {
		mux.Handle("/metrics", s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Timeout(s.config.WriteTimeout)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
