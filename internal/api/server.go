// Package api exposes the profiling pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goprofile/app"
	"goprofile/internal"
	"goprofile/internal/config"
)

// Server hosts the JSON API
type Server struct {
	cfg       *config.Config
	service   *app.AnalysisService
	router    *chi.Mux
	logger    *internal.Logger
	startedAt time.Time
}

// NewServer builds the router with middleware and routes attached
func NewServer(cfg *config.Config, service *app.AnalysisService) *Server {
	s := &Server{
		cfg:       cfg,
		service:   service,
		router:    chi.NewRouter(),
		logger:    internal.NewDefaultLogger("API"),
		startedAt: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(withRequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.RequestSize(s.cfg.Limits.MaxBodyBytes))

	limiter := newRateLimiter(s.cfg.Limits.RateLimit, s.cfg.Limits.RateWindow)
	s.router.Use(limiter.middleware)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/profile", s.handleProfileUsage)
		r.Post("/profile", s.handleProfile)
		r.Post("/compare", s.handleCompare)
	})
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.Limits.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s (%s)", srv.Addr, s.cfg.Server.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
