// Package api - Thin HTTP layer over the analysis engine
// The API is ONLY responsible for request parsing, engine invocation and
// response serialization. It never reconciles anything itself.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"reservation-analysis/core/engine"
	"reservation-analysis/internal/logging"
)

// Analyzer computes an analysis for a subscription
type Analyzer interface {
	ComputeAnalysis(ctx context.Context, subscriptionID string) (*engine.Analysis, error)
}

// Options configure the server
type Options struct {
	// Version is reported by /health and /version
	Version string

	// DefaultSubscriptionID is used when a request does not name one
	DefaultSubscriptionID string

	// RequestTimeout bounds each request; zero means no limit
	RequestTimeout time.Duration
}

// Server is the API server
type Server struct {
	analyzer Analyzer
	opts     Options
	router   chi.Router
	logger   *zap.Logger
	started  time.Time
}

// NewServer creates a new API server
func NewServer(analyzer Analyzer, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logging.Named(logger, "api"),
		started:  time.Now(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Get("/reservation-analysis", s.handleAnalysis)
		r.Get("/health", s.handleHealth)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: s.opts.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.opts.Version,
		"service": "reservation-analysis",
	}, http.StatusOK)
}

// requestLogger logs one line per request through zap
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down when ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
