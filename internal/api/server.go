// Package api serves the dashboard page and the JSON API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/newthinker/tickerscope/internal/api/handler/api"
	"github.com/newthinker/tickerscope/internal/api/handler/web"
	"github.com/newthinker/tickerscope/internal/api/middleware"
	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/metrics"
	"github.com/newthinker/tickerscope/internal/news"
	"github.com/newthinker/tickerscope/internal/storage/export"
)

// Server represents the HTTP server for tickerscope
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	handler    http.Handler
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	APIKey       string
	MetricsPath  string

	// Symbol search upstream
	SearchURL     string
	UserAgent     string
	SearchTimeout time.Duration
}

// Dependencies are the components the routes are served from.
type Dependencies struct {
	Dashboard  *dashboard.Service
	History    backtest.HistoryFetcher
	Backtester *backtest.Backtester
	News       news.Provider
	Exporter   *export.Exporter  // nil disables snapshot storage
	Metrics    *metrics.Registry // nil disables /metrics and HTTP metrics
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{
		logger: logger,
		mux:    http.NewServeMux(),
	}

	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	// HTTPMiddleware stays inside LoggingMiddleware: logging replaces the
	// request, and the mux records its pattern on the request it receives.
	var h http.Handler = s.mux
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}
	h = metrics.LoggingMiddleware(logger)(h)
	s.handler = h

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) error {
	if deps.Dashboard == nil {
		return fmt.Errorf("dashboard service is required")
	}
	defaults := deps.Dashboard.Defaults()

	// Web UI routes
	webHandler, err := web.NewHandler(deps.Dashboard, s.logger)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}
	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)

	// API routes
	auth := middleware.APIKeyAuth(cfg.APIKey)

	dashboardHandler := apihandler.NewDashboardHandler(deps.Dashboard)
	s.mux.HandleFunc("GET /api/v1/dashboard", dashboardHandler.Get)

	symbolHandler := apihandler.NewSymbolHandler(deps.History, defaults, deps.Exporter, s.logger)
	s.mux.HandleFunc("GET /api/v1/symbols/{symbol}/history", withSymbol(symbolHandler.GetHistory))
	s.mux.HandleFunc("GET /api/v1/symbols/{symbol}/indicators", withSymbol(symbolHandler.GetIndicators))
	s.mux.HandleFunc("GET /api/v1/symbols/{symbol}/export.csv", withSymbol(symbolHandler.ExportCSV))
	s.mux.HandleFunc("GET /api/v1/symbols/{symbol}/snapshots", withSymbol(symbolHandler.ListSnapshots))
	s.mux.Handle("POST /api/v1/symbols/{symbol}/snapshots", auth(withSymbol(symbolHandler.CreateSnapshot)))

	symbolsHandler := apihandler.NewSymbolsHandler(cfg.SearchURL, cfg.UserAgent, cfg.SearchTimeout, s.logger)
	s.mux.HandleFunc("GET /api/v1/symbols/search", symbolsHandler.Search)

	if deps.Backtester != nil {
		var obs apihandler.BacktestObserver
		if deps.Metrics != nil {
			obs = deps.Metrics
		}
		backtestHandler := apihandler.NewBacktestHandler(deps.Backtester, defaults, obs, s.logger)
		s.mux.Handle("POST /api/v1/backtest", auth(http.HandlerFunc(backtestHandler.Create)))
	}

	newsProvider := deps.News
	if newsProvider == nil {
		newsProvider = news.NewStatic(nil)
	}
	newsHandler := apihandler.NewNewsHandler(newsProvider, defaults.NewsLimit)
	s.mux.HandleFunc("GET /api/v1/news", newsHandler.List)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if deps.Metrics != nil {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return nil
}

// withSymbol adapts a handler taking the {symbol} path value.
func withSymbol(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, r.PathValue("symbol"))
	}
}

// Handler returns the fully wrapped handler the server serves.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
