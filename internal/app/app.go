// Package app wires configuration into the running components.
package app

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/api"
	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/collector/yahoo"
	"github.com/newthinker/tickerscope/internal/config"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/metrics"
	"github.com/newthinker/tickerscope/internal/news"
	"github.com/newthinker/tickerscope/internal/storage/export"
)

// App is the main application orchestrator
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Registry
	collectors *collector.Registry

	history    collector.Collector
	news       news.Provider
	dashboard  *dashboard.Service
	backtester *backtest.Backtester

	exportOnce sync.Once
	exporter   *export.Exporter
	exportErr  error
}

// New creates a new App instance from a validated config.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics.NewRegistry(),
		collectors: collector.NewRegistry(),
	}
	a.RegisterCollector(yahoo.New())

	c, err := a.collectors.Select(cfg.Collector.Provider)
	if err != nil {
		return nil, err
	}
	if err := c.Init(collector.Config{
		BaseURL:   cfg.Collector.BaseURL,
		UserAgent: cfg.Collector.UserAgent,
		Timeout:   cfg.Collector.Timeout,
	}); err != nil {
		return nil, fmt.Errorf("initializing collector %s: %w", c.Name(), err)
	}
	a.history = collector.Instrument(c, a.metrics)

	if cfg.News.Enabled {
		a.news = news.NewGoogle(news.GoogleConfig{
			BaseURL:  cfg.News.BaseURL,
			HL:       cfg.News.HL,
			GL:       cfg.News.GL,
			CEID:     cfg.News.CEID,
			Timeout:  cfg.News.Timeout,
			Observer: a.metrics,
		}, logger.Named("news"))
	} else {
		a.news = news.NewStatic(nil)
	}

	a.dashboard = dashboard.NewService(a.history, a.news, DashboardDefaults(cfg),
		dashboard.WithRecorder(a.metrics),
		dashboard.WithLogger(logger.Named("dashboard")),
	)
	a.backtester = backtest.New(a.history)

	logger.Debug("app initialized",
		zap.String("collector", c.Name()),
		zap.Bool("news", cfg.News.Enabled),
		zap.String("export", cfg.Export.Type),
	)
	return a, nil
}

// DashboardDefaults converts the dashboard and backtest sections.
func DashboardDefaults(cfg *config.Config) dashboard.Defaults {
	d := cfg.Dashboard
	return dashboard.Defaults{
		Symbol:              d.Symbol,
		Period:              collector.Period(d.Period),
		MAWindows:           append([]int(nil), d.MAWindows...),
		MAChoices:           append([]int(nil), d.MAChoices...),
		ShowBollinger:       d.ShowBollinger,
		ShowVolumeProfile:   d.ShowVolumeProfile,
		ShowGaps:            d.ShowGaps,
		BollingerPeriod:     d.BollingerPeriod,
		BollingerMultiplier: d.BollingerMultiplier,
		VolumeBins:          d.VolumeBins,
		NewsLimit:           cfg.News.Limit,
		Backtest: backtest.Params{
			ShortWindow:    cfg.Backtest.ShortWindow,
			LongWindow:     cfg.Backtest.LongWindow,
			InitialCapital: cfg.Backtest.InitialCapital,
		},
	}
}

// RegisterCollector adds a collector to the app
func (a *App) RegisterCollector(c collector.Collector) {
	a.collectors.Register(c)
}

// Config returns the config the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the root logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Metrics returns the metrics registry.
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// History returns the instrumented market data collector.
func (a *App) History() collector.Collector { return a.history }

// News returns the headline provider.
func (a *App) News() news.Provider { return a.news }

// Dashboard returns the dashboard service.
func (a *App) Dashboard() *dashboard.Service { return a.dashboard }

// Backtester returns the backtester.
func (a *App) Backtester() *backtest.Backtester { return a.backtester }

// Exporter builds the export sink on first use. Local sinks create their
// directory, so commands that never export never touch the filesystem.
func (a *App) Exporter() (*export.Exporter, error) {
	a.exportOnce.Do(func() {
		e := a.cfg.Export
		sink, err := export.New(export.Config{
			Type: e.Type,
			Path: e.Path,
			S3: export.S3Config{
				Bucket:    e.S3.Bucket,
				Endpoint:  e.S3.Endpoint,
				Region:    e.S3.Region,
				AccessKey: e.S3.AccessKey,
				SecretKey: e.S3.SecretKey,
				Prefix:    e.S3.Prefix,
			},
		})
		if err != nil {
			a.exportErr = fmt.Errorf("creating export sink: %w", err)
			return
		}
		a.exporter = export.NewExporter(sink, a.metrics, a.logger.Named("export"))
	})
	return a.exporter, a.exportErr
}

// ServerConfig maps the server section onto the HTTP server.
func (a *App) ServerConfig() api.Config {
	s := a.cfg.Server
	return api.Config{
		Host:          s.Host,
		Port:          s.Port,
		ReadTimeout:   s.ReadTimeout,
		WriteTimeout:  s.WriteTimeout,
		APIKey:        s.APIKey,
		MetricsPath:   a.cfg.Metrics.Path,
		UserAgent:     a.cfg.Collector.UserAgent,
		SearchTimeout: a.cfg.Collector.Timeout,
	}
}

// ServerDependencies collects the components the HTTP server routes to.
// An unusable export sink disables snapshots instead of failing startup.
func (a *App) ServerDependencies() api.Dependencies {
	deps := api.Dependencies{
		Dashboard:  a.dashboard,
		History:    a.history,
		Backtester: a.backtester,
		News:       a.news,
	}
	if a.cfg.Metrics.Enabled {
		deps.Metrics = a.metrics
	}

	exporter, err := a.Exporter()
	if err != nil {
		a.logger.Warn("snapshot export disabled", zap.Error(err))
	} else {
		deps.Exporter = exporter
	}
	return deps
}
