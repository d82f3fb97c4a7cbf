package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/api/response"
	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/indicator"
	"github.com/newthinker/tickerscope/internal/storage/export"
)

// SymbolHandler handles per-symbol history, indicator and export requests.
type SymbolHandler struct {
	provider backtest.HistoryFetcher
	defaults dashboard.Defaults
	exporter *export.Exporter
	logger   *zap.Logger
}

// NewSymbolHandler creates a new symbol handler. exporter may be nil, in
// which case snapshot requests fail with EXPORT_FAILED.
func NewSymbolHandler(provider backtest.HistoryFetcher, d dashboard.Defaults, exporter *export.Exporter, logger *zap.Logger) *SymbolHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SymbolHandler{
		provider: provider,
		defaults: d,
		exporter: exporter,
		logger:   logger,
	}
}

// IndicatorSet is every overlay computed for one fetch.
type IndicatorSet struct {
	Symbol    string                `json:"symbol"`
	Dates     []string              `json:"dates"`
	MA        []dashboard.Overlay   `json:"ma"`
	Bollinger *indicator.Bands      `json:"bollinger,omitempty"`
	Profile   []indicator.VolumeBin `json:"profile,omitempty"`
	Gaps      []indicator.Gap       `json:"gaps,omitempty"`
}

func (h *SymbolHandler) fetch(r *http.Request, symbol string) (dashboard.Query, []core.OHLCV, error) {
	q, err := symbolQuery(r, symbol, h.defaults)
	if err != nil {
		return q, nil, err
	}
	bars, err := h.provider.FetchHistory(r.Context(), q.Request())
	if err != nil {
		h.logger.Warn("history fetch failed", zap.String("symbol", q.Symbol), zap.Error(err))
		return q, nil, err
	}
	return q, bars, nil
}

// GetHistory handles GET /api/v1/symbols/{symbol}/history
func (h *SymbolHandler) GetHistory(w http.ResponseWriter, r *http.Request, symbol string) {
	q, bars, err := h.fetch(r, symbol)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol": q.Symbol,
		"query":  q,
		"bars":   bars,
	})
}

// GetIndicators handles GET /api/v1/symbols/{symbol}/indicators
func (h *SymbolHandler) GetIndicators(w http.ResponseWriter, r *http.Request, symbol string) {
	q, bars, err := h.fetch(r, symbol)
	if err != nil {
		response.Fail(w, err)
		return
	}

	chart := dashboard.NewChart(bars, dashboard.ChartOptions{
		MAWindows:           q.MAWindows,
		Bollinger:           q.ShowBollinger,
		BollingerPeriod:     h.defaults.BollingerPeriod,
		BollingerMultiplier: h.defaults.BollingerMultiplier,
		VolumeProfile:       q.ShowVolumeProfile,
		VolumeBins:          h.defaults.VolumeBins,
		Gaps:                q.ShowGaps,
	})

	response.JSON(w, http.StatusOK, IndicatorSet{
		Symbol:    q.Symbol,
		Dates:     chart.Dates,
		MA:        chart.Overlays,
		Bollinger: chart.Bollinger,
		Profile:   chart.Profile,
		Gaps:      chart.Gaps,
	})
}

// ExportCSV handles GET /api/v1/symbols/{symbol}/export.csv
func (h *SymbolHandler) ExportCSV(w http.ResponseWriter, r *http.Request, symbol string) {
	q, bars, err := h.fetch(r, symbol)
	if err != nil {
		response.Fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.Symbol+".csv"))
	if err := dashboard.WriteCSV(w, dashboard.NewTable(bars)); err != nil {
		h.logger.Error("writing csv", zap.String("symbol", q.Symbol), zap.Error(err))
	}
}

// CreateSnapshot handles POST /api/v1/symbols/{symbol}/snapshots
func (h *SymbolHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request, symbol string) {
	if h.exporter == nil {
		response.Fail(w, core.WrapError(core.ErrExportFailed, fmt.Errorf("no export sink configured")))
		return
	}

	q, bars, err := h.fetch(r, symbol)
	if err != nil {
		response.Fail(w, err)
		return
	}

	path, err := h.exporter.Export(r.Context(), q.Symbol, dashboard.NewTable(bars))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"symbol": q.Symbol,
		"path":   path,
		"rows":   len(bars),
	})
}

// ListSnapshots handles GET /api/v1/symbols/{symbol}/snapshots
func (h *SymbolHandler) ListSnapshots(w http.ResponseWriter, r *http.Request, symbol string) {
	if h.exporter == nil {
		response.JSON(w, http.StatusOK, map[string]any{"snapshots": []string{}})
		return
	}

	normalized, _ := collector.NormalizeTicker(symbol)
	if err := collector.ValidateSymbol(normalized); err != nil {
		response.Fail(w, err)
		return
	}

	paths, err := h.exporter.Snapshots(r.Context(), normalized)
	if err != nil {
		response.Fail(w, core.WrapError(core.ErrExportFailed, err))
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":    normalized,
		"snapshots": paths,
	})
}
