package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/api/response"
	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

// BacktestRequest is the request body for running a backtest. Omitted
// fields take the configured defaults.
type BacktestRequest struct {
	Symbol         string   `json:"symbol"`
	Period         string   `json:"period,omitempty"`
	Start          string   `json:"start,omitempty"`
	End            string   `json:"end,omitempty"`
	InitialCapital *float64 `json:"initial_capital,omitempty"`
	ShortWindow    *int     `json:"short_window,omitempty"`
	LongWindow     *int     `json:"long_window,omitempty"`
}

// values maps the body onto dashboard query parameters.
func (b BacktestRequest) values() url.Values {
	v := url.Values{}
	v.Set("ticker", b.Symbol)
	if b.Start != "" || b.End != "" {
		v.Set("mode", string(collector.ModeRange))
		v.Set("start", b.Start)
		v.Set("end", b.End)
	} else if b.Period != "" {
		v.Set("period", b.Period)
	}
	if b.InitialCapital != nil {
		v.Set("capital", strconv.FormatFloat(*b.InitialCapital, 'f', -1, 64))
	}
	if b.ShortWindow != nil {
		v.Set("short", strconv.Itoa(*b.ShortWindow))
	}
	if b.LongWindow != nil {
		v.Set("long", strconv.Itoa(*b.LongWindow))
	}
	return v
}

// BacktestObserver receives the outcome of every run.
type BacktestObserver interface {
	ObserveBacktest(status string)
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	backtester *backtest.Backtester
	defaults   dashboard.Defaults
	obs        BacktestObserver
	logger     *zap.Logger
}

// NewBacktestHandler creates a new backtest handler. obs may be nil.
func NewBacktestHandler(backtester *backtest.Backtester, d dashboard.Defaults, obs BacktestObserver, logger *zap.Logger) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		backtester: backtester,
		defaults:   d,
		obs:        obs,
		logger:     logger,
	}
}

// Create handles POST /api/v1/backtest. The run is synchronous.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrQueryInvalid, err))
		return
	}

	if req.Symbol == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, errors.New("symbol is required")))
		return
	}

	q, err := dashboard.ParseQuery(req.values(), h.defaults)
	if err != nil {
		response.Fail(w, err)
		return
	}

	report, err := h.backtester.Run(r.Context(), q.Request(), q.Backtest)
	if err != nil {
		h.observe("error")
		h.logger.Warn("backtest failed", zap.String("symbol", q.Symbol), zap.Error(err))
		response.Fail(w, err)
		return
	}

	h.observe("ok")
	response.JSON(w, http.StatusOK, report)
}

func (h *BacktestHandler) observe(status string) {
	if h.obs != nil {
		h.obs.ObserveBacktest(status)
	}
}
