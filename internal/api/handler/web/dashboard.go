package web

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title     string
	Query     dashboard.Query
	Defaults  dashboard.Defaults
	Periods   []collector.Period
	View      *dashboard.View
	Error     *QueryError
	Price     *Figure
	Equity    *Figure
	ExportURL string
}

// QueryError is a form input that could not be parsed.
type QueryError struct {
	Code    string
	Message string
	Detail  string
}

// Dashboard handles GET / for the query string.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	defaults := h.service.Defaults()
	data := DashboardData{
		Title:    "tickerscope",
		Defaults: defaults,
		Periods:  collector.Periods,
	}

	q, err := dashboard.ParseQuery(r.URL.Query(), defaults)
	data.Query = q
	if err != nil {
		data.Error = newQueryError(err)
		h.render(w, http.StatusBadRequest, "dashboard.html", data)
		return
	}

	view, err := h.service.Build(r.Context(), q)
	if err != nil {
		h.logger.Warn("dashboard build aborted", zap.String("symbol", q.Symbol), zap.Error(err))
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}

	data.Title = q.Symbol + " · tickerscope"
	data.View = view
	data.Price = PriceFigure(view.Chart)
	data.Equity = EquityFigure(view.Backtest)
	if view.Failure == nil {
		data.ExportURL = "/api/v1/symbols/" + url.PathEscape(q.Symbol) + "/export.csv?" + q.Values().Encode()
	}

	h.render(w, http.StatusOK, "dashboard.html", data)
}

func newQueryError(err error) *QueryError {
	qe := &QueryError{Code: "INTERNAL_ERROR", Message: err.Error()}
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		qe.Code = coreErr.Code
		qe.Message = coreErr.Message
		if coreErr.Cause != nil {
			qe.Detail = coreErr.Cause.Error()
		}
	}
	return qe
}
