package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/news"
)

type stubProvider struct {
	bars []core.OHLCV
	err  error
}

func (s *stubProvider) FetchHistory(ctx context.Context, req collector.Request) ([]core.OHLCV, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bars, nil
}

func risingBars(n int) []core.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]core.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = core.OHLCV{
			Symbol: "2330.TW", Interval: "1d",
			Open: c - 0.5, High: c + 1, Low: c - 1, Close: c,
			Volume: int64(1000 + i),
			Time:   start.AddDate(0, 0, i),
		}
	}
	return bars
}

func newTestHandler(t *testing.T, provider *stubProvider, items []news.Item) *Handler {
	t.Helper()
	d := dashboard.StandardDefaults()
	d.Now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	svc := dashboard.NewService(provider, news.NewStatic(items), d)

	h, err := NewHandler(svc, nil)
	require.NoError(t, err)
	return h
}

func TestNewHandler_ParsesEmbeddedTemplates(t *testing.T) {
	h := newTestHandler(t, &stubProvider{}, nil)
	for _, page := range pages {
		assert.Contains(t, h.pageTemplates, page)
	}
}

func TestNewHandlerWithFS_MissingPage(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{template "content" .}}`)},
	}
	_, err := NewHandlerWithFS(fsys, nil, nil)
	assert.Error(t, err)
}

func TestDashboard_Renders(t *testing.T) {
	items := []news.Item{{Title: "2330 hits record", Link: "https://example.com/a", Published: "Mon, 01 Jan 2024 08:00:00 GMT", Source: "Example"}}
	h := newTestHandler(t, &stubProvider{bars: risingBars(30)}, items)

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/?ticker=2330&bb=0&bb=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Auto-corrected to 2330.TW")
	assert.Contains(t, body, `Plotly.newPlot("price-chart"`)
	assert.Contains(t, body, `"name":"Bollinger"`)
	assert.Contains(t, body, "2330 hits record")
	assert.Contains(t, body, "/api/v1/symbols/2330.TW/export.csv?")
	assert.Contains(t, body, "2024-01-30", "table lists bars")
	assert.NotContains(t, body, `id="equity-chart"`)
}

func TestDashboard_Backtest(t *testing.T) {
	h := newTestHandler(t, &stubProvider{bars: risingBars(30)}, nil)

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/?ticker=2330.TW&backtest=1&capital=100,000", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "MA5 vs MA20 crossover")
	assert.Contains(t, body, `Plotly.newPlot("equity-chart"`)
	assert.Contains(t, body, "No news")
}

func TestDashboard_FetchFailure(t *testing.T) {
	h := newTestHandler(t, &stubProvider{err: core.WrapError(core.ErrCollectorFailed, errIO("connection reset"))}, nil)

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/?ticker=9999.TW", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Unable to load data for 9999.TW")
	assert.Contains(t, body, "connection reset")
	assert.Contains(t, body, "2330.TW for Taiwan listings")
	assert.NotContains(t, body, "price-chart")
	assert.NotContains(t, body, "Data table")
}

func TestDashboard_BadQuery(t *testing.T) {
	h := newTestHandler(t, &stubProvider{}, nil)

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/?period=10y", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid time range")
	assert.True(t, strings.Contains(w.Body.String(), `<form method="get"`), "form is still rendered")
}

type errIO string

func (e errIO) Error() string { return string(e) }
