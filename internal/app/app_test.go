package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/config"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "2330.TW", "exchangeTimezoneName": "Asia/Taipei", "gmtoffset": 28800},
      "timestamp": [1704157200, 1704243600, 1704330000],
      "indicators": {
        "quote": [{
          "open":   [590, 592, 585],
          "high":   [595, 596, 590],
          "low":    [588, 586, 580],
          "close":  [593, 587, 589],
          "volume": [25000000, 21000000, 19000000]
        }],
        "adjclose": [{"adjclose": [593, 587, 589]}]
      }
    }],
    "error": null
  }
}`

func fakeYahoo(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/2330.TW") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	cfg := config.Defaults()
	cfg.Collector.BaseURL = baseURL
	cfg.News.Enabled = false
	cfg.Export.Path = t.TempDir()
	return cfg
}

func TestNew_Wiring(t *testing.T) {
	yahoo := fakeYahoo(t)
	a, err := New(testConfig(t, yahoo.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", a.History().Name())

	q, err := dashboard.ParseQuery(nil, a.Dashboard().Defaults())
	require.NoError(t, err)

	view, err := a.Dashboard().Build(context.Background(), q)
	require.NoError(t, err)
	require.Nil(t, view.Failure)
	require.NotNil(t, view.Snapshot)
	assert.Equal(t, 589.0, view.Snapshot.Close)
	assert.Len(t, view.Table, 3)
	assert.Empty(t, view.News)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Collector.Provider = "bloomberg"

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestDashboardDefaults(t *testing.T) {
	cfg := config.Defaults()
	cfg.Dashboard.Period = "6mo"
	cfg.News.Limit = 3
	cfg.Backtest.InitialCapital = 50000

	d := DashboardDefaults(cfg)
	assert.Equal(t, collector.Period6M, d.Period)
	assert.Equal(t, []int{5, 20}, d.MAWindows)
	assert.Equal(t, 3, d.NewsLimit)
	assert.Equal(t, 50000.0, d.Backtest.InitialCapital)
	assert.Equal(t, 20, d.Backtest.LongWindow)
	assert.Equal(t, 50, d.VolumeBins)
}

func TestApp_ExporterAndServer(t *testing.T) {
	yahoo := fakeYahoo(t)
	a, err := New(testConfig(t, yahoo.URL), nil)
	require.NoError(t, err)

	e1, err := a.Exporter()
	require.NoError(t, err)
	e2, _ := a.Exporter()
	assert.Same(t, e1, e2)

	deps := a.ServerDependencies()
	assert.NotNil(t, deps.Exporter)
	assert.NotNil(t, deps.Metrics)

	backtest, err := a.Backtester().Run(context.Background(),
		collector.Request{Symbol: "2330.TW", Mode: collector.ModePeriod, Period: collector.Period1Y},
		DashboardDefaults(a.Config()).Backtest)
	require.NoError(t, err)
	assert.Len(t, backtest.Result.Curve, 3)
	assert.NotEmpty(t, backtest.Warnings, "three bars cannot resolve MA20")

	sc := a.ServerConfig()
	assert.Equal(t, 8080, sc.Port)
	assert.Equal(t, "/metrics", sc.MetricsPath)
}

func TestApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Metrics.Enabled = false

	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, a.ServerDependencies().Metrics)
}
