package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	fetchesTotal        *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
	backtestsTotal      *prometheus.CounterVec
	newsLookups         *prometheus.CounterVec
	dashboardBuilds     *prometheus.CounterVec
	dashboardBuildTimes prometheus.Histogram
	exportsTotal        *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerscope_fetches_total",
			Help: "Total number of market data fetches",
		},
		[]string{"provider", "status"},
	)
	r.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerscope_fetch_duration_seconds",
			Help:    "Market data fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerscope_backtests_total",
			Help: "Total number of backtests run",
		},
		[]string{"status"},
	)
	r.newsLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerscope_news_lookups_total",
			Help: "Total number of news lookups",
		},
		[]string{"status"},
	)
	r.dashboardBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerscope_dashboard_builds_total",
			Help: "Total number of dashboard views built",
		},
		[]string{"outcome"},
	)
	r.dashboardBuildTimes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tickerscope_dashboard_build_duration_seconds",
			Help:    "Dashboard build duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerscope_exports_total",
			Help: "Total number of CSV exports",
		},
		[]string{"sink", "status"},
	)

	reg.MustRegister(r.fetchesTotal)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.newsLookups)
	reg.MustRegister(r.dashboardBuilds)
	reg.MustRegister(r.dashboardBuildTimes)
	reg.MustRegister(r.exportsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// ObserveFetch records a market data fetch.
func (r *Registry) ObserveFetch(provider, status string, d time.Duration) {
	r.fetchesTotal.WithLabelValues(provider, status).Inc()
	r.fetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveBacktest records a backtest completion.
func (r *Registry) ObserveBacktest(status string) {
	r.backtestsTotal.WithLabelValues(status).Inc()
}

// ObserveNews records a news lookup.
func (r *Registry) ObserveNews(status string) {
	r.newsLookups.WithLabelValues(status).Inc()
}

// ObserveBuild records a dashboard build.
func (r *Registry) ObserveBuild(outcome string, d time.Duration) {
	r.dashboardBuilds.WithLabelValues(outcome).Inc()
	r.dashboardBuildTimes.Observe(d.Seconds())
}

// ObserveExport records a CSV export.
func (r *Registry) ObserveExport(sink, status string) {
	r.exportsTotal.WithLabelValues(sink, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
