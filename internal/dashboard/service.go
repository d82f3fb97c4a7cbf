package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/news"
)

// Build outcomes reported to a Recorder.
const (
	OutcomeOK      = "ok"
	OutcomeFailure = "fetch_failed"
)

// Recorder receives dashboard and backtest outcomes.
type Recorder interface {
	ObserveBuild(outcome string, d time.Duration)
	ObserveBacktest(status string)
}

// Fetch failure hints shown under the notice.
var failureHints = []string{
	"Check the symbol format, for example 2330.TW for Taiwan listings.",
	"Yahoo Finance may be temporarily unreachable; try again later.",
}

// Service assembles dashboard views.
type Service struct {
	provider backtest.HistoryFetcher
	news     news.Provider
	defaults Defaults
	recorder Recorder
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a dashboard service. A nil news provider disables news.
func NewService(provider backtest.HistoryFetcher, newsProvider news.Provider, d Defaults, opts ...Option) *Service {
	if newsProvider == nil {
		newsProvider = news.NewStatic(nil)
	}
	s := &Service{
		provider: provider,
		news:     newsProvider,
		defaults: d,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the settings queries are parsed against.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Build fetches the series for q and lays out every panel. A fetch failure
// is reported in View.Failure rather than as an error.
func (s *Service) Build(ctx context.Context, q Query) (*View, error) {
	start := time.Now()
	view := &View{Query: q, News: []news.Item{}, GeneratedAt: start.UTC()}
	if q.Suffixed {
		view.Notice = fmt.Sprintf("Auto-corrected to %s", q.Symbol)
	}

	bars, err := s.provider.FetchHistory(ctx, q.Request())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("history fetch failed",
			zap.String("symbol", q.Symbol),
			zap.Error(err),
		)
		view.Failure = newFailure(q.Symbol, err)
		s.observeBuild(OutcomeFailure, start)
		return view, nil
	}

	view.Snapshot = NewSnapshot(bars)
	view.Chart = NewChart(bars, s.chartOptions(q))
	view.Table = NewTable(bars)

	if q.RunBacktest {
		view.Backtest = s.backtest(q, bars)
	}

	view.News = news.Top(s.news.Search(ctx, q.Symbol), s.defaults.NewsLimit)
	if view.News == nil {
		view.News = []news.Item{}
	}

	s.logger.Debug("dashboard built",
		zap.String("symbol", q.Symbol),
		zap.Int("bars", len(bars)),
		zap.Bool("backtest", q.RunBacktest),
		zap.Duration("elapsed", time.Since(start)),
	)
	s.observeBuild(OutcomeOK, start)
	return view, nil
}

func (s *Service) chartOptions(q Query) ChartOptions {
	return ChartOptions{
		MAWindows:           q.MAWindows,
		Bollinger:           q.ShowBollinger,
		BollingerPeriod:     s.defaults.BollingerPeriod,
		BollingerMultiplier: s.defaults.BollingerMultiplier,
		VolumeProfile:       q.ShowVolumeProfile,
		VolumeBins:          s.defaults.VolumeBins,
		Gaps:                q.ShowGaps,
	}
}

func (s *Service) backtest(q Query, bars []core.OHLCV) *BacktestView {
	p := q.Backtest
	title := fmt.Sprintf("MA%d vs MA%d crossover", p.ShortWindow, p.LongWindow)

	report, err := backtest.NewReport(q.Symbol, bars, p)
	if err != nil {
		s.logger.Warn("backtest failed", zap.String("symbol", q.Symbol), zap.Error(err))
		s.observeBacktest("error")
		return &BacktestView{Title: title, Error: err.Error()}
	}
	s.observeBacktest("ok")
	return NewBacktestView(title, report)
}

// NewBacktestView lays out a report with its equity curve and fill markers.
func NewBacktestView(title string, report *backtest.Report) *BacktestView {
	r := report.Result
	sum := report.Summary

	ret := Card{Label: "Total return", Value: "n/a", Delta: Amount(sum.TotalReturn, 0), Up: sum.TotalReturn >= 0}
	if sum.ReturnPct != nil {
		ret.Value = Percent(*sum.ReturnPct)
	}

	v := &BacktestView{
		Title:  title,
		Report: report,
		Cards: []Card{
			{Label: "Initial capital", Value: Amount(sum.InitialCapital, 0)},
			{Label: "Final equity", Value: Amount(sum.FinalEquity, 0)},
			ret,
			{Label: "Max drawdown", Value: Percent(-sum.MaxDrawdown)},
		},
		Dates:   make([]string, len(r.Curve)),
		Equity:  r.Equity(),
		Markers: make([]Marker, 0, len(r.Trades)),
	}
	for i, p := range r.Curve {
		v.Dates[i] = p.Time.Format(core.DateLayout)
	}
	for _, t := range r.Trades {
		v.Markers = append(v.Markers, Marker{
			Date:   t.Time.Format(core.DateLayout),
			Side:   t.Side,
			Equity: t.Equity,
		})
	}
	return v
}

func newFailure(symbol string, err error) *Failure {
	f := &Failure{
		Code:   "COLLECTOR_FAILED",
		Notice: fmt.Sprintf("Unable to load data for %s", symbol),
		Detail: err.Error(),
		Hints:  failureHints,
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		f.Code = ce.Code
		if ce.Cause != nil {
			f.Detail = ce.Cause.Error()
		} else {
			f.Detail = ce.Message
		}
	}
	return f
}

func (s *Service) observeBuild(outcome string, start time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveBuild(outcome, time.Since(start))
	}
}

func (s *Service) observeBacktest(status string) {
	if s.recorder != nil {
		s.recorder.ObserveBacktest(status)
	}
}
