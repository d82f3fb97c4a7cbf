package backtest

import (
	"context"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
)

// HistoryFetcher supplies the bars a backtest runs over.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, req collector.Request) ([]core.OHLCV, error)
}

// Backtester fetches history and runs the crossover simulation on it.
type Backtester struct {
	provider HistoryFetcher
}

// New creates a new Backtester with the given history provider
func New(provider HistoryFetcher) *Backtester {
	return &Backtester{
		provider: provider,
	}
}

// Run fetches the requested series and simulates params over it.
func (b *Backtester) Run(ctx context.Context, req collector.Request, params Params) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	series, err := b.provider.FetchHistory(ctx, req)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return NewReport(req.Symbol, series, params)
}

// NewReport simulates params over an already fetched series.
func NewReport(symbol string, series []core.OHLCV, params Params) (*Report, error) {
	result, err := Simulate(series, params.ShortWindow, params.LongWindow, params.InitialCapital)
	if err != nil {
		return nil, err
	}

	return &Report{
		Symbol:   symbol,
		Result:   result,
		Summary:  Summarize(result),
		Warnings: Warnings(result, len(series)),
	}, nil
}
