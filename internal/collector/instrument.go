package collector

import (
	"context"
	"errors"
	"time"

	"github.com/newthinker/tickerscope/internal/core"
)

// Observer receives the outcome of every fetch.
type Observer interface {
	ObserveFetch(provider, status string, d time.Duration)
}

// Fetch statuses reported to an Observer.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
	StatusError  = "error"
)

type instrumented struct {
	Collector
	obs Observer
}

// Instrument wraps c so each FetchHistory is reported to obs.
func Instrument(c Collector, obs Observer) Collector {
	if obs == nil {
		return c
	}
	return &instrumented{Collector: c, obs: obs}
}

func (i *instrumented) FetchHistory(ctx context.Context, req Request) ([]core.OHLCV, error) {
	start := time.Now()
	bars, err := i.Collector.FetchHistory(ctx, req)
	i.obs.ObserveFetch(i.Name(), fetchStatus(err), time.Since(start))
	return bars, err
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, core.ErrNoData):
		return StatusNoData
	default:
		return StatusError
	}
}
