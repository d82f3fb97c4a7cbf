package collector

import (
	"context"
	"time"

	"github.com/newthinker/tickerscope/internal/core"
)

// Config holds collector configuration
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Extra     map[string]any
}

// Collector defines the interface for market data providers
type Collector interface {
	// Metadata
	Name() string

	// Lifecycle
	Init(cfg Config) error

	// Data fetching
	FetchHistory(ctx context.Context, req Request) ([]core.OHLCV, error)
}
