package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/indicator"
)

// Params configures a moving-average crossover run.
type Params struct {
	ShortWindow    int     `json:"short_window"`
	LongWindow     int     `json:"long_window"`
	InitialCapital float64 `json:"initial_capital"`
}

// Validate checks windows and capital. Short > long is allowed and simply
// inverts the strategy.
func (p Params) Validate() error {
	if p.ShortWindow <= 0 || p.LongWindow <= 0 {
		return core.WrapError(core.ErrInvalidWindow,
			fmt.Errorf("short=%d long=%d", p.ShortWindow, p.LongWindow))
	}
	if p.InitialCapital < 0 || math.IsNaN(p.InitialCapital) || math.IsInf(p.InitialCapital, 0) {
		return core.WrapError(core.ErrInvalidCapital,
			fmt.Errorf("got %v", p.InitialCapital))
	}
	return nil
}

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is an executed fill at a bar's close.
type Trade struct {
	Time   time.Time `json:"time"`
	Side   Side      `json:"side"`
	Price  float64   `json:"price"`
	Units  float64   `json:"units"`
	Equity float64   `json:"equity"`
}

// EquityPoint is the portfolio after processing one bar.
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Close    float64   `json:"close"`
	Cash     float64   `json:"cash"`
	Holdings float64   `json:"holdings"`
	Equity   float64   `json:"equity"`
}

// Result holds the per-bar output of a simulation. Every slice has one
// entry per input bar. Position[0] carries no transition and is always 0.
type Result struct {
	Params   Params           `json:"params"`
	ShortMA  indicator.Series `json:"short_ma"`
	LongMA   indicator.Series `json:"long_ma"`
	Signal   []int            `json:"signal"`
	Position []int            `json:"position"`
	Curve    []EquityPoint    `json:"curve"`
	Trades   []Trade          `json:"trades"`
}

// Equity returns the equity curve values.
func (r *Result) Equity() []float64 {
	out := make([]float64, len(r.Curve))
	for i, p := range r.Curve {
		out[i] = p.Equity
	}
	return out
}

// FinalEquity is the equity at the last bar, or the initial capital for an
// empty curve.
func (r *Result) FinalEquity() float64 {
	if len(r.Curve) == 0 {
		return r.Params.InitialCapital
	}
	return r.Curve[len(r.Curve)-1].Equity
}

// TotalReturn is final equity minus initial capital.
func (r *Result) TotalReturn() float64 {
	return r.FinalEquity() - r.Params.InitialCapital
}

// ReturnPct is the total return as a percentage of initial capital.
func (r *Result) ReturnPct() (float64, error) {
	if r.Params.InitialCapital == 0 {
		return 0, core.ErrZeroCapital
	}
	return (r.FinalEquity()/r.Params.InitialCapital - 1) * 100, nil
}

// RoundTrip pairs an entry with its exit. Exit is nil while the position is
// still open, in which case Return is marked to the last close.
type RoundTrip struct {
	Entry  Trade   `json:"entry"`
	Exit   *Trade  `json:"exit,omitempty"`
	Return float64 `json:"return"`
}

// IsWin returns true if the trade was profitable
func (t RoundTrip) IsWin() bool {
	return t.Return > 0
}

// IsClosed returns true if the trade has an exit
func (t RoundTrip) IsClosed() bool {
	return t.Exit != nil
}

// Summary holds the headline figures of a run.
type Summary struct {
	InitialCapital float64     `json:"initial_capital"`
	FinalEquity    float64     `json:"final_equity"`
	TotalReturn    float64     `json:"total_return"`
	ReturnPct      *float64    `json:"return_pct"` // nil when initial capital is zero
	MaxDrawdown    float64     `json:"max_drawdown"`
	TradeCount     int         `json:"trade_count"`
	RoundTrips     []RoundTrip `json:"round_trips"`
	WinRate        float64     `json:"win_rate"` // over closed round trips
}

// Report is what the dashboard and API render for a backtest.
type Report struct {
	Symbol   string   `json:"symbol"`
	Result   *Result  `json:"result"`
	Summary  Summary  `json:"summary"`
	Warnings []string `json:"warnings,omitempty"`
}
