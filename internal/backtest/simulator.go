package backtest

import (
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/indicator"
)

// Simulate runs the moving-average crossover over series. Fills happen at
// the close of the bar whose transition triggered them.
func Simulate(series []core.OHLCV, shortWindow, longWindow int, initialCapital float64) (*Result, error) {
	params := Params{ShortWindow: shortWindow, LongWindow: longWindow, InitialCapital: initialCapital}
	if len(series) == 0 {
		return nil, core.ErrNoData
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	closes := core.Closes(series)
	shortMA := indicator.MovingAverage(closes, shortWindow)
	longMA := indicator.MovingAverage(closes, longWindow)
	signal := Signals(shortMA, longMA)
	position := Transitions(signal)

	curve, trades := fold(series, position, portfolio{cash: initialCapital})

	return &Result{
		Params:   params,
		ShortMA:  shortMA,
		LongMA:   longMA,
		Signal:   signal,
		Position: position,
		Curve:    curve,
		Trades:   trades,
	}, nil
}

// Signals is 1 where short > long strictly. Undefined values compare false.
func Signals(short, long indicator.Series) []int {
	n := min(len(short), len(long))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		if short[i] > long[i] {
			out[i] = 1
		}
	}
	return out
}

// Transitions is the bar-to-bar difference of signal. The first bar has no
// predecessor and is left at 0.
func Transitions(signal []int) []int {
	out := make([]int, len(signal))
	for i := 1; i < len(signal); i++ {
		out[i] = signal[i] - signal[i-1]
	}
	return out
}

// portfolio is either all cash or all holdings.
type portfolio struct {
	cash     float64
	holdings float64
}

func (p portfolio) value(price float64) float64 {
	return p.cash + p.holdings*price
}

// apply executes a transition at price and reports the fill side, if any.
func (p portfolio) apply(transition int, price float64) (portfolio, Side, bool) {
	switch {
	case transition == 1 && p.cash > 0 && price > 0:
		return portfolio{holdings: p.cash / price}, SideBuy, true
	case transition == -1 && p.holdings > 0:
		return portfolio{cash: p.holdings * price}, SideSell, true
	}
	return p, "", false
}

// fold walks the bars left to right carrying the portfolio and emits one
// equity point per bar plus a trade per fill.
func fold(series []core.OHLCV, position []int, p portfolio) ([]EquityPoint, []Trade) {
	curve := make([]EquityPoint, 0, len(series))
	var trades []Trade

	for i, bar := range series {
		before := p
		next, side, filled := p.apply(position[i], bar.Close)
		equity := next.value(bar.Close)

		if filled {
			units := next.holdings
			if side == SideSell {
				units = before.holdings
			}
			trades = append(trades, Trade{
				Time:   bar.Time,
				Side:   side,
				Price:  bar.Close,
				Units:  units,
				Equity: equity,
			})
		}

		curve = append(curve, EquityPoint{
			Time:     bar.Time,
			Close:    bar.Close,
			Cash:     next.cash,
			Holdings: next.holdings,
			Equity:   equity,
		})
		p = next
	}

	return curve, trades
}
