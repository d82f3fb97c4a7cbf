package backtest

import (
	"fmt"
	"math"
)

// Summarize computes the headline figures for a result.
func Summarize(r *Result) Summary {
	s := Summary{
		InitialCapital: r.Params.InitialCapital,
		FinalEquity:    r.FinalEquity(),
		TotalReturn:    r.TotalReturn(),
		MaxDrawdown:    calculateMaxDrawdown(r.Equity()) * 100,
		TradeCount:     len(r.Trades),
	}
	if pct, err := r.ReturnPct(); err == nil {
		s.ReturnPct = &pct
	}

	var lastClose float64
	if n := len(r.Curve); n > 0 {
		lastClose = r.Curve[n-1].Close
	}
	s.RoundTrips = pairTrades(r.Trades, lastClose)

	var winning, closed int
	for _, t := range s.RoundTrips {
		if !t.IsClosed() {
			continue
		}
		closed++
		if t.IsWin() {
			winning++
		}
	}
	if closed > 0 {
		s.WinRate = float64(winning) / float64(closed) * 100
	}
	return s
}

// pairTrades matches each buy with the following sell. A trailing buy stays
// open and is marked to lastClose.
func pairTrades(trades []Trade, lastClose float64) []RoundTrip {
	var trips []RoundTrip
	var open *Trade

	for i := range trades {
		t := trades[i]
		switch t.Side {
		case SideBuy:
			open = &t
		case SideSell:
			if open == nil {
				continue
			}
			trips = append(trips, RoundTrip{
				Entry:  *open,
				Exit:   &t,
				Return: priceReturn(open.Price, t.Price),
			})
			open = nil
		}
	}

	if open != nil {
		trips = append(trips, RoundTrip{
			Entry:  *open,
			Return: priceReturn(open.Price, lastClose),
		})
	}
	return trips
}

func priceReturn(entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	return (exit - entry) / entry
}

// calculateMaxDrawdown finds the largest peak-to-trough decline of an equity
// curve as a fraction of the peak.
func calculateMaxDrawdown(equity []float64) float64 {
	var maxDD float64
	peak := math.Inf(-1)

	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// Warnings lists the degenerate conditions a run completed under.
func Warnings(r *Result, bars int) []string {
	var out []string
	p := r.Params
	if need := max(p.ShortWindow, p.LongWindow); bars < need {
		out = append(out, fmt.Sprintf(
			"series has %d bars, fewer than the %d needed to resolve both moving averages; no trades were possible",
			bars, need))
	}
	if p.ShortWindow > p.LongWindow {
		out = append(out, "short window is longer than long window; the crossover signal is inverted")
	}
	if p.ShortWindow == p.LongWindow {
		out = append(out, "short and long windows are equal; no crossover can occur")
	}
	if p.InitialCapital == 0 {
		out = append(out, "initial capital is zero; return percentage is undefined")
	}
	return out
}
