package indicator

import (
	"time"

	"github.com/newthinker/tickerscope/internal/core"
)

// GapKind tells an up gap from a down gap.
type GapKind string

const (
	GapUp   GapKind = "up"
	GapDown GapKind = "down"
)

// Gap is a price interval left untraded between two adjacent bars.
type Gap struct {
	Kind GapKind   `json:"kind"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Low  float64   `json:"low"`
	High float64   `json:"high"`
}

// Gaps scans adjacent bar pairs. An up gap opens when the bar's low clears
// the previous high, a down gap when its high stays under the previous low.
func Gaps(bars []core.OHLCV) []Gap {
	var gaps []Gap
	for i := 1; i < len(bars); i++ {
		prev, curr := bars[i-1], bars[i]
		switch {
		case curr.Low > prev.High:
			gaps = append(gaps, Gap{Kind: GapUp, From: prev.Time, To: curr.Time, Low: prev.High, High: curr.Low})
		case curr.High < prev.Low:
			gaps = append(gaps, Gap{Kind: GapDown, From: prev.Time, To: curr.Time, Low: curr.High, High: prev.Low})
		}
	}
	return gaps
}
