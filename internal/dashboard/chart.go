package dashboard

import (
	"fmt"
	"math"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/indicator"
)

// Palette colors moving average overlays in order, wrapping around.
var Palette = []string{"orange", "blue", "purple", "black", "green", "red"}

// ChartOptions selects the overlays drawn on the price panel.
type ChartOptions struct {
	MAWindows           []int
	Bollinger           bool
	BollingerPeriod     int
	BollingerMultiplier float64
	VolumeProfile       bool
	VolumeBins          int
	Gaps                bool
}

// NewChart computes every requested overlay for bars.
func NewChart(bars []core.OHLCV, opts ChartOptions) *Chart {
	n := len(bars)
	c := &Chart{
		Dates:    make([]string, n),
		Open:     make([]float64, n),
		High:     make([]float64, n),
		Low:      make([]float64, n),
		Close:    make([]float64, n),
		Volume:   make([]int64, n),
		VolumeUp: make([]bool, n),
		Overlays: make([]Overlay, 0, len(opts.MAWindows)),
	}
	for i, b := range bars {
		c.Dates[i] = b.Date()
		c.Open[i] = b.Open
		c.High[i] = b.High
		c.Low[i] = b.Low
		c.Close[i] = b.Close
		c.Volume[i] = b.Volume
		c.VolumeUp[i] = b.IsUp()
	}

	for i, w := range opts.MAWindows {
		c.Overlays = append(c.Overlays, Overlay{
			Name:   fmt.Sprintf("MA%d", w),
			Window: w,
			Color:  Palette[i%len(Palette)],
			Values: indicator.MovingAverage(c.Close, w),
		})
	}

	if opts.Bollinger {
		bands := indicator.Bollinger(c.Close, opts.BollingerPeriod, opts.BollingerMultiplier)
		c.Bollinger = &bands
	}
	if opts.VolumeProfile {
		c.Profile = indicator.VolumeProfile(c.Close, c.Volume, opts.VolumeBins)
	}
	if opts.Gaps {
		c.Gaps = indicator.Gaps(bars)
	}
	return c
}

// NewSnapshot summarizes the last bar of a non-empty series.
func NewSnapshot(bars []core.OHLCV) *Snapshot {
	if len(bars) == 0 {
		return nil
	}

	last := bars[len(bars)-1]
	s := &Snapshot{
		Close:  last.Close,
		High:   math.Inf(-1),
		Low:    math.Inf(1),
		Volume: last.Volume,
	}
	for _, b := range bars {
		s.High = math.Max(s.High, b.High)
		s.Low = math.Min(s.Low, b.Low)
	}

	price := Card{Label: "Close", Value: Price(s.Close)}
	if len(bars) > 1 {
		prev := bars[len(bars)-2].Close
		s.HasPrevious = true
		s.Change = s.Close - prev
		if prev != 0 {
			s.ChangePct = s.Change / prev * 100
			price.Delta = fmt.Sprintf("%s (%s)", Signed(s.Change), Percent(s.ChangePct))
		} else {
			price.Delta = Signed(s.Change)
		}
		price.Up = s.Change >= 0
	}

	s.Cards = []Card{
		price,
		{Label: "High", Value: Price(s.High)},
		{Label: "Low", Value: Price(s.Low)},
		{Label: "Volume", Value: Volume(s.Volume)},
	}
	return s
}

// NewTable lists bars most recent first.
func NewTable(bars []core.OHLCV) []Row {
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[len(bars)-1-i] = Row{
			Date:   b.Date(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return rows
}
