package web

import (
	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
	"github.com/newthinker/tickerscope/internal/indicator"
)

// Figure is a Plotly figure: a list of traces and a layout.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

const (
	bandLine     = "rgba(0,100,255,0.3)"
	bandFill     = "rgba(0,100,255,0.1)"
	bandMid      = "rgba(0,100,255,0.6)"
	profileColor = "rgba(31,119,180,0.3)"
	gapUpFill    = "rgba(0,255,0,0.3)"
	gapDownFill  = "rgba(255,0,0,0.3)"
)

// PriceFigure draws candles with overlays on top and volume underneath.
func PriceFigure(c *dashboard.Chart) *Figure {
	if c == nil {
		return nil
	}

	data := []map[string]any{{
		"type":  "candlestick",
		"name":  "Price",
		"x":     c.Dates,
		"open":  c.Open,
		"high":  c.High,
		"low":   c.Low,
		"close": c.Close,
		"xaxis": "x",
		"yaxis": "y",
	}}

	for _, o := range c.Overlays {
		data = append(data, map[string]any{
			"type": "scatter",
			"mode": "lines",
			"name": o.Name,
			"x":    c.Dates,
			"y":    o.Values,
			"line": map[string]any{"width": 1.5, "color": o.Color},
		})
	}

	if b := c.Bollinger; b != nil {
		data = append(data,
			map[string]any{
				"type": "scatter", "mode": "lines", "showlegend": false,
				"x": c.Dates, "y": b.Lower,
				"line": map[string]any{"color": bandLine, "width": 1},
			},
			map[string]any{
				"type": "scatter", "mode": "lines", "name": "Bollinger",
				"x": c.Dates, "y": b.Upper,
				"fill": "tonexty", "fillcolor": bandFill,
				"line": map[string]any{"color": bandLine, "width": 1},
			},
			map[string]any{
				"type": "scatter", "mode": "lines", "name": "BB mid",
				"x": c.Dates, "y": b.Mid,
				"line": map[string]any{"color": bandMid, "width": 1, "dash": "dash"},
			},
		)
	}

	layout := map[string]any{
		"height":     600,
		"showlegend": true,
		"legend": map[string]any{
			"orientation": "h", "yanchor": "bottom", "y": 1.02, "xanchor": "right", "x": 1,
		},
		"margin": map[string]any{"l": 50, "r": 20, "t": 40, "b": 40},
		"xaxis":  map[string]any{"type": "date", "rangeslider": map[string]any{"visible": false}, "anchor": "y"},
		"yaxis":  map[string]any{"domain": []float64{0.3, 1}},
		"xaxis2": map[string]any{"type": "date", "matches": "x", "anchor": "y2"},
		"yaxis2": map[string]any{"domain": []float64{0, 0.27}},
	}

	if len(c.Profile) > 0 {
		data = append(data, profileTrace(c.Profile))
		var maxVol int64
		for _, v := range c.Volume {
			maxVol = max(maxVol, v)
		}
		layout["xaxis3"] = map[string]any{
			"overlaying": "x", "side": "top", "showgrid": false, "visible": false,
			"range": []float64{float64(maxVol) * 3, 0},
		}
	}

	colors := make([]string, len(c.VolumeUp))
	for i, up := range c.VolumeUp {
		colors[i] = "red"
		if up {
			colors[i] = "green"
		}
	}
	data = append(data, map[string]any{
		"type":   "bar",
		"name":   "Volume",
		"x":      c.Dates,
		"y":      c.Volume,
		"xaxis":  "x2",
		"yaxis":  "y2",
		"marker": map[string]any{"color": colors},
	})

	if len(c.Gaps) > 0 {
		layout["shapes"] = gapShapes(c.Gaps)
	}

	return &Figure{Data: data, Layout: layout}
}

func profileTrace(bins []indicator.VolumeBin) map[string]any {
	mids := make([]float64, len(bins))
	widths := make([]float64, len(bins))
	volumes := make([]int64, len(bins))
	for i, b := range bins {
		mids[i] = (b.Low + b.High) / 2
		widths[i] = b.High - b.Low
		volumes[i] = b.Volume
	}
	return map[string]any{
		"type":        "bar",
		"orientation": "h",
		"name":        "Volume profile",
		"x":           volumes,
		"y":           mids,
		"width":       widths,
		"xaxis":       "x3",
		"yaxis":       "y",
		"hoverinfo":   "none",
		"marker":      map[string]any{"color": profileColor},
	}
}

func gapShapes(gaps []indicator.Gap) []map[string]any {
	shapes := make([]map[string]any, len(gaps))
	for i, g := range gaps {
		fill := gapUpFill
		if g.Kind == indicator.GapDown {
			fill = gapDownFill
		}
		shapes[i] = map[string]any{
			"type": "rect", "xref": "x", "yref": "y",
			"x0": g.From.Format(core.DateLayout), "x1": g.To.Format(core.DateLayout),
			"y0": g.Low, "y1": g.High,
			"fillcolor": fill,
			"line":      map[string]any{"width": 0},
		}
	}
	return shapes
}

// EquityFigure draws the equity curve with buy and sell markers.
func EquityFigure(b *dashboard.BacktestView) *Figure {
	if b == nil || b.Report == nil {
		return nil
	}

	buyX, sellX := []string{}, []string{}
	buyY, sellY := []float64{}, []float64{}
	for _, m := range b.Markers {
		switch m.Side {
		case backtest.SideBuy:
			buyX, buyY = append(buyX, m.Date), append(buyY, m.Equity)
		case backtest.SideSell:
			sellX, sellY = append(sellX, m.Date), append(sellY, m.Equity)
		}
	}

	return &Figure{
		Data: []map[string]any{
			{
				"type": "scatter", "mode": "lines", "name": "Equity",
				"x": b.Dates, "y": b.Equity,
				"line": map[string]any{"color": "gold", "width": 2},
			},
			{
				"type": "scatter", "mode": "markers", "name": "Buy",
				"x": buyX, "y": buyY,
				"marker": map[string]any{"symbol": "triangle-up", "size": 10, "color": "red"},
			},
			{
				"type": "scatter", "mode": "markers", "name": "Sell",
				"x": sellX, "y": sellY,
				"marker": map[string]any{"symbol": "triangle-down", "size": 10, "color": "green"},
			},
		},
		Layout: map[string]any{
			"height":    400,
			"hovermode": "x unified",
			"margin":    map[string]any{"l": 50, "r": 20, "t": 20, "b": 40},
		},
	}
}
