package dashboard

import (
	"time"

	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/indicator"
	"github.com/newthinker/tickerscope/internal/news"
)

// View is everything the dashboard renders for one query.
type View struct {
	Query       Query         `json:"query"`
	Notice      string        `json:"notice,omitempty"`
	Failure     *Failure      `json:"failure,omitempty"`
	Snapshot    *Snapshot     `json:"snapshot,omitempty"`
	Chart       *Chart        `json:"chart,omitempty"`
	Backtest    *BacktestView `json:"backtest,omitempty"`
	News        []news.Item   `json:"news"`
	Table       []Row         `json:"table,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Failure explains why no chart could be drawn.
type Failure struct {
	Code   string   `json:"code"`
	Notice string   `json:"notice"`
	Detail string   `json:"detail,omitempty"`
	Hints  []string `json:"hints"`
}

// Card is one headline figure.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
	Up    bool   `json:"up"`
}

// Snapshot summarizes the latest bar against the series.
type Snapshot struct {
	Close       float64 `json:"close"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
	HasPrevious bool    `json:"has_previous"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Volume      int64   `json:"volume"`
	Cards       []Card  `json:"cards"`
}

// Overlay is a moving average line.
type Overlay struct {
	Name   string           `json:"name"`
	Window int              `json:"window"`
	Color  string           `json:"color"`
	Values indicator.Series `json:"values"`
}

// Chart is the price panel plus the volume panel.
type Chart struct {
	Dates     []string              `json:"dates"`
	Open      []float64             `json:"open"`
	High      []float64             `json:"high"`
	Low       []float64             `json:"low"`
	Close     []float64             `json:"close"`
	Volume    []int64               `json:"volume"`
	VolumeUp  []bool                `json:"volume_up"`
	Overlays  []Overlay             `json:"overlays"`
	Bollinger *indicator.Bands      `json:"bollinger,omitempty"`
	Profile   []indicator.VolumeBin `json:"profile,omitempty"`
	Gaps      []indicator.Gap       `json:"gaps,omitempty"`
}

// Marker flags a fill on the equity curve.
type Marker struct {
	Date   string        `json:"date"`
	Side   backtest.Side `json:"side"`
	Equity float64       `json:"equity"`
}

// BacktestView is a backtest report laid out for display.
type BacktestView struct {
	Title   string           `json:"title"`
	Report  *backtest.Report `json:"report,omitempty"`
	Cards   []Card           `json:"cards"`
	Dates   []string         `json:"dates"`
	Equity  []float64        `json:"equity"`
	Markers []Marker         `json:"markers"`
	Error   string           `json:"error,omitempty"`
}

// Row is one line of the data table.
type Row struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
