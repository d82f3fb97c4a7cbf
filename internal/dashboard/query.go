package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/tickerscope/internal/backtest"
	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
)

// Defaults seed a query when the caller leaves a field out.
type Defaults struct {
	Symbol              string
	Period              collector.Period
	MAWindows           []int
	MAChoices           []int // offered by the form
	ShowBollinger       bool
	ShowVolumeProfile   bool
	ShowGaps            bool
	BollingerPeriod     int
	BollingerMultiplier float64
	VolumeBins          int
	NewsLimit           int
	Backtest            backtest.Params

	// Now is the clock used for the default explicit range.
	Now func() time.Time
}

// StandardDefaults are the settings the dashboard opens with.
func StandardDefaults() Defaults {
	return Defaults{
		Symbol:              "2330.TW",
		Period:              collector.Period1Y,
		MAWindows:           []int{5, 20},
		MAChoices:           []int{5, 10, 20, 60, 120, 240},
		ShowBollinger:       false,
		ShowVolumeProfile:   true,
		ShowGaps:            true,
		BollingerPeriod:     20,
		BollingerMultiplier: 2,
		VolumeBins:          50,
		NewsLimit:           6,
		Backtest: backtest.Params{
			ShortWindow:    5,
			LongWindow:     20,
			InitialCapital: 100000,
		},
	}
}

func (d Defaults) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Query is a parsed dashboard request.
type Query struct {
	Input    string           `json:"input"`
	Symbol   string           `json:"symbol"`
	Suffixed bool             `json:"suffixed"` // the Taiwan marker was added to Input
	Mode     collector.Mode   `json:"mode"`
	Period   collector.Period `json:"period,omitempty"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"` // inclusive calendar day

	MAWindows         []int `json:"ma_windows"`
	ShowBollinger     bool  `json:"show_bollinger"`
	ShowVolumeProfile bool  `json:"show_volume_profile"`
	ShowGaps          bool  `json:"show_gaps"`

	RunBacktest bool            `json:"run_backtest"`
	Backtest    backtest.Params `json:"backtest"`
}

// Request converts the query to a history fetch. The inclusive end day
// becomes an exclusive bound one day later.
func (q Query) Request() collector.Request {
	req := collector.Request{Symbol: q.Symbol, Mode: q.Mode, Interval: "1d"}
	if q.Mode == collector.ModeRange {
		req.Start = q.Start
		req.End = q.End.AddDate(0, 0, 1)
	} else {
		req.Period = q.Period
	}
	return req
}

// Values encodes the query back into URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("ticker", q.Input)
	v.Set("mode", string(q.Mode))
	if q.Mode == collector.ModeRange {
		v.Set("start", q.Start.Format(core.DateLayout))
		v.Set("end", q.End.Format(core.DateLayout))
	} else {
		v.Set("period", string(q.Period))
	}
	windows := make([]string, len(q.MAWindows))
	for i, w := range q.MAWindows {
		windows[i] = strconv.Itoa(w)
	}
	v.Set("ma", strings.Join(windows, ","))
	v.Set("bb", formatBool(q.ShowBollinger))
	v.Set("vp", formatBool(q.ShowVolumeProfile))
	v.Set("gaps", formatBool(q.ShowGaps))
	if q.RunBacktest {
		v.Set("backtest", "1")
	}
	v.Set("capital", strconv.FormatFloat(q.Backtest.InitialCapital, 'f', -1, 64))
	v.Set("short", strconv.Itoa(q.Backtest.ShortWindow))
	v.Set("long", strconv.Itoa(q.Backtest.LongWindow))
	return v
}

// ParseQuery reads a dashboard request from URL parameters:
//
//	ticker   symbol; a bare four-digit code gets the .TW suffix
//	mode     period | range
//	period   3mo 6mo 1y 2y 5y max
//	start    YYYY-MM-DD, range mode
//	end      YYYY-MM-DD inclusive, range mode
//	ma       comma separated or repeated window lengths
//	bb vp gaps  toggles; the last value wins so forms can send a hidden 0
//	backtest  trigger
//	capital short long  backtest parameters
func ParseQuery(v url.Values, d Defaults) (Query, error) {
	q := Query{
		Mode:              collector.ModePeriod,
		Period:            d.Period,
		MAWindows:         append([]int(nil), d.MAWindows...),
		ShowBollinger:     d.ShowBollinger,
		ShowVolumeProfile: d.ShowVolumeProfile,
		ShowGaps:          d.ShowGaps,
		Backtest:          d.Backtest,
	}

	q.Input = strings.TrimSpace(v.Get("ticker"))
	if q.Input == "" {
		q.Input = d.Symbol
	}
	q.Symbol, q.Suffixed = collector.NormalizeTicker(q.Input)
	if err := collector.ValidateSymbol(q.Symbol); err != nil {
		return q, err
	}

	q.Start, q.End = collector.LastYear(d.now())

	if mode := v.Get("mode"); mode != "" {
		q.Mode = collector.Mode(mode)
	}
	switch q.Mode {
	case collector.ModePeriod:
		if p := v.Get("period"); p != "" {
			period, err := collector.ParsePeriod(p)
			if err != nil {
				return q, err
			}
			q.Period = period
		}
	case collector.ModeRange:
		var err error
		if q.Start, err = parseDate(v.Get("start"), q.Start); err != nil {
			return q, err
		}
		if q.End, err = parseDate(v.Get("end"), q.End); err != nil {
			return q, err
		}
		if q.End.Before(q.Start) {
			return q, core.WrapError(core.ErrRangeInvalid,
				fmt.Errorf("end %s is before start %s", q.End.Format(core.DateLayout), q.Start.Format(core.DateLayout)))
		}
	default:
		return q, core.WrapError(core.ErrRangeInvalid, fmt.Errorf("unknown mode %q", q.Mode))
	}

	if raw, ok := v["ma"]; ok {
		windows, err := parseWindows(raw)
		if err != nil {
			return q, err
		}
		q.MAWindows = windows
	}

	var err error
	if q.ShowBollinger, err = parseBool(v, "bb", q.ShowBollinger); err != nil {
		return q, err
	}
	if q.ShowVolumeProfile, err = parseBool(v, "vp", q.ShowVolumeProfile); err != nil {
		return q, err
	}
	if q.ShowGaps, err = parseBool(v, "gaps", q.ShowGaps); err != nil {
		return q, err
	}
	if q.RunBacktest, err = parseBool(v, "backtest", false); err != nil {
		return q, err
	}

	if s := v.Get("capital"); s != "" {
		c, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return q, core.WrapError(core.ErrInvalidCapital, err)
		}
		q.Backtest.InitialCapital = c
	}
	if q.Backtest.ShortWindow, err = parseInt(v.Get("short"), q.Backtest.ShortWindow); err != nil {
		return q, err
	}
	if q.Backtest.LongWindow, err = parseInt(v.Get("long"), q.Backtest.LongWindow); err != nil {
		return q, err
	}
	if err := q.Backtest.Validate(); err != nil {
		return q, err
	}

	return q, nil
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return fallback, core.WrapError(core.ErrRangeInvalid, err)
	}
	return t, nil
}

// parseWindows accepts "5,20" and repeated values, dropping duplicates.
func parseWindows(raw []string) ([]int, error) {
	seen := make(map[int]bool)
	windows := []int{}
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			w, err := strconv.Atoi(part)
			if err != nil || w <= 0 {
				return nil, core.WrapError(core.ErrInvalidWindow, fmt.Errorf("moving average window %q", part))
			}
			if !seen[w] {
				seen[w] = true
				windows = append(windows, w)
			}
		}
	}
	return windows, nil
}

func parseInt(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback, core.WrapError(core.ErrInvalidWindow, err)
	}
	return n, nil
}

func parseBool(v url.Values, key string, fallback bool) (bool, error) {
	values, ok := v[key]
	if !ok || len(values) == 0 {
		return fallback, nil
	}
	switch strings.ToLower(values[len(values)-1]) {
	case "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no", "":
		return false, nil
	}
	return fallback, core.WrapError(core.ErrQueryInvalid, fmt.Errorf("%s=%q is not a boolean", key, values[len(values)-1]))
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
