package collector

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/newthinker/tickerscope/internal/core"
)

// Mode selects how the time range of a request is expressed.
type Mode string

const (
	ModePeriod Mode = "period"
	ModeRange  Mode = "range"
)

// Period is a preset lookback understood by the provider.
type Period string

const (
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// Periods lists the presets in display order.
var Periods = []Period{Period3M, Period6M, Period1Y, Period2Y, Period5Y, PeriodMax}

// ParsePeriod validates a preset name.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", core.WrapError(core.ErrRangeInvalid, fmt.Errorf("unknown period %q", s))
}

// TaiwanSuffix is appended to bare four-digit tickers.
const TaiwanSuffix = ".TW"

// validSymbol matches provider symbols like 2330.TW, AAPL, ^TWII, BRK-B, TWD=X
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9^][A-Za-z0-9.\-=^]{0,19}$`)

var fourDigits = regexp.MustCompile(`^[0-9]{4}$`)

// NormalizeTicker trims user input and suffixes a bare four-digit code with
// the Taiwan exchange marker. It reports whether the suffix was added.
func NormalizeTicker(input string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if fourDigits.MatchString(s) {
		return s + TaiwanSuffix, true
	}
	return s, false
}

// ValidateSymbol checks if a symbol has valid format
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol cannot be empty"))
	}
	if !validSymbol.MatchString(symbol) {
		return core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("invalid symbol format: %s", symbol))
	}
	return nil
}

// Request describes a history fetch. In period mode Start and End are
// ignored; in range mode End is exclusive.
type Request struct {
	Symbol   string    `json:"symbol"`
	Mode     Mode      `json:"mode"`
	Period   Period    `json:"period,omitempty"`
	Start    time.Time `json:"start,omitempty"`
	End      time.Time `json:"end,omitempty"`
	Interval string    `json:"interval,omitempty"`
}

// Validate checks the symbol and the time range.
func (r Request) Validate() error {
	if err := ValidateSymbol(r.Symbol); err != nil {
		return err
	}
	switch r.Mode {
	case ModePeriod:
		if _, err := ParsePeriod(string(r.Period)); err != nil {
			return err
		}
	case ModeRange:
		if r.Start.IsZero() || r.End.IsZero() {
			return core.WrapError(core.ErrRangeInvalid, fmt.Errorf("range mode needs start and end"))
		}
		if !r.Start.Before(r.End) {
			return core.WrapError(core.ErrRangeInvalid,
				fmt.Errorf("start %s is not before end %s", r.Start.Format(core.DateLayout), r.End.Format(core.DateLayout)))
		}
	default:
		return core.WrapError(core.ErrRangeInvalid, fmt.Errorf("unknown mode %q", r.Mode))
	}
	return nil
}

// IntervalOrDefault returns the bar interval, daily when unset.
func (r Request) IntervalOrDefault() string {
	if r.Interval == "" {
		return "1d"
	}
	return r.Interval
}

// LastYear is the default explicit range ending on now's calendar day.
// Range dates are calendar days held at UTC midnight.
func LastYear(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -365), end
}

// boundsPad covers any exchange offset from UTC.
const boundsPad = 24 * time.Hour

// Bounds is the instant window to request for a range, one day wider on
// each side than the calendar days asked for. Within trims the result.
func (r Request) Bounds() (time.Time, time.Time) {
	return r.Start.Add(-boundsPad), r.End.Add(boundsPad)
}

// Within keeps the bars whose exchange-local day lies in [Start, End).
// Period requests are returned unchanged.
func (r Request) Within(bars []core.OHLCV) []core.OHLCV {
	if r.Mode != ModeRange {
		return bars
	}
	from, to := r.Start.Format(core.DateLayout), r.End.Format(core.DateLayout)
	out := make([]core.OHLCV, 0, len(bars))
	for _, b := range bars {
		if d := b.Date(); d >= from && d < to {
			out = append(out, b)
		}
	}
	return out
}
