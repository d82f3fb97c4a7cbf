package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // exchange time zones on hosts without zoneinfo

	"github.com/tidwall/gjson"

	"github.com/newthinker/tickerscope/internal/collector"
	"github.com/newthinker/tickerscope/internal/core"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	maxBodyBytes = 16 << 20
)

// Yahoo implements the Yahoo Finance chart collector
type Yahoo struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// New creates a new Yahoo collector
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) Init(cfg collector.Config) error {
	if cfg.BaseURL != "" {
		if _, err := url.Parse(cfg.BaseURL); err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}
		y.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.UserAgent != "" {
		y.userAgent = cfg.UserAgent
	}
	if cfg.Timeout > 0 {
		y.client.Timeout = cfg.Timeout
	}
	return nil
}

// toYahooSymbol converts internal symbol format to Yahoo format
func (y *Yahoo) toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

func (y *Yahoo) toYahooInterval(interval string) string {
	switch interval {
	case "1d", "1wk", "1mo":
		return interval
	default:
		return "1d"
	}
}

// chartURL builds the chart endpoint for req.
func (y *Yahoo) chartURL(req collector.Request) string {
	q := url.Values{}
	q.Set("interval", y.toYahooInterval(req.IntervalOrDefault()))
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")

	if req.Mode == collector.ModeRange {
		from, to := req.Bounds()
		q.Set("period1", strconv.FormatInt(from.Unix(), 10))
		q.Set("period2", strconv.FormatInt(to.Unix(), 10))
	} else {
		q.Set("range", string(req.Period))
	}

	return fmt.Sprintf("%s/%s?%s", y.baseURL, url.PathEscape(y.toYahooSymbol(req.Symbol)), q.Encode())
}

// FetchHistory fetches adjusted daily bars for req.
func (y *Yahoo) FetchHistory(ctx context.Context, req collector.Request) ([]core.OHLCV, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, y.chartURL(req), nil)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}
	httpReq.Header.Set("User-Agent", y.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching history: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if perr := providerError(body); perr != nil {
			return nil, perr
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	bars, err := Normalize(body, req.Symbol, req.IntervalOrDefault())
	if err != nil {
		return nil, err
	}
	bars = req.Within(bars)
	if len(bars) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("no bars for %s between %s and %s", req.Symbol,
				req.Start.Format(core.DateLayout), req.End.AddDate(0, 0, -1).Format(core.DateLayout)))
	}
	return bars, nil
}

// providerError maps a chart.error object to a core error, or nil.
func providerError(body []byte) error {
	e := gjson.GetBytes(body, "chart.error")
	if !e.Exists() || e.Type == gjson.Null {
		return nil
	}
	cause := fmt.Errorf("yahoo error: %s", e.Get("description").String())
	if e.Get("code").String() == "Not Found" {
		return core.WrapError(core.ErrNoData, cause)
	}
	return core.WrapError(core.ErrCollectorFailed, cause)
}

// Normalize flattens a chart response into ascending, de-duplicated daily
// bars. Rows with any missing field are dropped, OHLC are scaled by
// adjclose/close and timestamps are truncated to the exchange-local day.
func Normalize(body []byte, symbol, interval string) ([]core.OHLCV, error) {
	if !gjson.ValidBytes(body) {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: invalid json"))
	}
	if err := providerError(body); err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	loc := exchangeLocation(result.Get("meta"))
	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()
	adjcloses := result.Get("indicators.adjclose.0.adjclose").Array()

	byDay := make(map[time.Time]core.OHLCV, len(timestamps))
	for i, ts := range timestamps {
		o, okO := number(opens, i)
		h, okH := number(highs, i)
		l, okL := number(lows, i)
		c, okC := number(closes, i)
		v, okV := number(volumes, i)
		if !okO || !okH || !okL || !okC || !okV {
			continue // Skip missing data
		}

		factor := 1.0
		if adj, ok := number(adjcloses, i); ok && c != 0 {
			factor = adj / c
		}

		t := time.Unix(ts.Int(), 0).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

		// Later rows for the same day replace earlier ones.
		byDay[day] = core.OHLCV{
			Symbol:   symbol,
			Interval: interval,
			Open:     o * factor,
			High:     h * factor,
			Low:      l * factor,
			Close:    c * factor,
			Volume:   int64(v),
			Time:     day,
		}
	}

	if len(byDay) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	data := make([]core.OHLCV, 0, len(byDay))
	for _, bar := range byDay {
		data = append(data, bar)
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Time.Before(data[j].Time) })

	return data, nil
}

func number(values []gjson.Result, i int) (float64, bool) {
	if i >= len(values) || values[i].Type != gjson.Number {
		return 0, false
	}
	return values[i].Float(), true
}

// exchangeLocation resolves the exchange time zone from chart metadata,
// falling back to the fixed GMT offset and then UTC.
func exchangeLocation(meta gjson.Result) *time.Location {
	if name := meta.Get("exchangeTimezoneName").String(); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if off := meta.Get("gmtoffset"); off.Exists() {
		return time.FixedZone(meta.Get("timezone").String(), int(off.Int()))
	}
	return time.UTC
}
