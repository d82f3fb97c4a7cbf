package core

import "time"

// DateLayout is the calendar-day layout used across the API and CLI.
const DateLayout = "2006-01-02"

// OHLCV represents a daily candlestick/bar
type OHLCV struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"` // "1d", "1wk"
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	Time     time.Time `json:"time"`
}

// IsUp reports whether the bar closed at or above its open.
func (b OHLCV) IsUp() bool {
	return b.Close >= b.Open
}

// Date returns the bar's calendar day.
func (b OHLCV) Date() string {
	return b.Time.Format(DateLayout)
}

// Closes extracts closing prices in series order.
func Closes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts volumes in series order.
func Volumes(bars []OHLCV) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
