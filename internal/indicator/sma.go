package indicator

import (
	"encoding/json"
	"math"
)

// Series holds one value per source bar. Undefined values are NaN and
// encode as JSON null.
type Series []float64

// Defined reports whether the value at i has resolved.
func (s Series) Defined(i int) bool {
	return i >= 0 && i < len(s) && !math.IsNaN(s[i])
}

// Last returns the final value and whether it is defined.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 || math.IsNaN(s[len(s)-1]) {
		return 0, false
	}
	return s[len(s)-1], true
}

// MarshalJSON encodes NaN entries as null.
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(s))
	for i := range s {
		if !math.IsNaN(s[i]) {
			v := s[i]
			out[i] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null entries as NaN.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

func undefined(n int) Series {
	out := make(Series, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	for i := period; i <= len(prices); i++ {
		result = append(result, windowMean(prices[i-period:i]))
	}
	return result
}

// windowMean averages w as offsets from its first value with compensated
// summation. A window of equal values returns that value exactly.
func windowMean(w []float64) float64 {
	base := w[0]
	var sum, comp float64
	for _, p := range w[1:] {
		d := p - base
		t := sum + d
		if math.Abs(sum) >= math.Abs(d) {
			comp += (sum - t) + d
		} else {
			comp += (d - t) + sum
		}
		sum = t
	}
	return base + (sum+comp)/float64(len(w))
}

// MovingAverage is SMA aligned to the input: the first window-1 values are
// undefined.
func MovingAverage(prices []float64, window int) Series {
	out := undefined(len(prices))
	if window <= 0 || len(prices) < window {
		return out
	}
	copy(out[window-1:], SMA(prices, window))
	return out
}
