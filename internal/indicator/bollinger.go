package indicator

import "math"

const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// Bands is a Bollinger envelope aligned to the source series.
type Bands struct {
	Period     int     `json:"period"`
	Multiplier float64 `json:"multiplier"`
	Mid        Series  `json:"mid"`
	Upper      Series  `json:"upper"`
	Lower      Series  `json:"lower"`
}

// StdDev is the trailing sample standard deviation (n-1 denominator) over
// window bars. Windows shorter than 2 never resolve.
func StdDev(prices []float64, window int) Series {
	out := undefined(len(prices))
	if window < 2 || len(prices) < window {
		return out
	}
	for i := window - 1; i < len(prices); i++ {
		seg := prices[i-window+1 : i+1]
		var sum float64
		for _, p := range seg {
			sum += p
		}
		mean := sum / float64(window)
		var ss float64
		for _, p := range seg {
			ss += (p - mean) * (p - mean)
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// Bollinger computes mid = SMA(period) and upper/lower = mid ± multiplier*stddev.
func Bollinger(prices []float64, period int, multiplier float64) Bands {
	mid := MovingAverage(prices, period)
	std := StdDev(prices, period)

	upper := undefined(len(prices))
	lower := undefined(len(prices))
	for i := range prices {
		if !mid.Defined(i) || !std.Defined(i) {
			continue
		}
		width := multiplier * std[i]
		upper[i] = mid[i] + width
		lower[i] = mid[i] - width
	}

	return Bands{
		Period:     period,
		Multiplier: multiplier,
		Mid:        mid,
		Upper:      upper,
		Lower:      lower,
	}
}
