package indicator

import "math"

// DefaultVolumeBins is the number of price bins in a volume profile.
const DefaultVolumeBins = 50

// VolumeBin accumulates traded volume for closes in [Low, High).
// The last bin of a profile is closed on both ends.
type VolumeBin struct {
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Volume int64   `json:"volume"`
}

// VolumeProfile bins volume by closing price across [min(close), max(close)].
// A flat price range yields a single bin holding all volume.
func VolumeProfile(closes []float64, volumes []int64, bins int) []VolumeBin {
	n := min(len(closes), len(volumes))
	if n == 0 || bins <= 0 {
		return nil
	}

	lo, hi := closes[0], closes[0]
	for _, c := range closes[:n] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}

	if hi == lo {
		var total int64
		for _, v := range volumes[:n] {
			total += v
		}
		return []VolumeBin{{Low: lo, High: hi, Volume: total}}
	}

	width := (hi - lo) / float64(bins)
	profile := make([]VolumeBin, bins)
	for i := range profile {
		profile[i].Low = lo + float64(i)*width
		profile[i].High = lo + float64(i+1)*width
	}
	profile[bins-1].High = hi

	for i := 0; i < n; i++ {
		profile[binIndex(closes[i], lo, width, bins)].Volume += volumes[i]
	}
	return profile
}

func binIndex(price, lo, width float64, bins int) int {
	idx := int(math.Floor((price - lo) / width))
	if idx < 0 {
		return 0
	}
	if idx >= bins {
		return bins - 1
	}
	return idx
}
