package indicator

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdDev_Sample(t *testing.T) {
	// Sample std of [2,4,4,4,5,5,7,9] is sqrt(32/7).
	prices := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	std := StdDev(prices, 8)

	require.Len(t, std, 8)
	assert.False(t, std.Defined(6))
	assert.InDelta(t, math.Sqrt(32.0/7.0), std[7], 1e-12)
}

func TestStdDev_WindowTooSmall(t *testing.T) {
	std := StdDev([]float64{1, 2, 3}, 1)
	for i := range std {
		assert.False(t, std.Defined(i), "window 1 has no sample deviation")
	}
}

func TestBollinger_Values(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	bands := Bollinger(prices, 3, 2)

	// Window [1,2,3]: mean 2, sample std 1.
	want := Series{nan, nan, 4, 5, 6}
	opts := []cmp.Option{cmpopts.EquateNaNs(), cmpopts.EquateApprox(0, 1e-9)}
	if diff := cmp.Diff(want, bands.Upper, opts...); diff != "" {
		t.Errorf("upper mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Series{nan, nan, 0, 1, 2}, bands.Lower, opts...); diff != "" {
		t.Errorf("lower mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, bands.Period)
	assert.Equal(t, 2.0, bands.Multiplier)
}

func TestBollinger_Ordering(t *testing.T) {
	prices := make([]float64, 120)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i%7)
	}

	bands := Bollinger(prices, DefaultBollingerPeriod, DefaultBollingerMultiplier)
	for i := range prices {
		if !bands.Mid.Defined(i) {
			assert.Less(t, i, DefaultBollingerPeriod-1)
			continue
		}
		assert.LessOrEqual(t, bands.Lower[i], bands.Mid[i], "bar %d", i)
		assert.LessOrEqual(t, bands.Mid[i], bands.Upper[i], "bar %d", i)
		// Symmetric around mid.
		assert.InDelta(t, bands.Upper[i]-bands.Mid[i], bands.Mid[i]-bands.Lower[i], 1e-9)
	}
}

func TestBollinger_FlatSeriesCollapses(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100
	}
	bands := Bollinger(prices, 20, 2)
	last := len(prices) - 1
	assert.Equal(t, 100.0, bands.Upper[last])
	assert.Equal(t, 100.0, bands.Lower[last])
}
