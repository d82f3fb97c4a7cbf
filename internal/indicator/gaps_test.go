package indicator

import (
	"testing"
	"time"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(day int, low, high float64) core.OHLCV {
	return core.OHLCV{
		Low:  low,
		High: high,
		Time: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestGaps_UpAndDown(t *testing.T) {
	bars := []core.OHLCV{
		bar(1, 95, 100),
		bar(2, 102, 106), // up gap [100, 102]
		bar(3, 101, 105), // overlaps, no gap
		bar(4, 90, 99),   // down gap [99, 101]
	}

	gaps := Gaps(bars)
	require.Len(t, gaps, 2)

	assert.Equal(t, GapUp, gaps[0].Kind)
	assert.Equal(t, 100.0, gaps[0].Low)
	assert.Equal(t, 102.0, gaps[0].High)
	assert.Equal(t, bars[0].Time, gaps[0].From)
	assert.Equal(t, bars[1].Time, gaps[0].To)

	assert.Equal(t, GapDown, gaps[1].Kind)
	assert.Equal(t, 99.0, gaps[1].Low)
	assert.Equal(t, 101.0, gaps[1].High)
}

func TestGaps_TouchingIsNotAGap(t *testing.T) {
	bars := []core.OHLCV{bar(1, 95, 100), bar(2, 100, 104), bar(3, 90, 100)}
	assert.Empty(t, Gaps(bars))
}

func TestGaps_MutuallyExclusive(t *testing.T) {
	bars := make([]core.OHLCV, 60)
	for i := range bars {
		base := 100 + float64((i*13)%17) - 8
		bars[i] = bar(1+i%28, base-float64(i%3), base+float64(i%4))
	}

	for i := 1; i < len(bars); i++ {
		up := bars[i].Low > bars[i-1].High
		down := bars[i].High < bars[i-1].Low
		assert.False(t, up && down, "pair %d has both gap kinds", i)
	}

	for _, g := range Gaps(bars) {
		assert.Less(t, g.Low, g.High)
	}
}

func TestGaps_ShortSeries(t *testing.T) {
	assert.Empty(t, Gaps(nil))
	assert.Empty(t, Gaps([]core.OHLCV{bar(1, 1, 2)}))
}
