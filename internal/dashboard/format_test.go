package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "1005.00", Price(1005))
	assert.Equal(t, "0.10", Price(0.1))
	assert.Equal(t, "2.68", Price(2.675000001))
	assert.Equal(t, "-", Price(math.NaN()))
	assert.Equal(t, "-", Price(math.Inf(1)))
}

func TestSignedAndPercent(t *testing.T) {
	assert.Equal(t, "+5.00", Signed(5))
	assert.Equal(t, "-2.50", Signed(-2.5))
	assert.Equal(t, "0.00", Signed(0))
	assert.Equal(t, "+0.50%", Percent(0.5))
	assert.Equal(t, "-12.34%", Percent(-12.344))
	assert.Equal(t, "-", Percent(math.NaN()))
}

func TestAmountAndVolume(t *testing.T) {
	assert.Equal(t, "100,000", Amount(100000, 0))
	assert.Equal(t, "1,234,567.89", Amount(1234567.891, 2))
	assert.Equal(t, "-1,000", Amount(-1000, 0))
	assert.Equal(t, "999", Amount(999, 0))
	assert.Equal(t, "25,432,100", Volume(25432100))
	assert.Equal(t, "0", Volume(0))
}
