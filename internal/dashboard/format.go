package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const missing = "-"

// Price formats v with two fixed decimals.
func Price(v float64) string {
	d, ok := toDecimal(v)
	if !ok {
		return missing
	}
	return d.StringFixed(2)
}

// Signed is Price with an explicit sign on positive values.
func Signed(v float64) string {
	d, ok := toDecimal(v)
	if !ok {
		return missing
	}
	s := d.StringFixed(2)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// Percent formats v as a two-decimal signed percentage.
func Percent(v float64) string {
	s := Signed(v)
	if s == missing {
		return s
	}
	return s + "%"
}

// Amount formats v with thousands separators and places decimals.
func Amount(v float64, places int32) string {
	d, ok := toDecimal(v)
	if !ok {
		return missing
	}
	return group(d.StringFixed(places))
}

// Volume formats an integer count with thousands separators.
func Volume(v int64) string {
	return group(strconv.FormatInt(v, 10))
}

func toDecimal(v float64) (decimal.Decimal, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

// group inserts thousands separators into the integer part of a plain
// decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	return sign + message.NewPrinter(language.English).Sprintf("%d", n) + frac
}
