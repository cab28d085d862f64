package report

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Dollar formats v as US dollars, e.g. $1,234.56. Non-finite values print as NaN, +Inf or -Inf.
func Dollar(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// Percent formats a ratio as a percentage with two decimals, e.g. 0.0714 -> 7.14%.
func Percent(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// SignedPercent is Percent with an explicit + for gains.
func SignedPercent(v float64) string {
	if v > 0 && !math.IsInf(v, 1) {
		return "+" + Percent(v)
	}
	return Percent(v)
}

// Price formats a per-share price with two decimals.
func Price(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return fmt.Sprintf("%.2f", v)
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "+Inf", true
	case math.IsInf(v, -1):
		return "-Inf", true
	}
	return "", false
}
