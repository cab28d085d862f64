package metrics

import (
	"math"

	"portfolio_analysis/internal/models"
)

// TargetPercentage is the even share of a portfolio of n holdings, excluding the given
// number of sentinel rows, plus buffer. With no holdings left in the baseline it is +Inf,
// so that nothing is ever flagged.
func TargetPercentage(n, excluded int, buffer float64) float64 {
	base := n - excluded
	if base <= 0 {
		return math.Inf(1)
	}
	return 1/float64(base) + buffer
}

// Classify flags a holding whose weight exceeds target. The first matching rule wins:
//
//	weight <= target        none
//	gain > targetGain       go
//	gain > 0                watch
//	otherwise               caution
//
// A NaN weight never exceeds target; a NaN gain on an overweight holding is caution.
func Classify(weight, totalGainPct, target, targetGain float64) models.Status {
	if !(weight > target) {
		return models.StatusNone
	}
	if totalGainPct > targetGain {
		return models.StatusGo
	}
	if totalGainPct > 0 {
		return models.StatusWatch
	}
	return models.StatusCaution
}
