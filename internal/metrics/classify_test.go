package metrics

import (
	"math"
	"testing"

	"portfolio_analysis/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTargetPercentage(t *testing.T) {
	assert.InDelta(t, 0.255, TargetPercentage(5, 1, 0.005), tolerance)
	assert.InDelta(t, 1.005, TargetPercentage(2, 1, 0.005), tolerance)
	assert.InDelta(t, 0.1, TargetPercentage(10, 0, 0), tolerance)
	assert.True(t, math.IsInf(TargetPercentage(1, 1, 0.005), 1), "only cash left")
	assert.True(t, math.IsInf(TargetPercentage(0, 0, 0.005), 1))
}

func TestClassify(t *testing.T) {
	const target, gain = 0.25, 0.10

	tests := []struct {
		name   string
		weight float64
		pct    float64
		want   models.Status
	}{
		{"under target with big gain", 0.2, 0.9, models.StatusNone},
		{"exactly at target", 0.25, 0.9, models.StatusNone},
		{"over target above target gain", 0.3, 0.11, models.StatusGo},
		{"over target at target gain", 0.3, 0.10, models.StatusWatch},
		{"over target small gain", 0.3, 0.01, models.StatusWatch},
		{"over target flat", 0.3, 0, models.StatusCaution},
		{"over target loss", 0.3, -0.2, models.StatusCaution},
		{"over target infinite gain", 0.3, math.Inf(1), models.StatusGo},
		{"over target NaN gain", 0.3, math.NaN(), models.StatusCaution},
		{"NaN weight", math.NaN(), 0.5, models.StatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.weight, tt.pct, target, gain))
		})
	}
}

func TestClassify_InfiniteTargetNeverFlags(t *testing.T) {
	assert.Equal(t, models.StatusNone, Classify(1, 5, math.Inf(1), 0.1))
}
