package metrics

import (
	"math"
	"testing"

	"portfolio_analysis/internal/models"

	"github.com/stretchr/testify/assert"
)

func rowsFor(t *testing.T) []models.Row {
	t.Helper()
	return []models.Row{
		derive(models.Holding{Ticker: "AAA", Shares: 3, CostBasisPerShare: 10}, 20, 18),
		derive(models.Holding{Ticker: "BBB", Shares: 1, CostBasisPerShare: 40}, 30, 32),
	}
}

func TestDerive(t *testing.T) {
	r := derive(models.Holding{Ticker: "AAA", Shares: 3, CostBasisPerShare: 10}, 20, 18)

	assert.Equal(t, 30.0, r.CostBasisTotal)
	assert.Equal(t, 60.0, r.Position)
	assert.Equal(t, 54.0, r.PrevPosition)
	assert.Equal(t, 6.0, r.DailyGainAbs)
	assert.InDelta(t, 6.0/54, r.DailyGainPct, tolerance)
	assert.Equal(t, 30.0, r.TotalGainAbs)
	assert.Equal(t, 1.0, r.TotalGainPct)
	assert.True(t, r.LatestPrice.Valid)
	assert.Equal(t, models.KindHolding, r.Kind)
}

func TestWeightedAverages(t *testing.T) {
	avg := WeightedAverages(rowsFor(t))

	assert.Equal(t, models.KindWeightedAverages, avg.Kind)
	assert.InDelta(t, 2.0, avg.Shares, tolerance)
	assert.InDelta(t, (10*3+40*1)/4.0, avg.CostBasisPerShare.Value, tolerance)
	assert.InDelta(t, (20*3+30*1)/4.0, avg.LatestPrice.Value, tolerance)
	assert.InDelta(t, (18*3+32*1)/4.0, avg.PrevClose.Value, tolerance)
	assert.InDelta(t, (60*3+30*1)/4.0, avg.Position, tolerance)
	assert.InDelta(t, (1.0*3+(-0.25)*1)/4.0, avg.TotalGainPct, tolerance)
	assert.Nil(t, avg.DayRange)
}

func TestWeightedAverages_AllZeroSharesIsNaN(t *testing.T) {
	rows := []models.Row{derive(models.Holding{Ticker: "AAA", Shares: 0, CostBasisPerShare: 10}, 20, 18)}
	avg := WeightedAverages(rows)
	assert.True(t, math.IsNaN(avg.LatestPrice.Value))
}

func TestTotals(t *testing.T) {
	rows := rowsFor(t)
	rows[0].PortfolioWeight, rows[1].PortfolioWeight = 2.0/3, 1.0/3

	totals := Totals(rows)

	assert.Equal(t, models.KindTotals, totals.Kind)
	assert.Equal(t, 4.0, totals.Shares)
	assert.Equal(t, 70.0, totals.CostBasisTotal)
	assert.Equal(t, 90.0, totals.Position)
	assert.Equal(t, 86.0, totals.PrevPosition)
	assert.Equal(t, 4.0, totals.DailyGainAbs)
	assert.InDelta(t, 4.0/86, totals.DailyGainPct, tolerance, "recomputed from sums")
	assert.InDelta(t, 20.0/70, totals.TotalGainPct, tolerance)
	assert.InDelta(t, 1.0, totals.PortfolioWeight, tolerance)
	assert.False(t, totals.CostBasisPerShare.Valid)
	assert.Equal(t, "", totals.LatestPrice.String())
}
