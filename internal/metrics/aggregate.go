package metrics

import (
	"portfolio_analysis/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// column extracts one numeric field of every row.
func column(rows []models.Row, field func(models.Row) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = field(r)
	}
	return out
}

// WeightedAverages builds the summary row whose numeric fields are the share-weighted
// mean Σ(value·shares)/Σ(shares) of the holdings. Shares itself is the plain mean.
// rows must be holdings only; summary rows are never fed back in.
func WeightedAverages(rows []models.Row) models.Row {
	shares := column(rows, func(r models.Row) float64 { return r.Shares })
	avg := func(field func(models.Row) float64) float64 {
		return stat.Mean(column(rows, field), shares)
	}

	return models.Row{
		Ticker: models.WeightedAveragesLabel,
		Kind:   models.KindWeightedAverages,

		Shares:            stat.Mean(shares, nil),
		CostBasisPerShare: models.Some(avg(func(r models.Row) float64 { return r.CostBasisPerShare.Value })),
		CostBasisTotal:    avg(func(r models.Row) float64 { return r.CostBasisTotal }),

		LatestPrice: models.Some(avg(func(r models.Row) float64 { return r.LatestPrice.Value })),
		Position:    avg(func(r models.Row) float64 { return r.Position }),

		PrevClose:    models.Some(avg(func(r models.Row) float64 { return r.PrevClose.Value })),
		PrevPosition: avg(func(r models.Row) float64 { return r.PrevPosition }),

		DailyGainAbs: avg(func(r models.Row) float64 { return r.DailyGainAbs }),
		DailyGainPct: avg(func(r models.Row) float64 { return r.DailyGainPct }),

		TotalGainAbs: avg(func(r models.Row) float64 { return r.TotalGainAbs }),
		TotalGainPct: avg(func(r models.Row) float64 { return r.TotalGainPct }),

		PortfolioWeight: avg(func(r models.Row) float64 { return r.PortfolioWeight }),
	}
}

// Totals builds the summary row of plain sums. The gain percentages are recomputed from
// the summed amounts, not averaged. rows must be holdings only.
func Totals(rows []models.Row) models.Row {
	sum := func(field func(models.Row) float64) float64 {
		return floats.Sum(column(rows, field))
	}

	costBasis := sum(func(r models.Row) float64 { return r.CostBasisTotal })
	position := sum(func(r models.Row) float64 { return r.Position })
	prevPosition := sum(func(r models.Row) float64 { return r.PrevPosition })

	dailyGain := position - prevPosition
	totalGain := position - costBasis

	return models.Row{
		Ticker: models.TotalsLabel,
		Kind:   models.KindTotals,

		Shares:         sum(func(r models.Row) float64 { return r.Shares }),
		CostBasisTotal: costBasis,
		Position:       position,
		PrevPosition:   prevPosition,

		DailyGainAbs: dailyGain,
		DailyGainPct: dailyGain / prevPosition,

		TotalGainAbs: totalGain,
		TotalGainPct: totalGain / costBasis,

		PortfolioWeight: sum(func(r models.Row) float64 { return r.PortfolioWeight }),
	}
}
