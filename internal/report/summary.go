// Package report turns an enriched portfolio into what a person reads: the summary
// figures, the console tables and the notification text.
package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"portfolio_analysis/internal/models"
)

// Mover is a holding ranked by its daily change.
type Mover struct {
	Ticker       string
	DailyGainPct float64
}

// Benchmark compares the portfolio day with one held ticker.
type Benchmark struct {
	Ticker       string
	DailyGainPct float64
	// Spread is the portfolio daily percentage minus the benchmark's.
	Spread float64
}

// Summary holds the headline figures of a run.
type Summary struct {
	Name string
	AsOf time.Time

	Value        float64
	DailyGainAbs float64
	DailyGainPct float64
	TotalGainAbs float64
	TotalGainPct float64
	Target       float64

	// Benchmark is nil when the benchmark ticker is not held.
	Benchmark *Benchmark

	Top        []Mover
	Bottom     []Mover
	Highlights []string
}

// NewSummary computes the summary of p. Movers leave out cash and list at most topN each way.
func NewSummary(name string, p *models.Portfolio, benchmark string, topN int) Summary {
	s := Summary{
		Name:         name,
		AsOf:         p.AsOf,
		Value:        p.Totals.Position,
		DailyGainAbs: p.Totals.DailyGainAbs,
		DailyGainPct: p.Totals.DailyGainPct,
		TotalGainAbs: p.Totals.TotalGainAbs,
		TotalGainPct: p.Totals.TotalGainPct,
		Target:       p.TargetPercentage,
		Highlights:   Highlights(p),
	}

	if row, ok := p.Holding(benchmark); ok && benchmark != "" {
		s.Benchmark = &Benchmark{
			Ticker:       benchmark,
			DailyGainPct: row.DailyGainPct,
			Spread:       s.DailyGainPct - row.DailyGainPct,
		}
	}

	var movers []Mover
	for _, r := range p.Holdings {
		if !r.IsCash() {
			movers = append(movers, Mover{Ticker: r.Ticker, DailyGainPct: r.DailyGainPct})
		}
	}
	s.Top = rank(movers, topN, true)
	s.Bottom = rank(movers, topN, false)
	return s
}

// rank sorts a copy of movers by daily change and keeps the first n. NaN always sorts last.
func rank(movers []Mover, n int, descending bool) []Mover {
	sorted := slices.Clone(movers)
	slices.SortStableFunc(sorted, func(a, b Mover) int {
		an, bn := math.IsNaN(a.DailyGainPct), math.IsNaN(b.DailyGainPct)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		if descending {
			return cmp.Compare(b.DailyGainPct, a.DailyGainPct)
		}
		return cmp.Compare(a.DailyGainPct, b.DailyGainPct)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Highlights lists the holdings flagged go, in portfolio order.
func Highlights(p *models.Portfolio) []string {
	var out []string
	for _, r := range p.Holdings {
		if r.Status == models.StatusGo {
			out = append(out, r.Ticker)
		}
	}
	return out
}

// ErrorBar is the day range of a holding relative to its daily change:
// the price could have closed Low below or High above the current change.
type ErrorBar struct {
	Ticker       string
	Weight       float64
	DailyGainPct float64
	Low          float64
	High         float64
}

// ErrorBars returns the day-range bars of every priced holding that has a day range,
// heaviest weight first.
func ErrorBars(p *models.Portfolio) []ErrorBar {
	var bars []ErrorBar
	for _, r := range p.Holdings {
		if r.IsCash() || r.DayRange == nil || !r.PrevClose.Valid {
			continue
		}
		prev := r.PrevClose.Value
		lowDelta := (r.DayRange.Low - prev) / prev
		highDelta := (r.DayRange.High - prev) / prev
		bars = append(bars, ErrorBar{
			Ticker:       r.Ticker,
			Weight:       r.PortfolioWeight,
			DailyGainPct: r.DailyGainPct,
			Low:          r.DailyGainPct - lowDelta,
			High:         highDelta - r.DailyGainPct,
		})
	}
	slices.SortStableFunc(bars, func(a, b ErrorBar) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return bars
}
