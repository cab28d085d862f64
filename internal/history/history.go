// Package history compares tickers over the same period by rebasing their daily
// closes to 100 at the first bar.
package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/models"

	"golang.org/x/sync/errgroup"
)

// Base is the index value of the first bar.
const Base = 100.0

// Point is one indexed close.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is the indexed performance of one ticker.
type Series struct {
	Ticker string
	Points []Point
}

// First returns the first point; it is Base by construction.
func (s Series) First() Point { return s.Points[0] }

// Last returns the latest point.
func (s Series) Last() Point { return s.Points[len(s.Points)-1] }

// Min returns the lowest point.
func (s Series) Min() Point {
	return slices.MinFunc(s.Points, func(a, b Point) int { return compare(a.Value, b.Value) })
}

// Max returns the highest point.
func (s Series) Max() Point {
	return slices.MaxFunc(s.Points, func(a, b Point) int { return compare(a.Value, b.Value) })
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Index rebases bars to Base at the first bar.
func Index(ticker string, bars []models.Bar) (Series, error) {
	if len(bars) == 0 {
		return Series{}, fmt.Errorf("%s: %w", ticker, market.ErrNoData)
	}
	initial := bars[0].Close
	if !models.IsFinite(initial) || initial <= 0 {
		return Series{}, fmt.Errorf("%s: first close %v cannot be indexed", ticker, initial)
	}

	s := Series{Ticker: ticker, Points: make([]Point, len(bars))}
	for i, b := range bars {
		s.Points[i] = Point{Time: b.Time, Value: b.Close / initial * Base}
	}
	return s, nil
}

// Indexed fetches the daily bars of the last years for every ticker and indexes them.
// Series come back in the order of tickers; any failure aborts the whole call.
func Indexed(ctx context.Context, p market.HistoryProvider, tickers []string, years int, now time.Time, concurrency int) ([]Series, error) {
	if years < 1 {
		return nil, fmt.Errorf("years must be >= 1, got %d", years)
	}
	start := now.AddDate(-years, 0, 0)

	out := make([]Series, len(tickers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, ticker := range tickers {
		g.Go(func() error {
			bars, err := p.GetDailyBars(ctx, ticker, start)
			if err != nil {
				return fmt.Errorf("%s: %w", ticker, err)
			}
			s, err := Index(ticker, bars)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
