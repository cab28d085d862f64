// Package metrics turns a holdings table and live quotes into the enriched portfolio:
// per-holding amounts and gains, portfolio weights, status flags and the two summary rows.
//
// Divisions follow IEEE-754: a zero previous position or cost basis yields ±Inf (or NaN
// for 0/0) in the matching percentage, and those values propagate into the summary rows
// untouched. Nothing is clamped or replaced.
package metrics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/models"

	"github.com/rs/zerolog"
)

// Engine computes portfolios. It holds no state between runs.
type Engine struct {
	cfg Config
	log zerolog.Logger
	now func() time.Time
}

// NewEngine returns an engine using cfg thresholds.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, log: log, now: time.Now}
}

// Validate checks the holdings table. It is run before any price is fetched.
func Validate(holdings []models.Holding) error {
	if len(holdings) == 0 {
		return fmt.Errorf("%w: no holdings", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(holdings))
	for i, h := range holdings {
		if strings.TrimSpace(h.Ticker) == "" {
			return fmt.Errorf("%w: row %d: empty ticker", ErrInvalidInput, i+1)
		}
		if h.Ticker == models.TotalsLabel || h.Ticker == models.WeightedAveragesLabel {
			return fmt.Errorf("%w: %q is reserved for summary rows", ErrInvalidInput, h.Ticker)
		}
		if seen[h.Ticker] {
			return fmt.Errorf("%w: duplicate ticker %q", ErrInvalidInput, h.Ticker)
		}
		seen[h.Ticker] = true

		if math.IsNaN(h.Shares) || math.IsInf(h.Shares, 0) || h.Shares < 0 {
			return fmt.Errorf("%w: %s: shares must be a non-negative number, got %v", ErrInvalidInput, h.Ticker, h.Shares)
		}
		if !models.IsFinite(h.CostBasisPerShare) || h.CostBasisPerShare < 0 {
			return fmt.Errorf("%w: %s: cost basis per share must be a finite non-negative number, got %v", ErrInvalidInput, h.Ticker, h.CostBasisPerShare)
		}
		if h.CostBasisPerShare == 0 && !h.IsCash() {
			return fmt.Errorf("%w: %s: zero cost basis per share", ErrInvalidInput, h.Ticker)
		}
	}
	return nil
}

// Compute prices the holdings with provider and returns the enriched portfolio.
// Pipeline: validate, fetch every quote, derive per-row metrics, weigh, classify, aggregate.
func (e *Engine) Compute(ctx context.Context, holdings []models.Holding, provider market.QuoteProvider) (*models.Portfolio, error) {
	if err := Validate(holdings); err != nil {
		return nil, err
	}

	var tickers []string
	for _, h := range holdings {
		if !h.IsCash() {
			tickers = append(tickers, h.Ticker)
		}
	}

	e.log.Debug().Int("tickers", len(tickers)).Msg("Fetching quotes")
	quotes, err := market.FetchQuotes(ctx, provider, tickers, e.cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}
	for ticker, q := range quotes {
		if !models.IsFinite(q.Latest) || q.Latest <= 0 || !models.IsFinite(q.PrevClose) || q.PrevClose < 0 {
			return nil, fmt.Errorf("%w: %s: unusable quote latest=%v prev_close=%v", ErrPriceUnavailable, ticker, q.Latest, q.PrevClose)
		}
	}

	return e.build(holdings, quotes), nil
}

// build runs the pure part of the pipeline once every quote is known.
func (e *Engine) build(holdings []models.Holding, quotes map[string]*models.Quote) *models.Portfolio {
	rows := make([]models.Row, len(holdings))
	cash := 0
	for i, h := range holdings {
		latest, prev := 1.0, 1.0
		var dayRange *models.DayRange
		if h.IsCash() {
			cash++
		} else {
			q := quotes[h.Ticker]
			latest, prev, dayRange = q.Latest, q.PrevClose, q.DayRange
		}
		rows[i] = derive(h, latest, prev)
		rows[i].DayRange = dayRange
	}

	value := 0.0
	for _, r := range rows {
		value += r.Position
	}
	// An empty portfolio weighs nothing; every holding gets weight 0.
	if value != 0 {
		for i := range rows {
			rows[i].PortfolioWeight = rows[i].Position / value
		}
	}

	excluded := 0
	if e.cfg.ExcludeCash {
		excluded = cash
	}
	target := TargetPercentage(len(rows), excluded, e.cfg.Buffer)
	for i := range rows {
		rows[i].Status = Classify(rows[i].PortfolioWeight, rows[i].TotalGainPct, target, e.cfg.TargetGain)
	}

	p := &models.Portfolio{
		Holdings:         rows,
		WeightedAverages: WeightedAverages(rows),
		Totals:           Totals(rows),
		TargetPercentage: target,
		AsOf:             e.now(),
	}

	e.log.Info().
		Int("holdings", len(rows)).
		Float64("value", p.Totals.Position).
		Float64("target_pct", target).
		Msg("Portfolio computed")
	return p
}

// derive computes the per-holding columns from shares and prices.
// Amounts are always shares × price, never set independently.
func derive(h models.Holding, latest, prevClose float64) models.Row {
	costBasis := h.Shares * h.CostBasisPerShare
	position := h.Shares * latest
	prevPosition := h.Shares * prevClose

	dailyGain := position - prevPosition
	totalGain := position - costBasis

	return models.Row{
		Ticker: h.Ticker,
		Kind:   models.KindHolding,

		Shares:            h.Shares,
		CostBasisPerShare: models.Some(h.CostBasisPerShare),
		CostBasisTotal:    costBasis,

		LatestPrice: models.Some(latest),
		Position:    position,

		PrevClose:    models.Some(prevClose),
		PrevPosition: prevPosition,

		DailyGainAbs: dailyGain,
		DailyGainPct: dailyGain / prevPosition,

		TotalGainAbs: totalGain,
		TotalGainPct: totalGain / costBasis,
	}
}
