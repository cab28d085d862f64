// Package yahoo prices holdings from Yahoo Finance through go-yfinance.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/models"

	"github.com/rs/zerolog"
	yfmodels "github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Provider implements market.Provider on top of go-yfinance.
type Provider struct {
	log zerolog.Logger
}

var _ market.Provider = (*Provider)(nil)

// NewProvider creates a new Yahoo Finance provider.
func NewProvider(log zerolog.Logger) *Provider {
	return &Provider{log: log.With().Str("client", "yahoo").Logger()}
}

// GetQuote returns the regular market price, the previous close and today's range.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	quote, err := t.Quote()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote == nil || quote.RegularMarketPrice <= 0 {
		return nil, market.ErrNoData
	}

	info, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}
	if info == nil || info.RegularMarketPreviousClose <= 0 {
		return nil, fmt.Errorf("previous close: %w", market.ErrNoData)
	}

	q := &models.Quote{
		Ticker:    symbol,
		Latest:    quote.RegularMarketPrice,
		PrevClose: info.RegularMarketPreviousClose,
		Timestamp: time.Now(),
	}

	// The day's range is only used for display, so a failure here is not fatal.
	bars, err := t.History(yfmodels.HistoryParams{Period: "1d", Interval: "1d"})
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get day range")
	} else if len(bars) > 0 {
		last := bars[len(bars)-1]
		q.DayRange = &models.DayRange{Low: last.Low, High: last.High}
	}

	return q, nil
}

// GetDailyBars fetches daily OHLCV bars covering start until now.
func (p *Provider) GetDailyBars(ctx context.Context, symbol string, start time.Time) ([]models.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(yfmodels.HistoryParams{
		Period:     period(time.Since(start)),
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	result := make([]models.Bar, 0, len(bars))
	for _, bar := range bars {
		if bar.Date.Before(start) {
			continue
		}
		result = append(result, models.Bar{
			Time:   bar.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	return result, nil
}

// period maps a lookback to the smallest Yahoo range string covering it.
func period(d time.Duration) string {
	days := int(d.Hours()/24) + 1
	switch {
	case days <= 5:
		return "5d"
	case days <= 31:
		return "1mo"
	case days <= 92:
		return "3mo"
	case days <= 183:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 2*366:
		return "2y"
	case days <= 5*366:
		return "5y"
	case days <= 10*366:
		return "10y"
	}
	return "max"
}
