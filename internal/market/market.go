package market

import (
	"context"
	"errors"
	"time"

	"portfolio_analysis/internal/models"
)

// ErrNoData is returned by providers that answered but had nothing for the ticker.
var ErrNoData = errors.New("no market data")

// QuoteProvider is the price source of a run.
// Any struct with a GetQuote method satisfies it, which lets us swap Alpaca for Yahoo,
// or a fake for testing, without changing the code that prices the portfolio.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// ClockProvider is implemented by sources that know whether the market is open.
type ClockProvider interface {
	GetClock(ctx context.Context) (*models.Clock, error)
}

// HistoryProvider returns daily bars from start until now.
type HistoryProvider interface {
	GetDailyBars(ctx context.Context, ticker string, start time.Time) ([]models.Bar, error)
}

// Provider is a full price source.
type Provider interface {
	QuoteProvider
	HistoryProvider
}
