package alpaca

import (
	"context"
	"fmt"
	"time"

	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Days of daily bars requested to find the previous session; covers long weekends.
const lookbackDays = 10

var newYork = loadLocation("America/New_York")

// Provider implements the market interfaces for Alpaca.
type Provider struct {
	mdClient    *marketdata.Client
	tradeClient *alpaca.Client
	feed        marketdata.Feed
}

// Ensure Provider implements the interfaces
var (
	_ market.Provider      = (*Provider)(nil)
	_ market.ClockProvider = (*Provider)(nil)
)

// Options configures the Alpaca clients. Empty keys fall back to the APCA_* environment variables.
type Options struct {
	KeyID     string
	SecretKey string
	BaseURL   string
	Feed      string // "iex" (free plan) or "sip"
}

// NewProvider returns a new Alpaca provider.
func NewProvider(opts Options) *Provider {
	feed := marketdata.IEX
	if opts.Feed != "" {
		feed = marketdata.Feed(opts.Feed)
	}
	return &Provider{
		mdClient: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    opts.KeyID,
			APISecret: opts.SecretKey,
		}),
		tradeClient: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    opts.KeyID,
			APISecret: opts.SecretKey,
			BaseURL:   opts.BaseURL,
		}),
		feed: feed,
	}
}

// --- Market Data ---

// GetQuote prices a ticker from its latest trade and the daily bars around it.
func (p *Provider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trade, err := p.mdClient.GetLatestTrade(ticker, marketdata.GetLatestTradeRequest{Feed: p.feed})
	if err != nil {
		return nil, fmt.Errorf("latest trade: %w", err)
	}
	if trade == nil {
		return nil, market.ErrNoData
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := p.dailyBars(ticker, trade.Timestamp.AddDate(0, 0, -lookbackDays))
	if err != nil {
		return nil, err
	}

	prev, session := splitSession(bars, trade.Timestamp)
	if prev == nil {
		return nil, fmt.Errorf("no session before %s: %w", trade.Timestamp.In(newYork).Format("2006-01-02"), market.ErrNoData)
	}

	q := &models.Quote{
		Ticker:    ticker,
		Latest:    trade.Price,
		PrevClose: prev.Close,
		Timestamp: trade.Timestamp,
	}
	if session != nil {
		q.DayRange = &models.DayRange{Low: session.Low, High: session.High}
	}
	return q, nil
}

// GetDailyBars returns the daily bars of ticker from start until now.
func (p *Provider) GetDailyBars(ctx context.Context, ticker string, start time.Time) ([]models.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.dailyBars(ticker, start)
}

func (p *Provider) dailyBars(ticker string, start time.Time) ([]models.Bar, error) {
	bars, err := p.mdClient.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		Feed:      p.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("daily bars: %w", err)
	}

	result := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		result = append(result, models.Bar{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	return result, nil
}

// GetClock fetches the market clock (open/close status).
func (p *Provider) GetClock(ctx context.Context) (*models.Clock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := p.tradeClient.GetClock()
	if err != nil {
		return nil, err
	}
	return &models.Clock{
		Timestamp: c.Timestamp,
		IsOpen:    c.IsOpen,
		NextOpen:  c.NextOpen,
		NextClose: c.NextClose,
	}, nil
}

// --- Helpers ---

// splitSession finds, among bars sorted by time, the bar of the session the trade belongs to
// and the last bar strictly before that session. Sessions are compared by New York date.
func splitSession(bars []models.Bar, trade time.Time) (prev, session *models.Bar) {
	day := sessionDay(trade)
	for i := len(bars) - 1; i >= 0; i-- {
		d := sessionDay(bars[i].Time)
		switch {
		case d == day && session == nil:
			session = &bars[i]
		case d < day:
			return &bars[i], session
		}
	}
	return nil, session
}

func sessionDay(t time.Time) string {
	return t.In(newYork).Format("2006-01-02")
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Matches New York standard time; only hit on systems without tzdata.
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}
