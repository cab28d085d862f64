package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portfolio_analysis/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves fixed quotes and counts calls.
type fakeProvider struct {
	mu       sync.Mutex
	quotes   map[string]models.Quote
	fail     map[string]error
	calls    map[string]int
	inFlight int32
	peak     int32
	delay    time.Duration
}

func (f *fakeProvider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[ticker]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.fail[ticker]; ok {
		return nil, err
	}
	q, ok := f.quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %s", ticker)
	}
	return &q, nil
}

func TestFetchQuotes_All(t *testing.T) {
	p := &fakeProvider{quotes: map[string]models.Quote{
		"AAPL": {Ticker: "AAPL", Latest: 150, PrevClose: 140},
		"MSFT": {Ticker: "MSFT", Latest: 300, PrevClose: 310},
		"SPY":  {Ticker: "SPY", Latest: 450, PrevClose: 445},
	}}

	quotes, err := FetchQuotes(context.Background(), p, []string{"AAPL", "MSFT", "SPY"}, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, 150.0, quotes["AAPL"].Latest)
	assert.Equal(t, 310.0, quotes["MSFT"].PrevClose)

	for _, ticker := range []string{"AAPL", "MSFT", "SPY"} {
		assert.Equal(t, 1, p.calls[ticker], "each ticker is queried exactly once")
	}
}

func TestFetchQuotes_RespectsConcurrency(t *testing.T) {
	p := &fakeProvider{
		quotes: map[string]models.Quote{},
		delay:  10 * time.Millisecond,
	}
	var tickers []string
	for i := 0; i < 12; i++ {
		ticker := fmt.Sprintf("T%02d", i)
		tickers = append(tickers, ticker)
		p.quotes[ticker] = models.Quote{Ticker: ticker, Latest: 1, PrevClose: 1}
	}

	_, err := FetchQuotes(context.Background(), p, tickers, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&p.peak), int32(3))
}

func TestFetchQuotes_FailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	p := &fakeProvider{
		quotes: map[string]models.Quote{"AAPL": {Latest: 1, PrevClose: 1}},
		fail:   map[string]error{"BAD": boom},
	}

	quotes, err := FetchQuotes(context.Background(), p, []string{"AAPL", "BAD"}, 1)
	require.Error(t, err)
	assert.Nil(t, quotes)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "BAD")
}

func TestFetchQuotes_NilQuoteIsNoData(t *testing.T) {
	p := nilProvider{}
	_, err := FetchQuotes(context.Background(), p, []string{"AAPL"}, 1)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchQuotes_CanceledContext(t *testing.T) {
	p := &fakeProvider{quotes: map[string]models.Quote{"AAPL": {Latest: 1}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchQuotes(ctx, p, []string{"AAPL"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

type nilProvider struct{}

func (nilProvider) GetQuote(context.Context, string) (*models.Quote, error) { return nil, nil }
