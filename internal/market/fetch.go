package market

import (
	"context"
	"fmt"
	"sync"

	"portfolio_analysis/internal/models"
)

// FetchQuotes prices every ticker concurrently, at most concurrency requests in flight.
// It is all-or-nothing: the first failure cancels the remaining fetches and is returned.
func FetchQuotes(ctx context.Context, p QuoteProvider, tickers []string, concurrency int) (map[string]*models.Quote, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	quotes := make(map[string]*models.Quote, len(tickers))
	sem := make(chan struct{}, concurrency)

	for _, t := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}

			q, err := p.GetQuote(ctx, ticker)
			if err == nil && q == nil {
				err = ErrNoData
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", ticker, err)
					cancel()
				}
				return
			}
			quotes[ticker] = q
		}(t)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Cancellation from the caller leaves holes in the map.
	if err := ctx.Err(); err != nil && len(quotes) != len(tickers) {
		return nil, err
	}
	return quotes, nil
}
