// Package basket suggests how many shares to buy or sell of each ticker so that every
// trade is worth one dollar unit split across the ticker's basket.
package basket

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidFile is returned when the basket file cannot be parsed.
var ErrInvalidFile = errors.New("invalid basket file")

// Side is the trade direction.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Account is the brokerage account a recommendation applies to.
type Account string

const (
	Investment Account = "INVESTMENT"
	IRA        Account = "IRA"
)

// Header columns of the basket file, one per account and side.
const (
	ColTicker     = "TICKER"
	ColInvestBuy  = "INVEST_BUY"
	ColIRABuy     = "IRA_BUY"
	ColInvestSell = "INVEST_SELL"
	ColIRASell    = "IRA_SELL"
)

// slot identifies one basket column.
type slot struct {
	side    Side
	account Account
	column  string
}

// Report order: buys before sells, investment account first.
var slots = []slot{
	{Buy, Investment, ColInvestBuy},
	{Buy, IRA, ColIRABuy},
	{Sell, Investment, ColInvestSell},
	{Sell, IRA, ColIRASell},
}

// Entry is one ticker and the size of each basket it belongs to.
// An invalid size means the ticker is not recommended for that account and side.
type Entry struct {
	Ticker string
	Sizes  map[string]decimal.NullDecimal // keyed by column
}

// Units are the dollar amounts of one buy unit per account. Sell units are half.
type Units struct {
	IRA    decimal.Decimal
	Invest decimal.Decimal
}

func (u Units) of(s slot) decimal.Decimal {
	unit := u.Invest
	if s.account == IRA {
		unit = u.IRA
	}
	if s.side == Sell {
		unit = unit.Div(decimal.NewFromInt(2))
	}
	return unit
}

// Line is one recommendation.
type Line struct {
	Ticker string
	Price  decimal.Decimal
	Shares decimal.Decimal
}

// Group holds the recommendations of one account and side, sorted by ticker.
type Group struct {
	Side    Side
	Account Account
	Lines   []Line
}

// Load reads the basket file at path.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Read parses a basket CSV. Entries are returned sorted by ticker.
func Read(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidFile, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{ColTicker, ColInvestBuy, ColIRABuy, ColInvestSell, ColIRASell} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidFile, col)
		}
	}

	var entries []Entry
	seen := make(map[string]bool)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		cell := func(col string) string {
			if i := idx[col]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		e := Entry{Ticker: strings.ToUpper(cell(ColTicker)), Sizes: make(map[string]decimal.NullDecimal)}
		if e.Ticker == "" {
			continue
		}
		if seen[e.Ticker] {
			return nil, fmt.Errorf("%w: duplicate ticker %s", ErrInvalidFile, e.Ticker)
		}
		seen[e.Ticker] = true

		for _, s := range slots {
			v := cell(s.column)
			if v == "" {
				continue
			}
			size, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s: %v", ErrInvalidFile, e.Ticker, s.column, err)
			}
			if !size.IsPositive() {
				return nil, fmt.Errorf("%w: %s %s: basket size must be positive, got %s", ErrInvalidFile, e.Ticker, s.column, v)
			}
			e.Sizes[s.column] = decimal.NewNullDecimal(size)
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Ticker, b.Ticker) })
	return entries, nil
}

// Recommend prices every ticker of entries and returns the four recommendation groups.
// Shares are unit / basket size / price.
func Recommend(ctx context.Context, p market.QuoteProvider, entries []Entry, units Units, concurrency int) ([]Group, error) {
	tickers := make([]string, len(entries))
	for i, e := range entries {
		tickers[i] = e.Ticker
	}
	quotes, err := market.FetchQuotes(ctx, p, tickers, concurrency)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(quotes))
	for ticker, q := range quotes {
		if !models.IsFinite(q.Latest) || q.Latest <= 0 {
			return nil, fmt.Errorf("%s: unusable price %v", ticker, q.Latest)
		}
		prices[ticker] = decimal.NewFromFloat(q.Latest)
	}

	groups := make([]Group, 0, len(slots))
	for _, s := range slots {
		g := Group{Side: s.side, Account: s.account}
		unit := units.of(s)
		for _, e := range entries {
			size := e.Sizes[s.column]
			if !size.Valid {
				continue
			}
			price := prices[e.Ticker]
			g.Lines = append(g.Lines, Line{
				Ticker: e.Ticker,
				Price:  price,
				Shares: unit.Div(size.Decimal).Div(price),
			})
		}
		groups = append(groups, g)
	}
	return groups, nil
}
