package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio_analysis/internal/basket"
	"portfolio_analysis/internal/report"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// recommendCmd holds the flags for the 'recommend' subcommand.
type recommendCmd struct {
	file string
}

func (*recommendCmd) Name() string     { return "recommend" }
func (*recommendCmd) Synopsis() string { return "suggest share amounts to buy or sell per basket" }
func (*recommendCmd) Usage() string {
	return `recommend [-f <stocks.csv>]

  Reads the basket file (TICKER, INVEST_BUY, IRA_BUY, INVEST_SELL, IRA_SELL; a cell is
  the basket size, empty when not recommended) and prints how many shares make one
  dollar unit for each account. Sell units are half the buy units.
`
}

func (c *recommendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Basket CSV file. Defaults to the configured file.")
}

func (c *recommendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %v\n", f.Args())
		return subcommands.ExitUsageError
	}

	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	file := c.file
	if file == "" {
		file = a.cfg.Basket.File
	}
	entries, err := basket.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading baskets %q: %v\n", file, err)
		return subcommands.ExitFailure
	}

	units := basket.Units{
		IRA:    decimal.NewFromFloat(a.cfg.Basket.IRAUnit),
		Invest: decimal.NewFromFloat(a.cfg.Basket.InvestUnit),
	}
	groups, err := basket.Recommend(ctx, a.provider, entries, units, a.cfg.Market.Concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pricing baskets: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := report.NewPrinter(os.Stdout).RenderRecommendations(groups); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing recommendations: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
