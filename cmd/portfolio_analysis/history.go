package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"portfolio_analysis/internal/history"
	"portfolio_analysis/internal/report"

	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	years int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "compare tickers indexed to 100" }
func (*historyCmd) Usage() string {
	return `history [-years <n>] <ticker>...

  Rebases the daily closes of each ticker to 100 at the start of the period and prints
  where each one ended, with its low and high.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.years, "years", 5, "Length of the period in years.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 || c.years < 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	tickers := make([]string, f.NArg())
	for i, t := range f.Args() {
		tickers[i] = strings.ToUpper(t)
	}

	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	series, err := history.Indexed(ctx, a.provider, tickers, c.years, time.Now(), a.cfg.Market.Concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching history: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := report.NewPrinter(os.Stdout).RenderHistory(series); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing history: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
