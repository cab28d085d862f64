package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"portfolio_analysis/internal/holdings"
	"portfolio_analysis/internal/metrics"
	"portfolio_analysis/internal/report"
	"portfolio_analysis/internal/storage"
	"portfolio_analysis/internal/telegram"

	"github.com/google/subcommands"
)

// analyzeCmd holds the flags for the 'analyze' subcommand.
type analyzeCmd struct {
	files     stringList
	noCSV     bool
	notify    bool
	benchmark string
	top       int
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "price the portfolio and report gains, weights and status" }
func (*analyzeCmd) Usage() string {
	return `analyze [-f <portfolio.csv>]... [-no-csv] [-notify] [-benchmark <ticker>] [-top <n>]

  Prices every holding, prints the holdings table and the day's summary, and writes
  the dated snapshot "Performance DD-MM-YYYY.csv". Repeat -f to analyze several
  portfolios; their snapshots then go to one sub-directory each.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.files, "f", "Portfolio CSV file (repeatable). Defaults to the configured file.")
	f.BoolVar(&c.noCSV, "no-csv", false, "Do not write the snapshot file.")
	f.BoolVar(&c.notify, "notify", false, "Send the summary to Telegram.")
	f.StringVar(&c.benchmark, "benchmark", "", "Benchmark ticker. Defaults to the configured one.")
	f.IntVar(&c.top, "top", -1, "Number of top and bottom movers. Defaults to the configured number.")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	files := []string(c.files)
	if len(files) == 0 {
		files = []string{a.cfg.Portfolio.File}
	}
	names, err := portfolioNames(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	benchmark := a.cfg.Report.Benchmark
	if c.benchmark != "" {
		benchmark = strings.ToUpper(c.benchmark)
	}
	topN := a.cfg.Report.TopN
	if c.top >= 0 {
		topN = c.top
	}

	var notifier *telegram.Notifier
	if c.notify {
		notifier = telegram.NewNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.log)
	}

	a.logClock(ctx)

	engine := metrics.NewEngine(a.metricsConfig(), a.log)
	printer := report.NewPrinter(os.Stdout)

	for i, file := range files {
		name := names[i]
		log := a.log.With().Str("portfolio", name).Logger()

		rows, err := holdings.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading portfolio %q: %v\n", file, err)
			return subcommands.ExitFailure
		}

		p, err := engine.Compute(ctx, rows, a.provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analyzing %q: %v\n", file, err)
			return subcommands.ExitFailure
		}

		s := report.NewSummary(name, p, benchmark, topN)
		if err := printer.Render(p, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
			return subcommands.ExitFailure
		}

		if a.cfg.Report.WriteCSV && !c.noCSV {
			dir := a.cfg.Report.OutputDir
			if len(files) > 1 {
				dir = filepath.Join(dir, name)
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", dir, err)
				return subcommands.ExitFailure
			}
			path, err := storage.WriteSnapshot(dir, p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
				return subcommands.ExitFailure
			}
			log.Info().Str("path", path).Msg("Snapshot written")
		}

		// A failed notification does not fail the run; the report is already out.
		if err := notifier.Notify(ctx, report.Text(s)); err != nil {
			log.Error().Err(err).Msg("Telegram notification failed")
		}
	}
	return subcommands.ExitSuccess
}

// portfolioNames names each portfolio after its file. Names also select the snapshot
// sub-directory, so two files with the same base name are rejected.
func portfolioNames(files []string) ([]string, error) {
	names := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("portfolios %q and %q share the name %q; rename one of them", prev, file, name)
		}
		seen[name] = file
		names[i] = name
	}
	return names, nil
}
