package main

import (
	"context"
	"flag"
	"fmt"

	"portfolio_analysis/internal/config"
	"portfolio_analysis/internal/logger"
	"portfolio_analysis/internal/market"
	"portfolio_analysis/internal/market/alpaca"
	"portfolio_analysis/internal/market/yahoo"
	"portfolio_analysis/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var configPath = flag.String("config", "", "TOML configuration file (default $PORTFOLIO_CONFIG or "+config.DefaultFile+")")

// app is what every subcommand needs: the configuration, a logger tagged with the
// run id, and the price source.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	provider market.Provider
	close    func() error
}

// setup loads and validates the configuration and builds the logger and price source.
func setup() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	log, closeLog := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	log = log.With().Str("run_id", uuid.NewString()).Logger()
	cfg.Log(log)

	if err := cfg.Validate(); err != nil {
		closeLog()
		return nil, err
	}

	a := &app{cfg: cfg, log: log, close: closeLog}
	switch cfg.Market.Source {
	case config.SourceYahoo:
		a.provider = yahoo.NewProvider(log)
	default:
		a.provider = alpaca.NewProvider(alpaca.Options{
			KeyID:     cfg.Alpaca.KeyID,
			SecretKey: cfg.Alpaca.SecretKey,
			BaseURL:   cfg.Alpaca.BaseURL,
			Feed:      cfg.Alpaca.Feed,
		})
	}
	return a, nil
}

func (a *app) metricsConfig() metrics.Config {
	return metrics.Config{
		Buffer:      a.cfg.Thresholds.Buffer,
		TargetGain:  a.cfg.Thresholds.TargetGain,
		ExcludeCash: a.cfg.Thresholds.ExcludeCash,
		Concurrency: a.cfg.Market.Concurrency,
	}
}

// logClock reports whether the market is open, when the source knows.
// Outside a session the latest price is the last close.
func (a *app) logClock(ctx context.Context) {
	cp, ok := a.provider.(market.ClockProvider)
	if !ok {
		return
	}
	clock, err := cp.GetClock(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to get market clock")
		return
	}
	if clock.IsOpen {
		a.log.Info().Time("next_close", clock.NextClose).Msg("Market is open")
		return
	}
	a.log.Info().Time("next_open", clock.NextOpen).Msg("Market is closed, prices are from the last session")
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
