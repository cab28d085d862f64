package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Portfolio: PortfolioConfig{
			File: "portfolio.csv",
		},
		Thresholds: ThresholdsConfig{
			Buffer:      0.005,
			TargetGain:  0.10,
			ExcludeCash: true,
		},
		Report: ReportConfig{
			Benchmark: "SPY",
			TopN:      5,
			WriteCSV:  true,
			OutputDir: ".",
		},
		Market: MarketConfig{
			Source:      SourceAlpaca,
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Pretty:     true,
			File:       "portfolio.log",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Basket: BasketConfig{
			File:       "stocks.csv",
			IRAUnit:    40,
			InvestUnit: 20,
		},
		Alpaca: AlpacaConfig{
			Feed: "iex",
		},
	}
}
