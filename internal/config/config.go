package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// DefaultFile is the TOML file read when PORTFOLIO_CONFIG is not set.
const DefaultFile = "portfolio.toml"

// Price sources.
const (
	SourceAlpaca = "alpaca"
	SourceYahoo  = "yahoo"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Portfolio  PortfolioConfig  `toml:"portfolio"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Report     ReportConfig     `toml:"report"`
	Market     MarketConfig     `toml:"market"`
	Logging    LoggingConfig    `toml:"logging"`
	Basket     BasketConfig     `toml:"basket"`

	// Credentials only come from the environment.
	Alpaca   AlpacaConfig   `toml:"-"`
	Telegram TelegramConfig `toml:"-"`

	// warnings collects values that were ignored while loading; Log reports them.
	warnings []string
}

// PortfolioConfig locates the holdings file.
type PortfolioConfig struct {
	File string `toml:"file"`
}

// ThresholdsConfig drives the status classifier.
type ThresholdsConfig struct {
	Buffer      float64 `toml:"buffer"`
	TargetGain  float64 `toml:"target_gain"`
	ExcludeCash bool    `toml:"exclude_cash"`
}

// ReportConfig controls what a run prints and writes.
type ReportConfig struct {
	Benchmark string `toml:"benchmark"`
	TopN      int    `toml:"top_n"`
	WriteCSV  bool   `toml:"write_csv"`
	OutputDir string `toml:"output_dir"`
}

// MarketConfig selects the price source.
type MarketConfig struct {
	Source      string `toml:"source"`
	Concurrency int    `toml:"concurrency"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Pretty     bool   `toml:"pretty"`
	File       string `toml:"file"`
	MaxSizeMB  int64  `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// BasketConfig holds the dollar units of the buy/sell recommendations.
type BasketConfig struct {
	File       string  `toml:"file"`
	IRAUnit    float64 `toml:"ira_unit"`
	InvestUnit float64 `toml:"invest_unit"`
}

// AlpacaConfig holds the Alpaca API credentials.
type AlpacaConfig struct {
	KeyID     string
	SecretKey string
	BaseURL   string
	Feed      string
}

// TelegramConfig holds the optional notification credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether both credentials are set.
func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != "" }

// Load builds the configuration with priority: defaults -> TOML file -> .env -> environment.
// An empty path means PORTFOLIO_CONFIG, or DefaultFile when that is unset; only an
// explicitly named file has to exist.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	// .env never overrides variables already set in the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("PORTFOLIO_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func (c *Config) applyEnvOverrides() {
	c.Portfolio.File = getEnv("PORTFOLIO_FILE", c.Portfolio.File)

	c.Thresholds.Buffer = c.getEnvAsFloat64("PORTFOLIO_BUFFER", c.Thresholds.Buffer)
	c.Thresholds.TargetGain = c.getEnvAsFloat64("PORTFOLIO_TARGET_GAIN", c.Thresholds.TargetGain)
	c.Thresholds.ExcludeCash = c.getEnvAsBool("PORTFOLIO_EXCLUDE_CASH", c.Thresholds.ExcludeCash)

	c.Report.Benchmark = getEnv("PORTFOLIO_BENCHMARK", c.Report.Benchmark)
	c.Report.TopN = c.getEnvAsInt("PORTFOLIO_TOP_N", c.Report.TopN)
	c.Report.WriteCSV = c.getEnvAsBool("PORTFOLIO_WRITE_CSV", c.Report.WriteCSV)
	c.Report.OutputDir = getEnv("PORTFOLIO_OUTPUT_DIR", c.Report.OutputDir)

	c.Market.Source = strings.ToLower(getEnv("PRICE_SOURCE", c.Market.Source))
	c.Market.Concurrency = c.getEnvAsInt("FETCH_CONCURRENCY", c.Market.Concurrency)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Pretty = c.getEnvAsBool("LOG_PRETTY", c.Logging.Pretty)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
	c.Logging.MaxSizeMB = int64(c.getEnvAsInt("LOG_MAX_SIZE_MB", int(c.Logging.MaxSizeMB)))
	c.Logging.MaxBackups = c.getEnvAsInt("LOG_MAX_BACKUPS", c.Logging.MaxBackups)

	c.Basket.File = getEnv("BASKET_FILE", c.Basket.File)
	c.Basket.IRAUnit = c.getEnvAsFloat64("IRA_UNIT", c.Basket.IRAUnit)
	c.Basket.InvestUnit = c.getEnvAsFloat64("INVEST_UNIT", c.Basket.InvestUnit)

	c.Alpaca.KeyID = getEnv("APCA_API_KEY_ID", c.Alpaca.KeyID)
	c.Alpaca.SecretKey = getEnv("APCA_API_SECRET_KEY", c.Alpaca.SecretKey)
	c.Alpaca.BaseURL = getEnv("APCA_API_BASE_URL", c.Alpaca.BaseURL)
	c.Alpaca.Feed = getEnv("APCA_DATA_FEED", c.Alpaca.Feed)

	c.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", c.Telegram.ChatID)
}

// Validate rejects settings no run could work with.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(!math.IsNaN(c.Thresholds.Buffer) && c.Thresholds.Buffer >= 0, "buffer must be >= 0, got %v", c.Thresholds.Buffer)
	check(!math.IsNaN(c.Thresholds.TargetGain), "target gain must be a number")
	check(c.Report.TopN >= 0, "top n must be >= 0, got %d", c.Report.TopN)
	check(c.Market.Concurrency > 0, "fetch concurrency must be > 0, got %d", c.Market.Concurrency)
	check(c.Logging.MaxSizeMB > 0, "log max size must be > 0, got %d", c.Logging.MaxSizeMB)
	check(c.Basket.IRAUnit > 0 && c.Basket.InvestUnit > 0, "basket units must be > 0")

	switch c.Market.Source {
	case SourceAlpaca:
		check(c.Alpaca.KeyID != "" && c.Alpaca.SecretKey != "", "APCA_API_KEY_ID and APCA_API_SECRET_KEY are required for the alpaca price source")
	case SourceYahoo:
	default:
		check(false, "unknown price source %q", c.Market.Source)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Log prints the effective configuration, masking secrets, and any ignored values.
func (c *Config) Log(log zerolog.Logger) {
	for _, w := range c.warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Str("portfolio_file", c.Portfolio.File).
		Float64("buffer", c.Thresholds.Buffer).
		Float64("target_gain", c.Thresholds.TargetGain).
		Bool("exclude_cash", c.Thresholds.ExcludeCash).
		Str("benchmark", c.Report.Benchmark).
		Str("price_source", c.Market.Source).
		Int("concurrency", c.Market.Concurrency).
		Str("apca_key_id", mask(c.Alpaca.KeyID)).
		Str("apca_secret_key", mask(c.Alpaca.SecretKey)).
		Str("telegram_bot_token", mask(c.Telegram.BotToken)).
		Str("telegram_chat_id", mask(c.Telegram.ChatID)).
		Msg("Configuration loaded")
}

// mask hides a secret value: show only last 4 chars.
func mask(val string) string {
	if val == "" {
		return ""
	}
	if len(val) > 4 {
		return "***" + val[len(val)-4:]
	}
	return "***"
}
