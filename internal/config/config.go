package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MarketSentinel/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string `yaml:"provider"` // yahoo, vstrader or mock
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		Symbol       string `yaml:"symbol"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Output struct {
		Dir          string `yaml:"dir"`
		TrailingRows int    `yaml:"trailing_rows"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Indicators Indicators `yaml:"indicators"`
	LogLevel   string     `yaml:"log_level"`
	Proxy      string     `yaml:"proxy"`
}

// Indicators overrides calculator.DefaultParams; zero values keep the default.
// BollingerMult is a pointer since 0 is a valid multiplier (bands on the MA).
type Indicators struct {
	BollingerWindow   int      `yaml:"bollinger_window"`
	BollingerMult     *float64 `yaml:"bollinger_mult"`
	RSIPeriod         int      `yaml:"rsi_period"`
	MACDFast          int      `yaml:"macd_fast"`
	MACDSlow          int      `yaml:"macd_slow"`
	MACDSignal        int      `yaml:"macd_signal"`
	CMFPeriod         int      `yaml:"cmf_period"`
	LevelWindow       int      `yaml:"level_window"`
	LevelRolling      int      `yaml:"level_rolling"`
	VolatilityWindow  int      `yaml:"volatility_window"`
	MinReturns        int      `yaml:"min_returns"`
	AnnualizationDays float64  `yaml:"annualization_days"`
	StdDev            string   `yaml:"std_dev"` // sample or population
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SENTINEL_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("SENTINEL_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_LOOKBACK_DAYS: %w", err)
		}
		cfg.DataSource.LookbackDays = days
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "vstrader"
		}
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "RHM.DE"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 180
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Output.TrailingRows == 0 {
		cfg.Output.TrailingRows = 120
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_sentinel.db"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9108"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Params merges the indicator overrides into calculator.DefaultParams.
func (c *Config) Params() calculator.Params {
	p := calculator.DefaultParams()
	ind := c.Indicators
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setInt(&p.BollingerWindow, ind.BollingerWindow)
	setInt(&p.RSIPeriod, ind.RSIPeriod)
	setInt(&p.MACDFast, ind.MACDFast)
	setInt(&p.MACDSlow, ind.MACDSlow)
	setInt(&p.MACDSignal, ind.MACDSignal)
	setInt(&p.CMFPeriod, ind.CMFPeriod)
	setInt(&p.LevelWindow, ind.LevelWindow)
	setInt(&p.LevelRolling, ind.LevelRolling)
	setInt(&p.VolatilityWindow, ind.VolatilityWindow)
	setInt(&p.MinReturns, ind.MinReturns)
	setInt(&p.TrailingRows, c.Output.TrailingRows)
	if ind.BollingerMult != nil {
		p.BollingerMult = *ind.BollingerMult
	}
	if ind.AnnualizationDays != 0 {
		p.AnnualizationDays = ind.AnnualizationDays
	}
	if ind.StdDev != "" {
		p.StdDev = calculator.StdDevConvention(ind.StdDev)
	}
	// a longer volatility window needs at least one more return than it spans
	if ind.VolatilityWindow != 0 && ind.MinReturns == 0 {
		p.MinReturns = p.VolatilityWindow + 1
	}
	return p
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).
		Parse(c.Schedule.DailyCron); err != nil {
		return fmt.Errorf("schedule.daily_cron: %w", err)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether snapshot summaries are sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
