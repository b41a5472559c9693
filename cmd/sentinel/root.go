package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"MarketSentinel/internal/collector"
	"MarketSentinel/internal/config"
	"MarketSentinel/internal/notifier"
	"MarketSentinel/internal/recorder"
)

var log = logrus.WithField("component", "main")

var (
	configPath string
	dotenvFile string
)

var RootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "daily technical snapshot of one instrument",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	RootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to the yaml config")
	RootCmd.PersistentFlags().StringVar(&dotenvFile, "dotenv", ".env.local", "dotenv file loaded before the config")
	RootCmd.AddCommand(runCmd, serveCmd)
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(dotenvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "vstrader":
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		return &collector.MockFetcher{Price: 100, Volume: 1000000}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

// sinks holds the combined recorder plus the members callers use directly.
type sinks struct {
	all      recorder.MultiRecorder
	files    *recorder.FileRecorder
	telegram *notifier.TelegramNotifier
}

// newRecorder wires every configured sink. A database that cannot be opened
// is logged and skipped; the file exports still run.
func newRecorder(cfg *config.Config) sinks {
	files := recorder.NewFileRecorder(cfg.Output.Dir, cfg.Output.TrailingRows)
	out := sinks{all: recorder.MultiRecorder{files}, files: files}

	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, snapshots are not kept in the database")
		} else {
			out.all = append(out.all, sr)
		}
	}

	if cfg.TelegramEnabled() {
		out.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		out.all = append(out.all, out.telegram)
	}
	return out
}

func newCollector(cfg *config.Config) *collector.Collector {
	fetcher := newFetcher(cfg)
	log.Infof("data source: %s, symbol: %s", fetcher.Name(), cfg.DataSource.Symbol)
	return collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.LookbackDays, cfg.Params())
}
