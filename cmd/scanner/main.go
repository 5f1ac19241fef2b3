package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Flxry/weather-bot/config"
	"github.com/Flxry/weather-bot/internal/adapters/notify"
	"github.com/Flxry/weather-bot/internal/adapters/openmeteo"
	"github.com/Flxry/weather-bot/internal/adapters/polymarket"
	"github.com/Flxry/weather-bot/internal/adapters/storage"
	"github.com/Flxry/weather-bot/internal/ledger"
	"github.com/Flxry/weather-bot/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	reset := flag.Bool("reset", false, "reset portfolio to defaults before starting")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables + portfolio (default: compact 1-line)")
	history := flag.Bool("history", false, "print closed trade history and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("weather-bot starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"auto_trade", cfg.Trading.AutoTrade,
		"once", *once,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lg, err := ledger.New(ctx, store, cfg.Settings())
	if err != nil {
		slog.Error("failed to init ledger", "err", err)
		os.Exit(1)
	}

	if *reset {
		lg.Reset(ctx)
		slog.Info("portfolio reset to defaults", "bankroll", lg.Bankroll())
	}

	notifier := notify.NewConsole(*table)

	if *history {
		notifier.PrintHistory(lg.Portfolio())
		return
	}

	markets := polymarket.NewClient(cfg.API.GammaBase)
	forecast := openmeteo.NewClient(cfg.API.OpenMeteoBase)

	scanCfg := scanner.DefaultConfig()
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.MaxMarkets = cfg.Scanner.MaxMarkets
	scanCfg.MarketDelay = cfg.MarketDelay()
	scanCfg.Once = *once

	s := scanner.New(scanCfg, markets, forecast, lg, store, notifier)

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("weather-bot stopped cleanly", "bankroll", lg.Bankroll())
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
