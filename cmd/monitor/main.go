package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"reels_monitor/internal/config"
	"reels_monitor/internal/notify"
	"reels_monitor/internal/pipeline"
	"reels_monitor/internal/source"
	"reels_monitor/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	accounts, err := config.ReadAccounts(cfg.AccountsPath)
	if err != nil {
		log.Error("read accounts", "path", cfg.AccountsPath, "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	src := newSource(cfg)
	pipe := pipeline.New(src, store, cfg.ResultsLimit, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting run", "accounts", len(accounts), "provider", cfg.SourceProvider)

	discovered, err := pipe.Run(ctx, accounts)
	if err != nil {
		log.Error("run failed", "error", err, "discovered_before_failure", len(discovered))
		os.Exit(1)
	}

	log.Info("run complete", "new_posts", len(discovered))

	if len(discovered) == 0 {
		return
	}
	if !cfg.NotificationsEnabled() {
		log.Warn("telegram credentials not configured, skipping report")
		return
	}

	reporter, err := notify.New(cfg.TelegramBotToken, cfg.TelegramChatID, log)
	if err != nil {
		log.Error("create reporter", "error", err)
		return
	}
	if err := reporter.SendReport(ctx, discovered); err != nil {
		log.Error("send report", "error", err)
		return
	}
	log.Info("report sent", "posts", len(discovered))
}

func newSource(cfg *config.Config) source.Source {
	if cfg.SourceProvider == config.ProviderRSS {
		return source.NewRSSBridge(http.DefaultClient, cfg.RSSBridgeURL)
	}
	return source.NewApifyClient(http.DefaultClient, cfg.ApifyToken, cfg.ApifyActor)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
