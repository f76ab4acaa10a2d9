// Package config handles application configuration from environment variables
// and the accounts file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Source provider names.
const (
	ProviderApify = "apify"
	ProviderRSS   = "rss"
)

// Config holds the application configuration.
type Config struct {
	SourceProvider string
	ApifyToken     string
	ApifyActor     string
	RSSBridgeURL   string

	TelegramBotToken string
	TelegramChatID   int64

	DatabasePath string
	AccountsPath string
	ResultsLimit int
	LogLevel     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		SourceProvider: envOrDefault("SOURCE_PROVIDER", ProviderApify),
		ApifyToken:     os.Getenv("APIFY_API_TOKEN"),
		ApifyActor:     envOrDefault("APIFY_ACTOR", "apify~instagram-post-scraper"),
		RSSBridgeURL:   os.Getenv("RSS_BRIDGE_URL"),
		DatabasePath:   envOrDefault("DATABASE_PATH", "./data/monitor.db"),
		AccountsPath:   envOrDefault("ACCOUNTS_PATH", "./accounts.txt"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		ResultsLimit:   2,
	}

	switch cfg.SourceProvider {
	case ProviderApify:
		if cfg.ApifyToken == "" {
			return nil, fmt.Errorf("APIFY_API_TOKEN is required for the apify provider")
		}
	case ProviderRSS:
		if !strings.Contains(cfg.RSSBridgeURL, "%s") {
			return nil, fmt.Errorf("RSS_BRIDGE_URL must contain a %%s username placeholder")
		}
	default:
		return nil, fmt.Errorf("unknown SOURCE_PROVIDER %q", cfg.SourceProvider)
	}

	if raw := os.Getenv("RESULTS_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid RESULTS_LIMIT %q", raw)
		}
		cfg.ResultsLimit = n
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

// NotificationsEnabled reports whether Telegram credentials are configured.
// Runs without them still persist posts; they just skip the report.
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// ReadAccounts reads the monitored account list, one username per line.
// Blank lines and # comments are skipped; a leading @ is stripped.
func ReadAccounts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accounts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var accounts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		accounts = append(accounts, strings.TrimPrefix(line, "@"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts found in %s", path)
	}
	return accounts, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
