package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SOURCE_PROVIDER", "APIFY_API_TOKEN", "APIFY_ACTOR", "RSS_BRIDGE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"DATABASE_PATH", "ACCOUNTS_PATH", "RESULTS_LIMIT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APIFY_API_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		SourceProvider: ProviderApify,
		ApifyToken:     "tok",
		ApifyActor:     "apify~instagram-post-scraper",
		DatabasePath:   "./data/monitor.db",
		AccountsPath:   "./accounts.txt",
		ResultsLimit:   2,
		LogLevel:       "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.NotificationsEnabled() {
		t.Error("expected notifications disabled without credentials")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "apify provider without token",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "rss provider requires placeholder",
			env: map[string]string{
				"SOURCE_PROVIDER": "rss",
				"RSS_BRIDGE_URL":  "https://bridge.example.com/instagram/reels",
			},
			wantErr: true,
		},
		{
			name: "rss provider with placeholder",
			env: map[string]string{
				"SOURCE_PROVIDER": "rss",
				"RSS_BRIDGE_URL":  "https://bridge.example.com/instagram/%s/reels",
			},
		},
		{
			name: "unknown provider",
			env: map[string]string{
				"SOURCE_PROVIDER": "carrier-pigeon",
			},
			wantErr: true,
		},
		{
			name: "invalid results limit",
			env: map[string]string{
				"APIFY_API_TOKEN": "tok",
				"RESULTS_LIMIT":   "zero",
			},
			wantErr: true,
		},
		{
			name: "invalid chat id",
			env: map[string]string{
				"APIFY_API_TOKEN":  "tok",
				"TELEGRAM_CHAT_ID": "not-a-number",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadTelegramCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("APIFY_API_TOKEN", "tok")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.NotificationsEnabled() {
		t.Error("expected notifications enabled")
	}
	if cfg.TelegramChatID != -100123456 {
		t.Errorf("chat id mismatch: %d", cfg.TelegramChatID)
	}
}

func TestReadAccounts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain usernames",
			content: "alpha\nbeta\n",
			want:    []string{"alpha", "beta"},
		},
		{
			name:    "comments, blanks and at-prefixes",
			content: "# monitored accounts\n\n@alpha\n  beta  \n# trailing comment\n",
			want:    []string{"alpha", "beta"},
		},
		{
			name:    "only comments",
			content: "# nothing here\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "accounts.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write accounts file: %v", err)
			}

			got, err := ReadAccounts(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("accounts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadAccountsMissingFile(t *testing.T) {
	if _, err := ReadAccounts(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
