package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mode selects how updates are delivered from Telegram.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Bot     BotConfig
	Sheets  SheetsConfig
	Server  ServerConfig
	LogMode string
}

type BotConfig struct {
	Token    string
	AdminIDs []int64
	Mode     string
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON []byte
}

type ServerConfig struct {
	Port          string
	WebhookBase   string
	WebhookSecret string
}

// Load reads configuration from environment variables. It returns an error
// only for settings without which the process cannot start at all.
func Load() (*Config, error) {
	cfg := &Config{
		Bot: BotConfig{
			Token:    getEnv("BOT_TOKEN", ""),
			AdminIDs: getEnvIDs("ADMIN_IDS"),
			Mode:     getEnv("MODE", ModePolling),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
			CredentialsJSON: []byte(getEnv("GOOGLE_CREDENTIALS_JSON", "")),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			WebhookBase:   getEnv("WEBHOOK_BASE_URL", ""),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		},
		LogMode: getEnv("LOG_MODE", "production"),
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is not set")
	}
	if len(cfg.Sheets.CredentialsJSON) == 0 {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON is not set")
	}
	if cfg.Bot.Mode != ModePolling && cfg.Bot.Mode != ModeWebhook {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", ModePolling, ModeWebhook, cfg.Bot.Mode)
	}
	if cfg.Bot.Mode == ModeWebhook && cfg.Server.WebhookBase == "" {
		return nil, fmt.Errorf("WEBHOOK_BASE_URL is required in webhook mode")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvIDs parses a comma-separated list of numeric Telegram IDs,
// skipping anything that does not parse.
func getEnvIDs(key string) []int64 {
	raw := getEnv(key, "")
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
