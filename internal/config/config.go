package config

import (
	"fmt"
	"os"
)

// Config is the typed view of the service environment. Load validates it
// eagerly so a misconfigured provider or channel fails at startup instead of
// on the first webhook.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	StableLinkAPIKey        string
	StableLinkBaseURL       string
	StableLinkWebhookSecret string
	CoinbaseWebhookSecret   string

	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string
	AdminEmail  string

	TelegramBotToken string
	TelegramChatID   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:     getenv("PORT", "8080"),
		MongoURI: os.Getenv("MONGOURI"),
		DBName:   getenv("MONGO_DBNAME", "scholarlinedb"),

		StableLinkAPIKey:        os.Getenv("STABLELINK_API_KEY"),
		StableLinkBaseURL:       getenv("STABLELINK_BASE_URL", "https://api.stablelink.io"),
		StableLinkWebhookSecret: os.Getenv("STABLELINK_WEBHOOK_SECRET"),
		CoinbaseWebhookSecret:   os.Getenv("COINBASE_WEBHOOK_SECRET"),

		EmailAPIURL: getenv("EMAIL_API_URL", "https://api.resend.com/emails"),
		EmailAPIKey: os.Getenv("EMAIL_API_KEY"),
		EmailFrom:   os.Getenv("EMAIL_FROM"),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI environment variable not set")
	}
	if cfg.StableLinkAPIKey != "" && cfg.StableLinkWebhookSecret == "" {
		return nil, fmt.Errorf("STABLELINK_WEBHOOK_SECRET must be set when STABLELINK_API_KEY is configured")
	}
	if partial(cfg.EmailAPIKey, cfg.EmailFrom, cfg.AdminEmail) {
		return nil, fmt.Errorf("email channel needs EMAIL_API_KEY, EMAIL_FROM and ADMIN_EMAIL all set, or none")
	}
	if partial(cfg.TelegramBotToken, cfg.TelegramChatID) {
		return nil, fmt.Errorf("telegram channel needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID both set, or none")
	}

	return cfg, nil
}

// EmailEnabled reports whether the email channel is fully configured.
func (c *Config) EmailEnabled() bool {
	return c.EmailAPIKey != "" && c.EmailFrom != "" && c.AdminEmail != ""
}

// TelegramEnabled reports whether the chat-bot channel is fully configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// partial reports whether some but not all of the values are set.
func partial(values ...string) bool {
	set := 0
	for _, v := range values {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < len(values)
}
