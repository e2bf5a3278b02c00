package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultProfileURL = "https://www.linkedin.com/in/bishalbudhathoki/"

// Config carries everything the scraper and its collaborators need.
// Credentials are optional on purpose: their absence is a recoverable
// condition that routes a scrape to fallback data without launching a
// browser.
type Config struct {
	Email      string
	Password   string
	ProfileURL string
	DataDir    string
	ChromePath string
	Headless   bool
	Port       int
	Telegram   TelegramConfig
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Email:      os.Getenv("LINKEDIN_EMAIL"),
		Password:   os.Getenv("LINKEDIN_PASSWORD"),
		ProfileURL: os.Getenv("LINKEDIN_PROFILE_URL"),
		DataDir:    os.Getenv("DATA_DIR"),
		ChromePath: os.Getenv("CHROME_PATH"),
		Headless:   true,
		Port:       8080,
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		},
	}

	if cfg.ProfileURL == "" {
		cfg.ProfileURL = defaultProfileURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = b
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}

	return cfg
}

// HasCredentials reports whether both login credentials are configured.
func (c Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}
