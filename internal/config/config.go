package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Environment selects the log encoder ("production" or anything else).
	Environment string

	// BotToken authenticates the Telegram bot. Required.
	BotToken string

	// OpenAIKey enables voice transcription and AI expense parsing.
	// Empty means the voice features degrade to "unavailable" messaging.
	OpenAIKey string

	// DatabaseURL is a PostgreSQL DSN. Empty means the embedded SQLite
	// file at SQLitePath is used instead.
	DatabaseURL string
	SQLitePath  string

	// StatusPort starts the HTTP status endpoint when non-empty.
	StatusPort string
}

// Load loads configuration from the environment, reading .env first if present.
// It fails when BOT_TOKEN is absent; everything else has a default or is optional.
func Load() (*Config, error) {
	// It's okay if .env doesn't exist, we'll use the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		BotToken:    os.Getenv("BOT_TOKEN"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "buildflow.db"),
		StatusPort:  os.Getenv("STATUS_PORT"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	return cfg, nil
}

// VoiceEnabled reports whether the AI voice features are configured.
func (c *Config) VoiceEnabled() bool {
	return c.OpenAIKey != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
