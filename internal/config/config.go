// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollInterval = 600 * time.Second
	DefaultLogLevel     = "debug"
	DefaultLogFile      = "homework.log"
	DefaultDatabasePath = "./data/homework.db"
)

// Config holds the application configuration.
type Config struct {
	PracticumToken   string
	TelegramBotToken string
	ChatID           int64
	Endpoint         string
	PollInterval     time.Duration
	FromDate         int64
	LogLevel         string
	LogFile          string
	DatabasePath     string
}

// LogSettings returns the log level and log file path. They are read
// separately from Load so the logger exists before secrets are validated.
func LogSettings() (level, file string) {
	_ = godotenv.Load()
	return strings.ToLower(envOrDefault("LOG_LEVEL", DefaultLogLevel)), envOrDefault("LOG_FILE", DefaultLogFile)
}

// Load reads configuration from the environment and an optional .env file.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	practicumToken := os.Getenv("YP_TOKEN")
	if practicumToken == "" {
		return nil, fmt.Errorf("YP_TOKEN is required")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	rawChatID := strings.TrimSpace(os.Getenv("MY_CHAT_ID"))
	if rawChatID == "" {
		return nil, fmt.Errorf("MY_CHAT_ID is required")
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MY_CHAT_ID %q: %w", rawChatID, err)
	}

	interval := DefaultPollInterval
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		interval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", raw, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", interval)
		}
	}

	var fromDate int64
	if raw := os.Getenv("FROM_DATE"); raw != "" {
		fromDate, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || fromDate < 0 {
			return nil, fmt.Errorf("invalid FROM_DATE %q: must be a non-negative unix timestamp", raw)
		}
	}

	return &Config{
		PracticumToken:   practicumToken,
		TelegramBotToken: botToken,
		ChatID:           chatID,
		Endpoint:         envOrDefault("API_ENDPOINT", DefaultEndpoint),
		PollInterval:     interval,
		FromDate:         fromDate,
		LogLevel:         strings.ToLower(envOrDefault("LOG_LEVEL", DefaultLogLevel)),
		LogFile:          envOrDefault("LOG_FILE", DefaultLogFile),
		DatabasePath:     envOrDefault("DATABASE_PATH", DefaultDatabasePath),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
