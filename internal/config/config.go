package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"taskvision/internal/model"
)

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL           string
	TelegramToken         string // optional; log sink used when empty
	CatchUpTime           string // HH:MM, daily catch-up pass
	CatchUpWindowDays     int
	ReminderCheckInterval time.Duration
	LogLevel              string
	LogFormat             string
}

// Load reads configuration from environment variables with sane
// defaults. A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		CatchUpTime:   strings.TrimSpace(os.Getenv("CATCHUP_TIME")),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat:     strings.TrimSpace(os.Getenv("LOG_FORMAT")),
	}

	windowDays, err := parsePositiveInt("CATCHUP_WINDOW_DAYS", os.Getenv("CATCHUP_WINDOW_DAYS"))
	if err != nil {
		return cfg, err
	}
	cfg.CatchUpWindowDays = windowDays

	checkMinutes, err := parsePositiveInt("REMINDER_CHECK_MINUTES", os.Getenv("REMINDER_CHECK_MINUTES"))
	if err != nil {
		return cfg, err
	}
	cfg.ReminderCheckInterval = time.Duration(checkMinutes) * time.Minute

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskvision.db"
	}
	if cfg.CatchUpTime == "" {
		cfg.CatchUpTime = "04:00"
	}
	if cfg.CatchUpWindowDays == 0 {
		cfg.CatchUpWindowDays = 14
	}
	if cfg.ReminderCheckInterval == 0 {
		cfg.ReminderCheckInterval = 15 * time.Minute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if _, _, err := model.ParseClock(cfg.CatchUpTime); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parsePositiveInt parses an optional numeric variable. An empty value
// means "use the default"; anything else must be a positive integer.
func parsePositiveInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid value %q, expected a positive integer", name, raw)
	}
	return n, nil
}
