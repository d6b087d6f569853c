package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("CATCHUP_TIME", "")
	t.Setenv("CATCHUP_WINDOW_DAYS", "")
	t.Setenv("REMINDER_CHECK_MINUTES", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "taskvision.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.TelegramToken)
	assert.Equal(t, "04:00", cfg.CatchUpTime)
	assert.Equal(t, 14, cfg.CatchUpWindowDays)
	assert.Equal(t, 15*time.Minute, cfg.ReminderCheckInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "data/planner.db")
	t.Setenv("CATCHUP_TIME", "06:30")
	t.Setenv("CATCHUP_WINDOW_DAYS", "30")
	t.Setenv("REMINDER_CHECK_MINUTES", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/planner.db", cfg.DatabaseURL)
	assert.Equal(t, "06:30", cfg.CatchUpTime)
	assert.Equal(t, 30, cfg.CatchUpWindowDays)
	assert.Equal(t, 5*time.Minute, cfg.ReminderCheckInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadCatchUpTime(t *testing.T) {
	t.Setenv("CATCHUP_TIME", "25:99")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name       string
		windowDays string
		minutes    string
	}{
		{name: "negative window", windowDays: "-3", minutes: ""},
		{name: "zero window", windowDays: "0", minutes: ""},
		{name: "non-numeric minutes", windowDays: "", minutes: "zero"},
		{name: "negative minutes", windowDays: "", minutes: "-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CATCHUP_TIME", "")
			t.Setenv("CATCHUP_WINDOW_DAYS", tt.windowDays)
			t.Setenv("REMINDER_CHECK_MINUTES", tt.minutes)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "expected a positive integer")
		})
	}
}
