package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8380", cfg.Addr)
	assert.Equal(t, "gpt-5.1", cfg.PrimaryModel)
	assert.Equal(t, "gpt-4o-mini", cfg.FallbackModel)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, 6, cfg.MaxHistory)
	assert.Equal(t, "Asia/Jakarta", cfg.Timezone)
	assert.Equal(t, "./data/reminders.json", cfg.RemindersPath)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INGAT_PRIMARY_MODEL", "gpt-4.1")
	t.Setenv("INGAT_MAX_HISTORY", "10")
	t.Setenv("INGAT_CONVERSATION_ID", "group-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.PrimaryModel)
	assert.Equal(t, 10, cfg.MaxHistory)
	assert.Equal(t, "group-123", cfg.ConversationID)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("INGAT_TIMEZONE", "Not/AZone")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not/AZone")
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Jakarta"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}
