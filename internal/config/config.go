// Package config loads runtime configuration from the environment and an
// optional config file.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	// Addr is the inbound webhook listen address.
	Addr string `mapstructure:"addr"`
	// WebhookURL receives outbound sends (replies and reminder deliveries).
	WebhookURL string `mapstructure:"webhook_url"`

	// OpenAIAPIKey authenticates against the chat completion API.
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	// OpenAIBaseURL overrides the API endpoint, e.g. for a proxy.
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	// PrimaryModel serves the first two fallback-ladder attempts.
	PrimaryModel string `mapstructure:"primary_model"`
	// FallbackModel serves the final, compatibility attempt.
	FallbackModel string `mapstructure:"fallback_model"`
	// MaxTokens is the per-reply token budget.
	MaxTokens int `mapstructure:"max_tokens"`
	// RequestTimeout bounds each backend attempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// ConversationID restricts the bot to a single conversation when set.
	ConversationID string `mapstructure:"conversation_id"`
	// MaxHistory is the per-conversation history window.
	MaxHistory int `mapstructure:"max_history"`
	// MaxConversations bounds the number of tracked conversations.
	MaxConversations int `mapstructure:"max_conversations"`
	// Timezone resolves and formats reminder times.
	Timezone string `mapstructure:"timezone"`
	// RemindersPath is the durable reminder document.
	RemindersPath string `mapstructure:"reminders_path"`
	// SendTimeout bounds each outbound send.
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// Load reads configuration from INGAT_* environment variables and, when
// present, an ingatbot.yaml file in the working directory or /etc/ingatbot.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8380")
	v.SetDefault("webhook_url", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("primary_model", "gpt-5.1")
	v.SetDefault("fallback_model", "gpt-4o-mini")
	v.SetDefault("max_tokens", 1000)
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("conversation_id", "")
	v.SetDefault("max_history", 6)
	v.SetDefault("max_conversations", 256)
	v.SetDefault("timezone", "Asia/Jakarta")
	v.SetDefault("reminders_path", "./data/reminders.json")
	v.SetDefault("send_timeout", 20*time.Second)

	v.SetEnvPrefix("INGAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("ingatbot")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ingatbot")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	cfg.warnIncomplete()
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", c.Timezone)
	}
	return loc, nil
}

// warnIncomplete flags configuration the bot can start without but will
// not be fully functional without.
func (c *Config) warnIncomplete() {
	if c.OpenAIAPIKey == "" {
		slog.Warn("INGAT_OPENAI_API_KEY is missing; assistant replies will fall back to the apology text")
	}
	if c.ConversationID == "" {
		slog.Warn("INGAT_CONVERSATION_ID is missing; messages from every conversation will be served")
	}
	if c.WebhookURL == "" {
		slog.Warn("INGAT_WEBHOOK_URL is missing; reminder deliveries cannot be sent")
	}
}
