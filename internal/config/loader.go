package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig reads configuration from the given YAML file path (optional),
// overlays BOT_* environment variables, applies defaults, and validates the
// result. A missing config file is not an error; missing required values are.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file %q: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Required values default to their zero value so the keys are known to
	// viper and can be supplied through the environment alone. Validation
	// still rejects them when left unset.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_user_id", 0)
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("gemini.model_name", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)
	v.SetDefault("gemini.timeout", 2*time.Minute)

	v.SetDefault("database.path", "storage.db")
	v.SetDefault("database.retention_days", 30)

	v.SetDefault("cache.capacity", 10)
	v.SetDefault("cache.idle_ttl", 72*time.Hour)

	v.SetDefault("context.fetch_horizon", 300)

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
		"cache_eviction":  {Enabled: true, Schedule: "0 30 * * * *"},
	})

	v.SetDefault("messages.welcome", "Hi! Reply to a message with /analyse, /grammar, /tldr or /solution and I'll take a look. Use /help for the full list.")
	v.SetDefault("messages.help", "Commands:\n/analyse <text> — check text (or a replied-to message) for logical fallacies\n/grammar <text> — check text for grammar issues\n/tldr — reply to a message to summarise the conversation from there\n/solution — reply to a message to get a neutral take on the discussion\n/snipe [n] — show the n-th most recently deleted message\n/editsnipe [n] — show the n-th most recently edited message")
	v.SetDefault("messages.no_target_text", "Please reply to a message or provide text directly.")
	v.SetDefault("messages.target_gone", "Could not fetch the replied-to message.")
	v.SetDefault("messages.reply_required", "You must reply to a message to use this command.")
	v.SetDefault("messages.empty_window", "There is no text in this conversation to analyse.")
	v.SetDefault("messages.general_error", "Sorry, something went wrong. The details have been logged.")
	v.SetDefault("messages.not_authorized", "You are not authorized to use this command.")
	v.SetDefault("messages.history_reset", "Stored message history has been cleared.")
	v.SetDefault("messages.no_fallacies", "No logical fallacies were detected.")
	v.SetDefault("messages.no_grammar_issues", "No grammatical errors were detected.")
	v.SetDefault("messages.nothing_generated", "The model returned nothing for this conversation. Try again later.")
	v.SetDefault("messages.empty_cache", "Nothing recorded for this chat yet.")
	v.SetDefault("messages.invalid_index", "The index must be a positive number.")
	v.SetDefault("messages.index_out_of_range", "Only %d entries are stored for this chat.")
}
