// Package config provides configuration loading, defaulting, and validation
// for the Arbiter bot. Configuration is read from an optional YAML file,
// overlaid with BOT_* environment variables, and validated before use.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config holds all application configuration, grouped by component.
// Values are injected into each component's constructor; there is no
// package-level configuration state.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Context   ContextConfig   `mapstructure:"context"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls structured logging output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and runtime bot identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// AdminUserID is the only user allowed to run maintenance commands.
	AdminUserID int64 `mapstructure:"admin_user_id" validate:"required,gt=0"`

	// BotInfo is populated at startup from GetMe; it is not read from file.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig configures the generative API client.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key" validate:"required"`
	ModelName         string        `mapstructure:"model_name" validate:"required"`
	Temperature       float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"min=0"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"required,min=1s,max=10m"`
}

// DatabaseConfig configures the SQLite message store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`

	// RetentionDays bounds how long recorded messages are kept before the
	// maintenance task prunes them. Zero disables pruning.
	RetentionDays int `mapstructure:"retention_days" validate:"min=0"`
}

// CacheConfig configures the per-chat recall cache.
type CacheConfig struct {
	// Capacity is the fixed number of deletions and of edits remembered
	// per chat. Identical for every chat, set once at startup.
	Capacity int `mapstructure:"capacity" validate:"required,min=1,max=100"`

	// IdleTTL is how long a chat may stay inactive before its buffers are
	// evicted by the cache_eviction task. Zero keeps chats forever.
	IdleTTL time.Duration `mapstructure:"idle_ttl" validate:"min=0"`
}

// ContextConfig configures conversation window assembly.
type ContextConfig struct {
	// FetchHorizon caps how many messages after the anchor are collected
	// when building a conversation window.
	FetchHorizon int `mapstructure:"fetch_horizon" validate:"required,min=1,max=1000"`
}

// TaskConfig enables and schedules a single background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds all user-facing reply strings.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"`
	Help             string `mapstructure:"help"`
	NoTargetText     string `mapstructure:"no_target_text"`
	TargetGone       string `mapstructure:"target_gone"`
	ReplyRequired    string `mapstructure:"reply_required"`
	EmptyWindow      string `mapstructure:"empty_window"`
	GeneralError     string `mapstructure:"general_error"`
	NotAuthorized    string `mapstructure:"not_authorized"`
	HistoryReset     string `mapstructure:"history_reset"`
	NoFallacies      string `mapstructure:"no_fallacies"`
	NoGrammarIssues  string `mapstructure:"no_grammar_issues"`
	NothingGenerated string `mapstructure:"nothing_generated"`
	EmptyCache       string `mapstructure:"empty_cache"`
	InvalidIndex     string `mapstructure:"invalid_index"`
	IndexOutOfRange  string `mapstructure:"index_out_of_range"`
}
