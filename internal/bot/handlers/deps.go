package handlers

import (
	"log/slog"

	"github.com/caldas/arbiterbot/internal/config"
	"github.com/caldas/arbiterbot/internal/database"
	"github.com/caldas/arbiterbot/internal/gemini"
	"github.com/caldas/arbiterbot/internal/recall"
	"github.com/caldas/arbiterbot/internal/resolver"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client
	Resolver     *resolver.Resolver
	Recall       *recall.Cache
}
