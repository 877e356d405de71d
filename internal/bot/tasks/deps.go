// Package tasks implements scheduled background tasks for the Arbiter bot.
package tasks

import (
	"log/slog"

	"github.com/caldas/arbiterbot/internal/config"
	"github.com/caldas/arbiterbot/internal/database"
	"github.com/caldas/arbiterbot/internal/recall"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger      *slog.Logger
	Store       database.Store
	RecallCache *recall.Cache
	Config      *config.Config
}
