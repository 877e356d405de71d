package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the scheduled task that prunes recorded
// messages past the configured retention and vacuums the database.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()

		if days := deps.Config.Database.RetentionDays; days > 0 {
			cutoff := time.Now().UTC().AddDate(0, 0, -days)
			pruned, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)
			if err != nil {
				log.ErrorContext(ctx, "Message pruning failed", "error", err)
				return fmt.Errorf("message pruning failed: %w", err)
			}
			log.InfoContext(ctx, "Pruned old messages", "count", pruned, "cutoff", cutoff)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(startTime))
		return nil
	}
}
