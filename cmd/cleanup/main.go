// Command cleanup removes rollback records past their validity window and
// audit records past the retention period. It is intended to be invoked by
// an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/voxsheet/voxsheet-backend/internal/adapter/postgres"
	auditpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/audit"
	rollbackpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/rollback"
	"github.com/voxsheet/voxsheet-backend/internal/app"
	"github.com/voxsheet/voxsheet-backend/internal/config"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// The grid backend is only needed for undo execution, never for cleanup.
	rollbackSvc := rollback.NewService(logger, rollbackpg.New(pool), nil, cfg.Pipeline.RollbackTTL)

	expired, err := rollbackSvc.CleanupExpired(ctx)
	if err != nil {
		logger.Error("rollback cleanup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Pipeline.AuditRetentionDays)

	auditDeleted, err := auditpg.New(pool).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("audit retention cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int64("rollbacks_deleted", expired),
		slog.Int64("audit_deleted", auditDeleted),
		slog.Time("audit_cutoff", cutoff),
	)
}
