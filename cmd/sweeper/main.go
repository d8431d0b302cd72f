// Command sweeper forces stale conversations into ERROR. A conversation is
// stale when it has sat in a non-terminal state longer than the configured
// window. Intended to be invoked by an external cron job, not as an
// in-process goroutine.
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
	conversationpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/conversation"
	"github.com/voxsheet/voxsheet-backend/internal/app"
	"github.com/voxsheet/voxsheet-backend/internal/config"
	"github.com/voxsheet/voxsheet-backend/internal/service/conversation"
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

	repo := conversationpg.New(pool)
	txManager := postgres.NewTxManager(pool)
	svc := conversation.NewService(logger, repo, txManager,
		cfg.Pipeline.ConfidenceThreshold, cfg.Pipeline.StaleAfter)

	swept, err := svc.SweepStale(ctx)
	if err != nil {
		logger.Error("sweep failed",
			slog.String("error", err.Error()),
			slog.Int("swept", swept),
		)
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("swept", swept),
		slog.Duration("stale_after", cfg.Pipeline.StaleAfter),
	)
}
