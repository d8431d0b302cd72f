// Package app wires configuration, storage, services and transport into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/voxsheet/voxsheet-backend/internal/adapter/postgres"
	auditpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/audit"
	conversationpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/conversation"
	rollbackpg "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres/rollback"
	"github.com/voxsheet/voxsheet-backend/internal/adapter/provider/classifier"
	"github.com/voxsheet/voxsheet-backend/internal/adapter/provider/gridapi"
	"github.com/voxsheet/voxsheet-backend/internal/auth"
	"github.com/voxsheet/voxsheet-backend/internal/config"
	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
	"github.com/voxsheet/voxsheet-backend/internal/service/conversation"
	"github.com/voxsheet/voxsheet-backend/internal/service/executor"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
	"github.com/voxsheet/voxsheet-backend/internal/service/simulator"
	"github.com/voxsheet/voxsheet-backend/internal/transport/middleware"
	"github.com/voxsheet/voxsheet-backend/internal/transport/rest"
)

// gridBackend is the full spreadsheet surface the services draw from. Both
// the HTTP client and the in-memory stub implement it.
type gridBackend interface {
	CreateSpreadsheet(ctx context.Context, title string) (provider.SpreadsheetInfo, error)
	GetSpreadsheet(ctx context.Context, sheetID string) (provider.SpreadsheetInfo, error)
	RenameSheet(ctx context.Context, sheetID, title string) error
	ReadRange(ctx context.Context, sheetID, rng string) (provider.ValueRange, error)
	UpdateRange(ctx context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error)
	ClearRange(ctx context.Context, sheetID, rng string) error
	AppendRow(ctx context.Context, sheetID string, row []string) (provider.AppendResult, error)
	InsertRows(ctx context.Context, sheetID string, start, count int) error
	DeleteRows(ctx context.Context, sheetID string, start, count int) error
	InsertColumns(ctx context.Context, sheetID string, start, count int) error
	DeleteColumns(ctx context.Context, sheetID string, start, count int) error
	FormatRange(ctx context.Context, sheetID, rng string, format domain.CellFormat) error
	ReadFormat(ctx context.Context, sheetID, rng string) (domain.CellFormat, error)
	MergeCells(ctx context.Context, sheetID, rng string) error
	UnmergeCells(ctx context.Context, sheetID, rng string) error
	SortRange(ctx context.Context, sheetID, rng string, column int, ascending bool) error
	SetFilter(ctx context.Context, sheetID, rng string, column int, condition string) error
	CreateChart(ctx context.Context, sheetID, chartType, dataRange, title string) error
	FreezeRows(ctx context.Context, sheetID string, count int) error
	FreezeColumns(ctx context.Context, sheetID string, count int) error
	AddDataValidation(ctx context.Context, sheetID, rng, rule string) error
}

// Run is the application entry point. It blocks until ctx is canceled or the
// server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	convRepo := conversationpg.New(pool)
	rollbackRepo := rollbackpg.New(pool)
	auditRepo := auditpg.New(pool)
	txManager := postgres.NewTxManager(pool)

	var grid gridBackend
	if cfg.Grid.UseStub {
		logger.Warn("using in-memory grid stub, mutations are not persisted")
		grid = gridapi.NewStub()
	} else {
		grid = gridapi.NewClient(cfg.Grid.BaseURL, cfg.Grid.APIKey, cfg.Grid.Timeout, logger)
	}

	simSvc := simulator.NewService()
	convSvc := conversation.NewService(logger, convRepo, txManager,
		cfg.Pipeline.ConfidenceThreshold, cfg.Pipeline.StaleAfter)
	rollbackSvc := rollback.NewService(logger, rollbackRepo, grid, cfg.Pipeline.RollbackTTL)
	execSvc := executor.NewService(logger, simSvc, convSvc, rollbackSvc, auditRepo, grid)

	anthropicClient := anthropic.NewClient(option.WithAPIKey(cfg.Classifier.APIKey))
	classifierSvc := classifier.New(anthropicClient, cfg.Classifier.Model, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Health:        rest.NewHealthHandler(pool, BuildVersion()),
		Conversations: rest.NewConversationHandler(convSvc, classifierSvc, simSvc, logger),
		Actions:       rest.NewActionHandler(execSvc, logger),
		Rollbacks:     rest.NewRollbackHandler(rollbackSvc, logger),
		Audit:         rest.NewAuditHandler(auditRepo, logger),
	}

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.RateLimit.Requests),
		middleware.Auth(jwtManager),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      rest.NewRouter(handlers, chain),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
