// Package executor orchestrates one execute request end to end: the
// recomputed confirmation gate, the EXECUTING transition, the backend
// mutation with pre-mutation capture, the audit record, the rollback
// snapshot, and the COMPLETED or ERROR transition.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
	"github.com/voxsheet/voxsheet-backend/internal/service/rollback"
)

type dryRunSimulator interface {
	Simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error)
}

type conversationService interface {
	Transition(ctx context.Context, id uuid.UUID, target domain.ConversationState, reason string) (domain.Conversation, error)
}

type rollbackStore interface {
	CreateSnapshot(ctx context.Context, input rollback.CreateSnapshotInput) (domain.RollbackAction, error)
}

type auditRepo interface {
	Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
}

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
	SortRange(ctx context.Context, sheetID, rng string, column int, ascending bool) error
	SetFilter(ctx context.Context, sheetID, rng string, column int, condition string) error
	CreateChart(ctx context.Context, sheetID, chartType, dataRange, title string) error
	FreezeRows(ctx context.Context, sheetID string, count int) error
	FreezeColumns(ctx context.Context, sheetID string, count int) error
	AddDataValidation(ctx context.Context, sheetID, rng, rule string) error
}

// Service is the action executor.
type Service struct {
	sim   dryRunSimulator
	convs conversationService
	store rollbackStore
	audit auditRepo
	grid  gridBackend
	log   *slog.Logger

	now func() time.Time
}

// NewService creates an executor.
func NewService(
	log *slog.Logger,
	sim dryRunSimulator,
	convs conversationService,
	store rollbackStore,
	audit auditRepo,
	grid gridBackend,
) *Service {
	return &Service{
		sim:   sim,
		convs: convs,
		store: store,
		audit: audit,
		grid:  grid,
		log:   log.With("service", "executor"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}
