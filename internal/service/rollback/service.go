// Package rollback implements the rollback store: undo-plan generation,
// persistence with a bounded validity window, and exactly-once undo
// execution against the grid backend.
package rollback

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/internal/provider"
)

const (
	DefaultTTL   = 24 * time.Hour
	DefaultLimit = 20
	MaxLimit     = 100
)

type rollbackRepo interface {
	Create(ctx context.Context, rb domain.RollbackAction) error
	Claim(ctx context.Context, userID, id uuid.UUID, now time.Time) (domain.RollbackAction, error)
	Unclaim(ctx context.Context, userID, id uuid.UUID) error
	ListPending(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.RollbackAction, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type gridBackend interface {
	UpdateRange(ctx context.Context, sheetID, rng string, values [][]string) (provider.UpdateResult, error)
	FormatRange(ctx context.Context, sheetID, rng string, format domain.CellFormat) error
	InsertRows(ctx context.Context, sheetID string, start, count int) error
	DeleteRows(ctx context.Context, sheetID string, start, count int) error
	InsertColumns(ctx context.Context, sheetID string, start, count int) error
	DeleteColumns(ctx context.Context, sheetID string, start, count int) error
	UnmergeCells(ctx context.Context, sheetID, rng string) error
}

// Service is the rollback store.
type Service struct {
	repo rollbackRepo
	grid gridBackend
	ttl  time.Duration
	log  *slog.Logger

	now func() time.Time
}

// NewService creates a rollback store with the given validity window.
func NewService(
	log *slog.Logger,
	repo rollbackRepo,
	grid gridBackend,
	ttl time.Duration,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo: repo,
		grid: grid,
		ttl:  ttl,
		log:  log.With("service", "rollback"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}
