// Package rollback implements the RollbackAction repository using PostgreSQL.
// Claim is the exactly-once gate: the executed flag flips inside a single
// guarded UPDATE so two concurrent undo requests cannot both win.
package rollback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voxsheet/voxsheet-backend/internal/adapter/postgres"
	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const rollbackColumns = "id, user_id, action_id, sheet_id, undo_kind, undo_data, executed, expires_at, created_at"

// Repo provides rollback-action persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rollback repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL for the atomic claim
// ---------------------------------------------------------------------------

// A record stays claimable through its exact expiry instant; it only goes
// stale strictly after expires_at, matching domain.RollbackAction.Expired.
const claimSQL = `
UPDATE rollback_actions
SET executed = true
WHERE id = $1 AND user_id = $2 AND executed = false AND expires_at >= $3
RETURNING ` + rollbackColumns

const unclaimSQL = `
UPDATE rollback_actions
SET executed = false
WHERE id = $1 AND user_id = $2 AND executed = true`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a rollback action by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.RollbackAction, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(rollbackColumns).
		From("rollback_actions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return domain.RollbackAction{}, fmt.Errorf("build get rollback action: %w", err)
	}

	rb, err := scanRollbackAction(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.RollbackAction{}, postgres.MapError(err, "rollback_action", id)
	}

	return rb, nil
}

// ListPending returns a user's un-executed, un-expired rollback actions,
// newest first.
func (r *Repo) ListPending(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.RollbackAction, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(rollbackColumns).
		From("rollback_actions").
		Where(squirrel.Eq{"user_id": userID, "executed": false}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pending rollbacks: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending rollbacks: %w", err)
	}
	defer rows.Close()

	actions, err := scanRollbackActions(rows)
	if err != nil {
		return nil, fmt.Errorf("list pending rollbacks: %w", err)
	}

	return actions, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create persists a new undo plan.
func (r *Repo) Create(ctx context.Context, rb domain.RollbackAction) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	data, err := json.Marshal(rb.UndoData)
	if err != nil {
		return fmt.Errorf("marshal undo data: %w", err)
	}

	sql, args, err := psql.Insert("rollback_actions").
		Columns("id", "user_id", "action_id", "sheet_id", "undo_kind", "undo_data", "executed", "expires_at", "created_at").
		Values(rb.ID, rb.UserID, rb.ActionID, rb.SheetID, string(rb.UndoKind), data, false, rb.ExpiresAt, rb.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rollback action: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "rollback_action", rb.ID)
	}

	return nil
}

// Claim atomically marks a rollback action as executed and returns it. Only
// one caller can ever claim a given record; a second claim, an expired
// record, and a missing record are distinguished by the returned error:
// domain.ErrRollbackExecuted, domain.ErrRollbackExpired, domain.ErrNotFound.
func (r *Repo) Claim(ctx context.Context, userID, id uuid.UUID, now time.Time) (domain.RollbackAction, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rb, err := scanRollbackAction(querier.QueryRow(ctx, claimSQL, id, userID, now))
	if err == nil {
		return rb, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.RollbackAction{}, postgres.MapError(err, "rollback_action", id)
	}

	// Zero rows: the guard failed. Re-read to say why.
	return domain.RollbackAction{}, r.classifyClaimFailure(ctx, querier, userID, id, now)
}

// Unclaim reverts a claim after the undo itself failed, so the plan stays
// available for a retry. Best effort: expiry may have passed in between.
func (r *Repo) Unclaim(ctx context.Context, userID, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, unclaimSQL, id, userID); err != nil {
		return postgres.MapError(err, "rollback_action", id)
	}

	return nil
}

// DeleteExpired removes rollback actions past their expiry and returns the
// number deleted. The cleanup cron calls this.
func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete("rollback_actions").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired rollbacks: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired rollbacks: %w", err)
	}

	return tag.RowsAffected(), nil
}

// classifyClaimFailure decides why a claim matched zero rows.
func (r *Repo) classifyClaimFailure(ctx context.Context, querier postgres.Querier, userID, id uuid.UUID, now time.Time) error {
	var executed bool
	var expiresAt time.Time
	err := querier.QueryRow(ctx,
		`SELECT executed, expires_at FROM rollback_actions WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&executed, &expiresAt)
	if err != nil {
		return postgres.MapError(err, "rollback_action", id)
	}

	if executed {
		return fmt.Errorf("rollback_action %s: %w", id, domain.ErrRollbackExecuted)
	}
	if now.After(expiresAt) {
		return fmt.Errorf("rollback_action %s: %w", id, domain.ErrRollbackExpired)
	}

	// Guard failed but the row looks claimable: a concurrent claim committed
	// between the UPDATE and this read.
	return fmt.Errorf("rollback_action %s: %w", id, domain.ErrConflict)
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanRollbackAction(row pgx.Row) (domain.RollbackAction, error) {
	var rb domain.RollbackAction
	var kind string
	var data []byte

	if err := row.Scan(&rb.ID, &rb.UserID, &rb.ActionID, &rb.SheetID, &kind,
		&data, &rb.Executed, &rb.ExpiresAt, &rb.CreatedAt); err != nil {
		return domain.RollbackAction{}, err
	}

	rb.UndoKind = domain.UndoActionKind(kind)
	if err := json.Unmarshal(data, &rb.UndoData); err != nil {
		return domain.RollbackAction{}, fmt.Errorf("unmarshal undo data: %w", err)
	}

	return rb, nil
}

func scanRollbackActions(rows pgx.Rows) ([]domain.RollbackAction, error) {
	var actions []domain.RollbackAction
	for rows.Next() {
		rb, err := scanRollbackAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if actions == nil {
		actions = []domain.RollbackAction{}
	}

	return actions, nil
}
