// Package audit implements the append-only audit log repository using
// PostgreSQL.
package audit

import (
	"context"
	"encoding/json"
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

const auditColumns = "id, user_id, action_kind, sheet_id, details, success, error_message, duration_ms, remote_addr, user_agent, created_at"

// Repo provides audit-log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new audit record. The ID and CreatedAt are assigned here
// if the caller left them zero.
func (r *Repo) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if rec.ID == uuid.Nil {
		rec.ID = uuid.Must(uuid.NewV7())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if rec.Details == nil {
		rec.Details = map[string]any{}
	}

	details, err := json.Marshal(rec.Details)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("marshal audit details: %w", err)
	}

	sql, args, err := psql.Insert("audit_log").
		Columns("id", "user_id", "action_kind", "sheet_id", "details", "success",
			"error_message", "duration_ms", "remote_addr", "user_agent", "created_at").
		Values(rec.ID, rec.UserID, string(rec.ActionKind), rec.SheetID, details, rec.Success,
			rec.ErrorMessage, rec.DurationMs, rec.RemoteAddr, rec.UserAgent, rec.CreatedAt).
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build create audit record: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", rec.ID)
	}

	return rec, nil
}

// DeleteOlderThan removes audit records created before cutoff and returns the
// number deleted. Referencing rollback rows go with them via ON DELETE
// CASCADE.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete("audit_log").
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete old audit records: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old audit records: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an audit record by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(auditColumns).
		From("audit_log").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build get audit record: %w", err)
	}

	rec, err := scanAuditRecord(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", id)
	}

	return rec, nil
}

// ListByUser returns a user's audit records, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(auditColumns).
		From("audit_log").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit records: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	records, err := scanAuditRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}

	return records, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAuditRecord(row pgx.Row) (domain.AuditRecord, error) {
	var rec domain.AuditRecord
	var kind string
	var details []byte

	if err := row.Scan(&rec.ID, &rec.UserID, &kind, &rec.SheetID, &details,
		&rec.Success, &rec.ErrorMessage, &rec.DurationMs,
		&rec.RemoteAddr, &rec.UserAgent, &rec.CreatedAt); err != nil {
		return domain.AuditRecord{}, err
	}

	rec.ActionKind = domain.ActionKind(kind)
	if err := json.Unmarshal(details, &rec.Details); err != nil {
		return domain.AuditRecord{}, fmt.Errorf("unmarshal audit details: %w", err)
	}

	return rec, nil
}

func scanAuditRecords(rows pgx.Rows) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if records == nil {
		records = []domain.AuditRecord{}
	}

	return records, nil
}
