// Package conversation implements the Conversation repository using PostgreSQL.
// State changes go through a compare-and-set UPDATE so concurrent writers
// cannot both win the same transition.
package conversation

import (
	"context"
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

const conversationColumns = "id, user_id, sheet_id, state, created_at, updated_at, ended_at"

// Repo provides conversation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL for the compare-and-set paths
// ---------------------------------------------------------------------------

const casUpdateStateSQL = `
UPDATE conversations
SET state = $1, updated_at = $2
WHERE id = $3 AND state = $4 AND ended_at IS NULL`

const forceUpdateStateSQL = `
UPDATE conversations
SET state = $1, updated_at = $2
WHERE id = $3 AND ended_at IS NULL`

const endConversationSQL = `
UPDATE conversations
SET state = $1, updated_at = $2, ended_at = $2
WHERE id = $3 AND ended_at IS NULL`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a conversation by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Conversation, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(conversationColumns).
		From("conversations").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build get conversation: %w", err)
	}

	conv, err := scanConversation(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.Conversation{}, postgres.MapError(err, "conversation", id)
	}

	return conv, nil
}

// ListStale returns non-terminal, non-ended conversations whose last update is
// older than cutoff. The sweeper forces these into ERROR.
func (r *Repo) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Conversation, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(conversationColumns).
		From("conversations").
		Where(squirrel.NotEq{"state": []string{
			string(domain.StateIdle),
			string(domain.StateCompleted),
			string(domain.StateError),
		}}).
		Where(squirrel.Lt{"updated_at": cutoff}).
		Where("ended_at IS NULL").
		OrderBy("updated_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stale conversations: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale conversations: %w", err)
	}
	defer rows.Close()

	convs, err := scanConversations(rows)
	if err != nil {
		return nil, fmt.Errorf("list stale conversations: %w", err)
	}

	return convs, nil
}

// ListTransitions returns the transition log for a conversation, oldest first.
func (r *Repo) ListTransitions(ctx context.Context, conversationID uuid.UUID) ([]domain.StateTransition, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("id, conversation_id, from_state, to_state, reason, forced, created_at").
		From("conversation_transitions").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list transitions: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var transitions []domain.StateTransition
	for rows.Next() {
		var tr domain.StateTransition
		var from, to string
		if err := rows.Scan(&tr.ID, &tr.ConversationID, &from, &to, &tr.Reason, &tr.Forced, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		tr.FromState = domain.ConversationState(from)
		tr.ToState = domain.ConversationState(to)
		transitions = append(transitions, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}

	if transitions == nil {
		transitions = []domain.StateTransition{}
	}

	return transitions, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new conversation in IDLE and returns it.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, sheetID *string) (domain.Conversation, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	conv := domain.Conversation{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		SheetID:   sheetID,
		State:     domain.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sql, args, err := psql.Insert("conversations").
		Columns("id", "user_id", "sheet_id", "state", "created_at", "updated_at").
		Values(conv.ID, conv.UserID, conv.SheetID, string(conv.State), conv.CreatedAt, conv.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build create conversation: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return domain.Conversation{}, postgres.MapError(err, "conversation", conv.ID)
	}

	return conv, nil
}

// UpdateState moves a conversation from an expected state to a new one and
// records the transition. The UPDATE is a compare-and-set: if the row is no
// longer in the expected state (or was ended), nothing changes and the actual
// state is classified into domain.ErrNotFound or domain.ErrConflict.
//
// Transition-table validation is the caller's job; this method only guards
// against lost updates.
func (r *Repo) UpdateState(ctx context.Context, id uuid.UUID, from, to domain.ConversationState, reason string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	tag, err := querier.Exec(ctx, casUpdateStateSQL, string(to), now, id, string(from))
	if err != nil {
		return postgres.MapError(err, "conversation", id)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyCASFailure(ctx, querier, id, from)
	}

	return r.recordTransition(ctx, querier, id, from, to, reason, false, now)
}

// ForceUpdateState moves a conversation to a new state regardless of the
// current one. Operator recovery and the staleness sweep use it; the
// transition is logged as forced with the real from-state. Callers must wrap
// it in a transaction so the read and the update see the same row.
func (r *Repo) ForceUpdateState(ctx context.Context, id uuid.UUID, to domain.ConversationState, reason string) (domain.Conversation, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(conversationColumns).
		From("conversations").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build force update select: %w", err)
	}

	conv, err := scanConversation(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.Conversation{}, postgres.MapError(err, "conversation", id)
	}
	if conv.EndedAt != nil {
		return domain.Conversation{}, fmt.Errorf("conversation %s: already ended: %w", id, domain.ErrConflict)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	if _, err := querier.Exec(ctx, forceUpdateStateSQL, string(to), now, id); err != nil {
		return domain.Conversation{}, postgres.MapError(err, "conversation", id)
	}

	if err := r.recordTransition(ctx, querier, id, conv.State, to, reason, true, now); err != nil {
		return domain.Conversation{}, err
	}

	conv.State = to
	conv.UpdatedAt = now
	return conv, nil
}

// End closes a conversation: sets ended_at and moves it to the given terminal
// state unconditionally. Ending an already-ended conversation is a no-op
// reported as domain.ErrNotFound.
func (r *Repo) End(ctx context.Context, id uuid.UUID, to domain.ConversationState) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	tag, err := querier.Exec(ctx, endConversationSQL, string(to), now, id)
	if err != nil {
		return postgres.MapError(err, "conversation", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// classifyCASFailure re-reads the row after a zero-row CAS update and decides
// whether the conversation is gone or just in a different state.
func (r *Repo) classifyCASFailure(ctx context.Context, querier postgres.Querier, id uuid.UUID, expected domain.ConversationState) error {
	var current string
	var endedAt *time.Time
	err := querier.QueryRow(ctx,
		`SELECT state, ended_at FROM conversations WHERE id = $1`, id,
	).Scan(&current, &endedAt)
	if err != nil {
		return postgres.MapError(err, "conversation", id)
	}

	if endedAt != nil {
		return fmt.Errorf("conversation %s: already ended: %w", id, domain.ErrConflict)
	}

	return fmt.Errorf("conversation %s: state is %s, expected %s: %w",
		id, current, expected, domain.ErrConflict)
}

func (r *Repo) recordTransition(ctx context.Context, querier postgres.Querier, id uuid.UUID, from, to domain.ConversationState, reason string, forced bool, now time.Time) error {
	sql, args, err := psql.Insert("conversation_transitions").
		Columns("id", "conversation_id", "from_state", "to_state", "reason", "forced", "created_at").
		Values(uuid.Must(uuid.NewV7()), id, string(from), string(to), reason, forced, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record transition: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "conversation", id)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanConversation(row pgx.Row) (domain.Conversation, error) {
	var conv domain.Conversation
	var state string

	if err := row.Scan(&conv.ID, &conv.UserID, &conv.SheetID, &state,
		&conv.CreatedAt, &conv.UpdatedAt, &conv.EndedAt); err != nil {
		return domain.Conversation{}, err
	}

	conv.State = domain.ConversationState(state)
	return conv, nil
}

func scanConversations(rows pgx.Rows) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if convs == nil {
		convs = []domain.Conversation{}
	}

	return convs, nil
}
