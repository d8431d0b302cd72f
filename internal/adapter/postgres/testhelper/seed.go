package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
)

// SeedConversation inserts a conversation in the given state and returns it.
func SeedConversation(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, state domain.ConversationState) domain.Conversation {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	conv := domain.Conversation{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO conversations (id, user_id, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		conv.ID, conv.UserID, string(conv.State), conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConversation insert: %v", err)
	}

	return conv
}

// SeedAuditRecord inserts a successful audit record and returns its ID,
// for rollback rows that need a forward action to reference.
func SeedAuditRecord(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, kind domain.ActionKind) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.Must(uuid.NewV7())
	_, err := pool.Exec(ctx,
		`INSERT INTO audit_log (id, user_id, action_kind, details, success, duration_ms, created_at)
		 VALUES ($1, $2, $3, '{}', true, 5, now())`,
		id, userID, string(kind),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAuditRecord insert: %v", err)
	}

	return id
}

// SeedRollbackAction inserts an un-executed rollback record expiring at the
// given time and returns it.
func SeedRollbackAction(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, expiresAt time.Time) domain.RollbackAction {
	t.Helper()
	ctx := context.Background()

	actionID := SeedAuditRecord(t, pool, userID, domain.ActionUpdateCell)
	now := time.Now().UTC().Truncate(time.Microsecond)
	rb := domain.RollbackAction{
		ID:       uuid.Must(uuid.NewV7()),
		UserID:   userID,
		ActionID: actionID,
		SheetID:  "sheet-1",
		UndoKind: domain.UndoRestoreCell,
		UndoData: domain.UndoData{
			Range:  "B2",
			Values: [][]string{{"old"}},
		},
		ExpiresAt: expiresAt.UTC().Truncate(time.Microsecond),
		CreatedAt: now,
	}

	data, err := json.Marshal(rb.UndoData)
	if err != nil {
		t.Fatalf("testhelper: marshal undo data: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO rollback_actions (id, user_id, action_id, sheet_id, undo_kind, undo_data, executed, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)`,
		rb.ID, rb.UserID, rb.ActionID, rb.SheetID, string(rb.UndoKind), data, rb.ExpiresAt, rb.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRollbackAction insert: %v", err)
	}

	return rb
}
