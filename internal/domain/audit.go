package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one append-only log entry for an attempted mutation.
// Never mutated after creation; removed only by retention cleanup.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ActionKind ActionKind
	SheetID    *string

	// Details holds the intent and result as free-form JSON.
	Details map[string]any

	Success      bool
	ErrorMessage *string
	DurationMs   int64

	// Client metadata, best effort.
	RemoteAddr *string
	UserAgent  *string

	CreatedAt time.Time
}
