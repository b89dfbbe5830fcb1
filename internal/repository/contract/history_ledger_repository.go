package contract

import (
	"context"

	"healthmate-be/internal/entity"
)

// IHistoryLedgerRepository defines the append-only per-user action ledger.
// Deletion is modeled as a compensating cancel record, never a physical
// removal, so the ledger stays fully auditable.
type IHistoryLedgerRepository interface {
	// Record appends one action. Unrecognized types are dropped silently.
	Record(ctx context.Context, userID, actionType, content, timestamp string) error
	ReadAll(ctx context.Context, userID string) ([]entity.HistoryRecord, error)
	// ReadEffective resolves cancel markers LIFO and returns the surviving
	// records in chronological order. Cancel records are never emitted.
	ReadEffective(ctx context.Context, userID string) ([]entity.HistoryRecord, error)
	// DeleteLast appends a cancel for the most recent effective
	// include/exclude record and returns it, or nil when nothing remains
	// to undo.
	DeleteLast(ctx context.Context, userID string) (*entity.HistoryRecord, error)
}
