package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/entity"
	"healthmate-be/internal/repository/contract"
)

var historyHeader = []string{"type", "content", "time"}

// HistoryLedgerRepository stores one UI-action ledger file per user.
type HistoryLedgerRepository struct {
	dir   string
	locks keyedLocks
	now   func() time.Time
}

func NewHistoryLedgerRepository(dir string) (*HistoryLedgerRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &HistoryLedgerRepository{dir: dir, now: time.Now}, nil
}

var _ contract.IHistoryLedgerRepository = (*HistoryLedgerRepository)(nil)

func (r *HistoryLedgerRepository) path(userID string) string {
	return filepath.Join(r.dir, safeFileName(userID)+".csv")
}

// Record appends one action for recognized types and silently drops the
// rest: the frontend sends UI-only event types that never belong in
// replayable history.
func (r *HistoryLedgerRepository) Record(ctx context.Context, userID, actionType, content, timestamp string) error {
	if !constant.RecognizedHistoryTypes[actionType] {
		return nil
	}
	if timestamp == "" {
		timestamp = r.now().Format(constant.LedgerTimeLayout)
	}

	mu := r.locks.lock(userID)
	defer mu.Unlock()

	return appendRow(r.path(userID), historyHeader, []string{actionType, content, timestamp})
}

// ReadAll returns the raw ledger in append order, cancel records included.
func (r *HistoryLedgerRepository) ReadAll(ctx context.Context, userID string) ([]entity.HistoryRecord, error) {
	rows, err := readRows(r.path(userID))
	if err != nil {
		return nil, err
	}

	records := make([]entity.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		records = append(records, entity.HistoryRecord{Type: row[0], Content: row[1], Time: row[2]})
	}
	return records, nil
}

// ReadEffective reconstructs the non-cancelled history in one reverse scan.
// Each cancel consumes the nearest preceding include/exclude (LIFO); cancel
// records themselves are never emitted, and apply/chat records pass through
// untouched. The emitted sequence is re-reversed to chronological order.
func (r *HistoryLedgerRepository) ReadEffective(ctx context.Context, userID string) ([]entity.HistoryRecord, error) {
	records, err := r.ReadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	pendingCancels := 0
	var reversed []entity.HistoryRecord
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		switch rec.Type {
		case constant.HistoryTypeCancel:
			pendingCancels++
		case constant.HistoryTypeInclude, constant.HistoryTypeExclude:
			if pendingCancels > 0 {
				pendingCancels--
				continue
			}
			reversed = append(reversed, rec)
		default:
			reversed = append(reversed, rec)
		}
	}

	effective := make([]entity.HistoryRecord, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		effective = append(effective, reversed[i])
	}
	return effective, nil
}

// DeleteLast undoes the most recent effective include/exclude action by
// appending a compensating cancel whose content encodes the undone record.
// The row itself is never removed. Returns the undone record, or nil when
// no effective include/exclude remains.
func (r *HistoryLedgerRepository) DeleteLast(ctx context.Context, userID string) (*entity.HistoryRecord, error) {
	effective, err := r.ReadEffective(ctx, userID)
	if err != nil {
		return nil, err
	}

	var target *entity.HistoryRecord
	for i := len(effective) - 1; i >= 0; i-- {
		if effective[i].Type == constant.HistoryTypeInclude || effective[i].Type == constant.HistoryTypeExclude {
			target = &effective[i]
			break
		}
	}
	if target == nil {
		return nil, nil
	}

	content := target.Type + "-" + target.Content
	if err := r.Record(ctx, userID, constant.HistoryTypeCancel, content, ""); err != nil {
		return nil, err
	}
	return target, nil
}
