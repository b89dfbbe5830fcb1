package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/entity"
	"healthmate-be/internal/repository/contract"
)

var sessionLogHeader = []string{"round", "type", "content", "time"}

// SessionLogRepository stores one event-log file per conversation under its
// data directory. Every conversation obtains its own store handle keyed by
// conversation ID; no process-wide current-file state exists.
type SessionLogRepository struct {
	dir   string
	locks keyedLocks
	now   func() time.Time
}

func NewSessionLogRepository(dir string) (*SessionLogRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session log dir: %w", err)
	}
	return &SessionLogRepository{dir: dir, now: time.Now}, nil
}

var _ contract.ISessionLogRepository = (*SessionLogRepository)(nil)

func (r *SessionLogRepository) path(conversationID string) string {
	return filepath.Join(r.dir, safeFileName(conversationID)+".csv")
}

// CurrentRound returns the highest round number in the log, or 0 for an
// empty or absent log.
func (r *SessionLogRepository) CurrentRound(ctx context.Context, conversationID string) (int, error) {
	events, err := r.Events(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, ev := range events {
		if ev.Round > max {
			max = ev.Round
		}
	}
	return max, nil
}

// AppendEvent appends one record with a generated timestamp. A write error
// is returned to the caller; it is fatal to the request, never swallowed.
func (r *SessionLogRepository) AppendEvent(ctx context.Context, conversationID string, round int, kind, content string) error {
	mu := r.locks.lock(conversationID)
	defer mu.Unlock()

	record := []string{
		strconv.Itoa(round),
		kind,
		content,
		r.now().Format(constant.LedgerTimeLayout),
	}
	return appendRow(r.path(conversationID), sessionLogHeader, record)
}

// Events returns the full log in append order.
func (r *SessionLogRepository) Events(ctx context.Context, conversationID string) ([]entity.SessionEvent, error) {
	rows, err := readRows(r.path(conversationID))
	if err != nil {
		return nil, err
	}

	events := make([]entity.SessionEvent, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		round, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		events = append(events, entity.SessionEvent{
			Round:   round,
			Kind:    row[1],
			Content: row[2],
			Time:    row[3],
		})
	}
	return events, nil
}

// EventsOfKind filters the full log by exact round and kind match.
func (r *SessionLogRepository) EventsOfKind(ctx context.Context, conversationID string, round int, kind string) ([]entity.SessionEvent, error) {
	events, err := r.Events(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	var filtered []entity.SessionEvent
	for _, ev := range events {
		if ev.Round == round && ev.Kind == kind {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// MostRecentKeywordsBefore walks rounds backward from round until one with
// keyword events is found. foundRound 0 with no keywords means no prior
// keyword context exists in the conversation.
func (r *SessionLogRepository) MostRecentKeywordsBefore(ctx context.Context, conversationID string, round int) ([]string, int, error) {
	events, err := r.Events(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}

	byRound := make(map[int][]string)
	for _, ev := range events {
		if ev.Kind == constant.EventKindKeyword {
			byRound[ev.Round] = append(byRound[ev.Round], ev.Content)
		}
	}

	for rr := round; rr > 0; rr-- {
		if kws := byRound[rr]; len(kws) > 0 {
			return kws, rr, nil
		}
	}
	return nil, 0, nil
}
