// Package csvstore implements the persisted-state repositories over flat
// delimited files, the storage contract shared with the frontend tooling.
// One file per conversation or user, header row present, append-only.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
)

// keyedLocks serializes appends per conversation/user key. The reverse-scan
// cancellation logic and round-boundary detection both depend on strict
// chronological ordering, so writers for the same key must not interleave.
type keyedLocks struct {
	mu sync.Map // string -> *sync.Mutex
}

func (k *keyedLocks) lock(key string) *sync.Mutex {
	m, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu
}

// safeFileName keeps user-supplied identifiers from escaping the data
// directory or producing invalid file names.
func safeFileName(id string) string {
	if id == "" {
		return "default"
	}
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "default"
	}
	return name
}

// appendRow writes header (on a fresh file) and one record as a single
// buffered write, so readers never observe a partial row.
func appendRow(path string, header, record []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("encode header: %w", err)
		}
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// readRows returns all data rows of path, or nil when the file does not
// exist yet (an empty log, not an error).
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}
