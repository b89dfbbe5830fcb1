package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/entity"
	"healthmate-be/internal/repository/contract"
)

// SnapshotRepository writes the full corpus rows of each recommended recipe
// to KG<rank>.csv so the frontend can render the backing facts. Old
// snapshots are removed wholesale before a new recommendation is written.
type SnapshotRepository struct {
	dir string
}

func NewSnapshotRepository(dir string) (*SnapshotRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotRepository{dir: dir}, nil
}

var _ contract.ISnapshotRepository = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) file(rank int) string {
	return filepath.Join(r.dir, fmt.Sprintf("KG%d.csv", rank))
}

// Clear removes the previous recommendation's snapshot files.
func (r *SnapshotRepository) Clear() error {
	for rank := 1; rank <= constant.RecommendCount; rank++ {
		if err := os.Remove(r.file(rank)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}
	return nil
}

// Write persists the rows for the recipe at the given 1-based rank. Extra
// columns form the tail of the header in sorted order.
func (r *SnapshotRepository) Write(rank int, rows []entity.FullRow) error {
	extraSet := make(map[string]bool)
	for _, row := range rows {
		for name := range row.Extra {
			extraSet[name] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for name := range extraSet {
		extras = append(extras, name)
	}
	sort.Strings(extras)

	f, err := os.Create(r.file(rank))
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"subject", "relation", "object"}, extras...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Subject, row.Relation, row.Object}
		for _, name := range extras {
			record = append(record, row.Extra[name])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
