// Package kg models the recipe corpus as a searchable triple store and
// derivable graph. The corpus is a delimited file with a header row and at
// minimum the columns subject, relation and object; extra columns are
// preserved opaquely by full-row fetches.
package kg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"healthmate-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const defaultChunkSize = 100_000

// Store is a read-only accessor over the corpus file. The corpus may be too
// large to load at once, so every primitive streams fixed-size chunks and
// accumulates only matches. The corpus is immutable, so search results are
// cached without invalidation.
type Store struct {
	csvPath   string
	chunkSize int
	cache     *cache.Cache
}

// NewStore opens a triple store over csvPath. A missing or unreadable file
// is a configuration error: the caller must not serve requests.
func NewStore(csvPath string) (*Store, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("corpus file unavailable: %w", err)
	}
	f.Close()

	return &Store{
		csvPath:   csvPath,
		chunkSize: defaultChunkSize,
		cache:     cache.New(cache.NoExpiration, 0),
	}, nil
}

// columns maps the header to the positions of the required columns. Extra
// columns keep their header names for FullRow.Extra.
type columns struct {
	subject  int
	relation int
	object   int
	names    []string
}

func resolveColumns(header []string) (*columns, error) {
	c := &columns{subject: -1, relation: -1, object: -1, names: header}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "subject":
			c.subject = i
		case "relation":
			c.relation = i
		case "object":
			c.object = i
		}
	}
	if c.subject < 0 || c.relation < 0 || c.object < 0 {
		return nil, fmt.Errorf("corpus header missing subject/relation/object: %v", header)
	}
	return c, nil
}

// scan streams the corpus in chunks of s.chunkSize rows and hands each chunk
// to visit together with the index of its first row. Rows shorter than the
// required columns are passed through; filtering is the visitor's concern.
func (s *Store) scan(visit func(start int, rows [][]string, cols *columns) error) error {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read corpus header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return err
	}

	start := 0
	chunk := make([][]string, 0, s.chunkSize)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read corpus row: %w", err)
		}
		chunk = append(chunk, row)
		if len(chunk) == s.chunkSize {
			if err := visit(start, chunk, cols); err != nil {
				return err
			}
			start += len(chunk)
			chunk = chunk[:0]
		}
	}
	if len(chunk) > 0 {
		if err := visit(start, chunk, cols); err != nil {
			return err
		}
	}
	return nil
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// tripleAt extracts the triple from a row, or ok=false when any of the three
// required fields is empty.
func tripleAt(row []string, cols *columns, rowIndex int) (entity.Triple, bool) {
	t := entity.Triple{
		Subject:  field(row, cols.subject),
		Relation: field(row, cols.relation),
		Object:   field(row, cols.object),
		RowIndex: rowIndex,
	}
	if t.Subject == "" || t.Relation == "" || t.Object == "" {
		return entity.Triple{}, false
	}
	return t, true
}

// Search scans the corpus for triples whose relation matches relationFilter
// (exactly, or by substring when exactRelation is false) and whose object
// contains objectFilter when it is non-empty. Exact duplicates across all
// three fields are removed; the first occurrence wins.
func (s *Store) Search(relationFilter, objectFilter string, exactRelation bool) ([]entity.Triple, error) {
	key := fmt.Sprintf("search\x1f%v\x1f%s\x1f%s", exactRelation, relationFilter, objectFilter)
	if hit, found := s.cache.Get(key); found {
		return hit.([]entity.Triple), nil
	}

	var matched []entity.Triple
	seen := make(map[string]bool)

	err := s.scan(func(start int, rows [][]string, cols *columns) error {
		for i, row := range rows {
			t, ok := tripleAt(row, cols, start+i)
			if !ok {
				continue
			}
			if exactRelation {
				if t.Relation != relationFilter {
					continue
				}
			} else if !strings.Contains(t.Relation, relationFilter) {
				continue
			}
			if objectFilter != "" && !strings.Contains(t.Object, objectFilter) {
				continue
			}
			if k := t.Key(); !seen[k] {
				seen[k] = true
				matched = append(matched, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, matched, cache.DefaultExpiration)
	return matched, nil
}

// AllTriplesForSubject returns every deduplicated triple whose subject is
// exactly subject.
func (s *Store) AllTriplesForSubject(subject string) ([]entity.Triple, error) {
	var matched []entity.Triple
	seen := make(map[string]bool)

	err := s.scan(func(start int, rows [][]string, cols *columns) error {
		for i, row := range rows {
			t, ok := tripleAt(row, cols, start+i)
			if !ok || t.Subject != subject {
				continue
			}
			if k := t.Key(); !seen[k] {
				seen[k] = true
				matched = append(matched, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

func fullRowAt(row []string, cols *columns, rowIndex int) entity.FullRow {
	fr := entity.FullRow{
		Subject:  field(row, cols.subject),
		Relation: field(row, cols.relation),
		Object:   field(row, cols.object),
		RowIndex: rowIndex,
	}
	for i, name := range cols.names {
		if i == cols.subject || i == cols.relation || i == cols.object {
			continue
		}
		if v := field(row, i); v != "" {
			if fr.Extra == nil {
				fr.Extra = make(map[string]string)
			}
			fr.Extra[strings.TrimSpace(name)] = v
		}
	}
	return fr
}

// FullRowsForSubject returns the complete corpus rows for subject, including
// extra columns, in corpus order with their positional row index.
func (s *Store) FullRowsForSubject(subject string) ([]entity.FullRow, error) {
	var matched []entity.FullRow

	err := s.scan(func(start int, rows [][]string, cols *columns) error {
		for i, row := range rows {
			if field(row, cols.subject) != subject {
				continue
			}
			matched = append(matched, fullRowAt(row, cols, start+i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

// RowsAt fetches the full rows at the given 0-based positions in a single
// scan. Positions outside the corpus are absent from the result.
func (s *Store) RowsAt(indices []int) (map[int]entity.FullRow, error) {
	wanted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 {
			wanted[idx] = true
		}
	}
	found := make(map[int]entity.FullRow, len(wanted))
	if len(wanted) == 0 {
		return found, nil
	}

	err := s.scan(func(start int, rows [][]string, cols *columns) error {
		for i, row := range rows {
			idx := start + i
			if wanted[idx] {
				found[idx] = fullRowAt(row, cols, idx)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
