package kg

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

func testCorpus(t *testing.T) *Store {
	t.Helper()
	path := writeCorpus(t, [][]string{
		{"subject", "relation", "object", "category"},
		{"Ginger Congee", "recipe-has-effect", "warming", "breakfast"},
		{"Ginger Congee EN", "recipe-has-effect", "warming", "breakfast"},
		{"Ginger Congee", "recipe-has-ingredient", "ginger", ""},
		{"Ginger Congee", "recipe-has-ingredient", "rice", ""},
		{"Lotus Soup", "recipe-has-effect", "calming", "soup"},
		{"Lotus Soup", "recipe-has-effect", "warming", "soup"},
		{"Lotus Soup", "recipe-has-effect", "warming", "soup"}, // duplicate row
		{"", "recipe-has-effect", "warming", ""},               // missing subject
		{"Broken Row", "", "warming", ""},                      // missing relation
	})
	store, err := NewStore(path)
	require.NoError(t, err)
	return store
}

func TestNewStoreMissingFile(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSearchExactRelation(t *testing.T) {
	store := testCorpus(t)

	triples, err := store.Search("recipe-has-effect", "", true)
	require.NoError(t, err)

	subjects := make([]string, 0, len(triples))
	for _, tr := range triples {
		assert.Equal(t, "recipe-has-effect", tr.Relation)
		subjects = append(subjects, tr.Subject)
	}
	// Rows missing subject/relation are filtered, the duplicate row deduped.
	assert.Equal(t, []string{"Ginger Congee", "Ginger Congee EN", "Lotus Soup", "Lotus Soup"}, subjects)
}

func TestSearchDeduplicates(t *testing.T) {
	store := testCorpus(t)

	triples, err := store.Search("recipe-has-effect", "warming", true)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, tr := range triples {
		key := tr.Subject + "|" + tr.Relation + "|" + tr.Object
		assert.False(t, seen[key], "duplicate triple returned: %s", key)
		seen[key] = true
	}
	assert.Len(t, triples, 3)
}

func TestSearchSubstringRelationAndObjectFilter(t *testing.T) {
	store := testCorpus(t)

	triples, err := store.Search("has-ingredient", "gin", false)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "ginger", triples[0].Object)
}

func TestSearchCacheReturnsSameResult(t *testing.T) {
	store := testCorpus(t)

	first, err := store.Search("recipe-has-effect", "calming", true)
	require.NoError(t, err)
	second, err := store.Search("recipe-has-effect", "calming", true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllTriplesForSubject(t *testing.T) {
	store := testCorpus(t)

	triples, err := store.AllTriplesForSubject("Ginger Congee")
	require.NoError(t, err)
	require.Len(t, triples, 3)
	for _, tr := range triples {
		assert.Equal(t, "Ginger Congee", tr.Subject)
	}
}

func TestFullRowsForSubject(t *testing.T) {
	store := testCorpus(t)

	rows, err := store.FullRowsForSubject("Lotus Soup")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "soup", rows[0].Extra["category"])
	assert.Equal(t, 4, rows[0].RowIndex)
}

func TestRowsAt(t *testing.T) {
	store := testCorpus(t)

	// The row after "Ginger Congee" holds the English variant by convention.
	rows, err := store.RowsAt([]int{1, -3, 9999})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ginger Congee EN", rows[1].Subject)
}

func TestScanChunkBoundaries(t *testing.T) {
	store := testCorpus(t)
	store.chunkSize = 2

	triples, err := store.Search("recipe-has-effect", "", true)
	require.NoError(t, err)
	assert.Len(t, triples, 4)
	assert.Equal(t, 5, triples[3].RowIndex)
}
