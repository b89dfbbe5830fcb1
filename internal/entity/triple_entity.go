package entity

// Triple is an immutable (subject, relation, object) fact from the recipe
// knowledge base. RowIndex is the 0-based position of the backing data row,
// kept so the paired translation row (RowIndex+1) can be located later.
type Triple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
	RowIndex int    `json:"row_index"`
}

// Key returns the identity of the triple. Two triples with the same key are
// indistinguishable and deduplicated by search results.
func (t Triple) Key() string {
	return t.Subject + "\x1f" + t.Relation + "\x1f" + t.Object
}

// FullRow is a complete corpus row: the three required columns plus any
// extra columns preserved opaquely by name.
type FullRow struct {
	Subject  string            `json:"subject"`
	Relation string            `json:"relation"`
	Object   string            `json:"object"`
	Extra    map[string]string `json:"extra,omitempty"`
	RowIndex int               `json:"row_index"`
}
