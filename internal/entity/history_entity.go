package entity

// HistoryRecord is one UI-level action in the per-user history ledger.
// A "cancel" record negates the nearest preceding non-cancelled
// include/exclude record when the ledger is replayed.
type HistoryRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Time    string `json:"time"`
}
