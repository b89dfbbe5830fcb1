package entity

// SessionEvent is one record of the append-only per-conversation event log.
// Round groups all events belonging to one question/answer exchange.
type SessionEvent struct {
	Round   int    `json:"round"`
	Kind    string `json:"type"`
	Content string `json:"content"`
	Time    string `json:"time"`
}
