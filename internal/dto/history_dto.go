package dto

import "healthmate-be/internal/entity"

// RecordActionRequest appends one UI action to the user's history ledger.
type RecordActionRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// HistoryResponse returns the effective (non-cancelled) history.
type HistoryResponse struct {
	Records []entity.HistoryRecord `json:"records"`
}

// UndoResponse names the record that was compensated, if any.
type UndoResponse struct {
	Undone *entity.HistoryRecord `json:"undone"`
}
