package contract

import (
	"context"

	"healthmate-be/internal/entity"
)

// ISessionLogRepository defines the append-only per-conversation event log.
// Rounds accumulate forever; reads are full forward scans.
type ISessionLogRepository interface {
	CurrentRound(ctx context.Context, conversationID string) (int, error)
	AppendEvent(ctx context.Context, conversationID string, round int, kind, content string) error
	Events(ctx context.Context, conversationID string) ([]entity.SessionEvent, error)
	EventsOfKind(ctx context.Context, conversationID string, round int, kind string) ([]entity.SessionEvent, error)
	// MostRecentKeywordsBefore walks rounds backward from round (inclusive)
	// until one with keyword events is found. An empty result with foundRound
	// 0 means no prior context exists anywhere in the conversation.
	MostRecentKeywordsBefore(ctx context.Context, conversationID string, round int) (keywords []string, foundRound int, err error)
}
