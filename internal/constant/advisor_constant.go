package constant

const (
	// Session event log kinds
	EventKindQuestion  = "question"
	EventKindKeyword   = "keyword"
	EventKindCandidate = "candidate"
	EventKindAnswer    = "answer"

	// History ledger action types
	HistoryTypeInclude = "include"
	HistoryTypeExclude = "exclude"
	HistoryTypeCancel  = "cancel"
	HistoryTypeApply   = "apply"
	HistoryTypeChat    = "chat"

	// Knowledge-graph relations (overridable via config for non-English corpora)
	DefaultEffectRelation     = "recipe-has-effect"
	DefaultIngredientRelation = "recipe-has-ingredient"

	// Candidate pool policy: 50 ranked candidates per new round, 3 presented,
	// and "recommend more" serves the next fixed slice [3,6).
	CandidatePoolSize    = 50
	RecommendCount       = 3
	MoreSliceStart       = 3
	MoreSliceEnd         = 6
	MinCandidatesForMore = 6

	// Timestamp layout shared by the session log and history ledger.
	LedgerTimeLayout = "2006-01-02 15:04:05"

	// Azure OpenAI defaults
	AzureDefaultAPIVersion = "2024-05-01-preview"

	// Ollama defaults
	OllamaDefaultBaseURL = "http://localhost:11434"
	OllamaDefaultModel   = "llama3.1:8b"
)

// RecognizedHistoryTypes lists the action types the ledger persists.
// Anything else is dropped silently: the frontend sends UI-only event
// types that are irrelevant to replayable history.
var RecognizedHistoryTypes = map[string]bool{
	HistoryTypeInclude: true,
	HistoryTypeExclude: true,
	HistoryTypeCancel:  true,
	HistoryTypeApply:   true,
	HistoryTypeChat:    true,
}
