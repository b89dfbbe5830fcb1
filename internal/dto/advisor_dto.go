package dto

// QuestionRequest is the single conversational entrypoint. Include/exclude
// lists route to the set filter; FollowUp routes through intent
// classification to recommend-more or chase; otherwise a new round starts.
type QuestionRequest struct {
	UserID   string   `json:"user_id" validate:"required"`
	Question string   `json:"question"`
	Include  []string `json:"include,omitempty" validate:"max=20"`
	Exclude  []string `json:"exclude,omitempty" validate:"max=20"`
	FollowUp bool     `json:"follow_up,omitempty"`
}

// NewRoundRequest starts a top-level question round explicitly.
type NewRoundRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

// FilterRequest narrows the previous keyword pool by ingredients.
type FilterRequest struct {
	UserID  string   `json:"user_id" validate:"required"`
	Include []string `json:"include" validate:"max=20"`
	Exclude []string `json:"exclude" validate:"max=20"`
}

// FilterStepDTO reports the pool size after one narrowing constraint.
type FilterStepDTO struct {
	Kind       string `json:"kind"`
	Ingredient string `json:"ingredient,omitempty"`
	Remaining  int    `json:"remaining"`
}

// RecommendationResponse is returned by new-round, recommend-more and
// filter operations. Keywords are the internal effect keywords of the round;
// Presented holds the display names of the recipes shown in the answer;
// Candidates is the ranked pool backing the round; Subgraphs carries the
// rendered knowledge-graph context per presented recipe.
type RecommendationResponse struct {
	Round       int             `json:"round"`
	Answer      string          `json:"final_answer"`
	Keywords    []string        `json:"keywords,omitempty"`
	Presented   []string        `json:"presented,omitempty"`
	Candidates  []string        `json:"candidates,omitempty"`
	Subgraphs   []string        `json:"subgraphs,omitempty"`
	FilterSteps []FilterStepDTO `json:"filter_steps,omitempty"`
	Exhausted   bool            `json:"exhausted,omitempty"`
	ExhaustedAt *FilterStepDTO  `json:"exhausted_at,omitempty"`
}

// ChaseResponse deepens the previous answer without a new candidate pool.
type ChaseResponse struct {
	Round  int    `json:"round"`
	Answer string `json:"final_answer"`
}
