package coaching

import "encoding/json"

// SessionInput is the per-request view of a practice session.
type SessionInput struct {
	// Score is the overall accuracy score, nominally 0-100.
	Score float64

	// PitchData is the opaque, already-computed pitch analysis payload.
	PitchData json.RawMessage

	// DurationSeconds is the recording length.
	DurationSeconds float64
}

// Exercise is a recommended vocal exercise.
type Exercise struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
}

// Feedback is the structured coaching feedback returned to callers.
// Every field is always populated; slices are never nil.
type Feedback struct {
	Summary              string     `json:"summary"`
	Strengths            []string   `json:"strengths"`
	AreasToImprove       []string   `json:"areas_to_improve"`
	RecommendedExercises []Exercise `json:"recommended_exercises"`
	Encouragement        string     `json:"encouragement"`
	NextSessionFocus     string     `json:"next_session_focus"`
}

// Outcome names the path a feedback request took.
type Outcome string

const (
	// OutcomeProvider means the provider answered and its reply was used.
	OutcomeProvider Outcome = "provider"

	// OutcomeFallback means the provider call failed and mock feedback
	// was substituted.
	OutcomeFallback Outcome = "fallback"

	// OutcomeUnconfigured means no usable credential was set, so the
	// provider was never called.
	OutcomeUnconfigured Outcome = "unconfigured"
)

// FeedbackResult is the outcome of one orchestration run.
//
// UsedFallback implies !SucceededViaProvider. ProviderModel is set only on
// the provider path. ProviderError is set only when a provider call failed.
type FeedbackResult struct {
	Feedback             Feedback
	SucceededViaProvider bool
	UsedFallback         bool
	ProviderModel        string
	ProviderError        string

	// Degraded is set when the provider replied but the text did not
	// contain a well-formed feedback object.
	Degraded bool

	// TokensUsed is the input plus output token count reported by the
	// provider. Zero on the fallback paths.
	TokensUsed int

	Outcome Outcome
}
