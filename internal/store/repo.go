package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Default and maximum page sizes for session listings.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Session is one recorded practice attempt.
type Session struct {
	ID              string
	UserID          string
	AudioURL        string
	PitchData       json.RawMessage
	Feedback        *string
	Score           *float64
	DurationSeconds *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SessionFilter narrows a session listing. Empty fields match everything.
type SessionFilter struct {
	UserID string
}

// Page selects a window of results. A zero Limit means DefaultPageLimit.
type Page struct {
	Limit  int
	Offset int
}

// SessionUpdate holds the fields to change. Nil fields are left untouched.
type SessionUpdate struct {
	UserID          *string
	AudioURL        *string
	PitchData       json.RawMessage
	Feedback        *string
	Score           *float64
	DurationSeconds *float64
}

// SessionMetrics is the score/duration pair used for aggregation.
type SessionMetrics struct {
	Score           *float64
	DurationSeconds *float64
}

// SessionRepo persists practice session records.
type SessionRepo interface {
	// Insert stores a new session, assigning its ID and timestamps.
	Insert(ctx context.Context, sess *Session) error

	// List returns sessions ordered by creation time, newest first.
	List(ctx context.Context, filter SessionFilter, page Page) ([]Session, error)

	// Get returns the session with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Update applies a partial update and returns the stored record.
	Update(ctx context.Context, id string, upd SessionUpdate) (*Session, error)

	// Delete removes a session or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ListForStats returns the score and duration of every session
	// belonging to userID.
	ListForStats(ctx context.Context, userID string) ([]SessionMetrics, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose, sorted by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model, sorted by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
