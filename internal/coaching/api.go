package coaching

import "context"

// Status messages reported by AIStatus.
const (
	StatusActiveMessage = "AI coaching is active"
	StatusMockMessage   = "Using mock feedback (configure ANTHROPIC_API_KEY to enable AI)"
)

// MockModel is reported as the model when feedback did not come from a
// provider.
const MockModel = "mock"

// AnalyzeResponse is the transport-facing result of Analyze.
type AnalyzeResponse struct {
	Coaching Feedback `json:"coaching"`
	UsingAI  bool     `json:"using_ai"`
	Model    string   `json:"model"`
	Fallback bool     `json:"fallback"`

	// Result is the full orchestration result.
	Result FeedbackResult `json:"-"`
}

// Status reports whether provider-backed coaching is available.
type Status struct {
	AIConfigured bool   `json:"ai_configured"`
	Message      string `json:"message"`
}

// Analyze validates req and produces full coaching feedback. The only
// error it returns is a *ValidationError. Persisting the summary onto
// req.SessionID is left to the caller.
func (c *Coach) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	if err := ValidateRequest(req); err != nil {
		return AnalyzeResponse{}, err
	}

	res := c.GenerateCoachingFeedback(ctx, sessionInput(req.Score, req.PitchData, req.DurationSeconds))

	model := MockModel
	if res.SucceededViaProvider {
		model = res.ProviderModel
	}
	return AnalyzeResponse{
		Coaching: res.Feedback,
		UsingAI:  res.SucceededViaProvider,
		Model:    model,
		Fallback: res.UsedFallback,
		Result:   res,
	}, nil
}

// Quick validates req and returns the feedback summary only.
func (c *Coach) Quick(ctx context.Context, req QuickRequest) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}
	return c.GenerateSimpleFeedback(ctx, sessionInput(req.Score, req.PitchData, req.DurationSeconds)), nil
}

// AIStatus reports capability without contacting the provider.
func (c *Coach) AIStatus() Status {
	if c.IsConfigured() {
		return Status{AIConfigured: true, Message: StatusActiveMessage}
	}
	return Status{AIConfigured: false, Message: StatusMockMessage}
}

// UserStats aggregates a user's sessions.
func UserStats(sessions []SessionStat) PracticeStats {
	return Aggregate(sessions)
}
