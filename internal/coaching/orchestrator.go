package coaching

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashrotd/singcoach/internal/llm"
)

// Defaults for the provider call.
const (
	DefaultMaxTokens = 1024
	DefaultTimeout   = 30 * time.Second
)

// Observer receives orchestration events. The metrics package provides
// the Prometheus implementation.
type Observer interface {
	ObserveFeedback(outcome Outcome)
	ObserveDegraded()
	ObserveProviderCall(d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveFeedback(Outcome) {}
func (nopObserver) ObserveDegraded() {}
func (nopObserver) ObserveProviderCall(time.Duration, error) {}

// Coach produces coaching feedback through a text provider, degrading to
// MockFeedback whenever the provider is absent or fails.
type Coach struct {
	provider  llm.Provider
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
	observer  Observer
}

// Option configures a Coach.
type Option func(*Coach)

// WithMaxTokens bounds the provider reply length.
func WithMaxTokens(n int) Option {
	return func(c *Coach) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTimeout bounds each provider call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Coach) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coach) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(c *Coach) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewCoach creates a Coach. A nil provider means no usable credential is
// configured; every request is then answered with mock feedback and no
// provider call is attempted.
func NewCoach(provider llm.Provider, opts ...Option) *Coach {
	c := &Coach{
		provider:  provider,
		maxTokens: DefaultMaxTokens,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether a provider is available. It never calls
// the provider.
func (c *Coach) IsConfigured() bool {
	return c.provider != nil
}

// GenerateCoachingFeedback runs one orchestration. The returned result
// always carries fully populated feedback; provider failures are reported
// through the result, never as an error.
func (c *Coach) GenerateCoachingFeedback(ctx context.Context, in SessionInput) FeedbackResult {
	return c.generate(ctx, in, llm.PurposeCoaching)
}

// GenerateSimpleFeedback runs the full orchestration and returns only the
// summary.
func (c *Coach) GenerateSimpleFeedback(ctx context.Context, in SessionInput) string {
	return c.generate(ctx, in, llm.PurposeQuick).Feedback.Summary
}

func (c *Coach) generate(ctx context.Context, in SessionInput, purpose string) FeedbackResult {
	if !c.IsConfigured() {
		c.logger.DebugContext(ctx, "provider not configured, using mock feedback",
			slog.String("tier", Classify(in.Score).String()))
		c.observer.ObserveFeedback(OutcomeUnconfigured)
		return FeedbackResult{
			Feedback:     MockFeedback(in),
			UsedFallback: true,
			Outcome:      OutcomeUnconfigured,
		}
	}

	callCtx := llm.WithPurpose(ctx, purpose)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.provider.Generate(callCtx, llm.Request{
		Messages:  llm.UserMessage(BuildPrompt(in)),
		MaxTokens: c.maxTokens,
	})
	c.observer.ObserveProviderCall(time.Since(start), err)

	if err != nil {
		c.logger.WarnContext(ctx, "provider call failed, using mock feedback",
			slog.String("model", c.provider.ModelID()),
			slog.Any("error", err))
		c.observer.ObserveFeedback(OutcomeFallback)
		return FeedbackResult{
			Feedback:      MockFeedback(in),
			UsedFallback:  true,
			ProviderError: err.Error(),
			Outcome:       OutcomeFallback,
		}
	}

	norm := Normalize(resp.Text)
	if norm.Degraded {
		c.logger.WarnContext(ctx, "provider reply not structured, using degraded feedback",
			slog.String("model", c.provider.ModelID()),
			slog.Any("error", norm.Err))
		c.observer.ObserveDegraded()
	}

	model := resp.Model
	if model == "" {
		model = c.provider.ModelID()
	}

	c.observer.ObserveFeedback(OutcomeProvider)
	return FeedbackResult{
		Feedback:             norm.Feedback,
		SucceededViaProvider: true,
		ProviderModel:        model,
		Degraded:             norm.Degraded,
		TokensUsed:           resp.Usage.InputTokens + resp.Usage.OutputTokens,
		Outcome:              OutcomeProvider,
	}
}
