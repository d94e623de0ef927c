package coaching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashrotd/singcoach/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
	degraded int
	calls    int
	failures int
}

func (o *recordingObserver) ObserveFeedback(outcome Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveDegraded() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.degraded++
}

func (o *recordingObserver) ObserveProviderCall(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if err != nil {
		o.failures++
	}
}

func TestCoach_Unconfigured(t *testing.T) {
	obs := &recordingObserver{}
	c := NewCoach(nil, WithObserver(obs))

	require.False(t, c.IsConfigured())

	res := c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 92})
	assert.True(t, res.UsedFallback)
	assert.False(t, res.SucceededViaProvider)
	assert.Empty(t, res.ProviderError)
	assert.Empty(t, res.ProviderModel)
	assert.Equal(t, OutcomeUnconfigured, res.Outcome)
	assert.Equal(t, MockFeedback(SessionInput{Score: 92}), res.Feedback)

	assert.Equal(t, []Outcome{OutcomeUnconfigured}, obs.outcomes)
	assert.Zero(t, obs.calls)
}

func TestCoach_ProviderSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text:  "Sure! " + validReply,
		Usage: llm.Usage{InputTokens: 300, OutputTokens: 120},
	})
	obs := &recordingObserver{}
	c := NewCoach(mock, WithObserver(obs), WithMaxTokens(512))

	res := c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 81, DurationSeconds: 30})

	assert.True(t, res.SucceededViaProvider)
	assert.False(t, res.UsedFallback)
	assert.False(t, res.Degraded)
	assert.Equal(t, "mock", res.ProviderModel)
	assert.Empty(t, res.ProviderError)
	assert.Equal(t, 420, res.TokensUsed)
	assert.Equal(t, "Solid take with a steady middle register.", res.Feedback.Summary)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, 512, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, BuildPrompt(SessionInput{Score: 81, DurationSeconds: 30}), req.Messages[0].Content)

	assert.Equal(t, []Outcome{OutcomeProvider}, obs.outcomes)
	assert.Equal(t, 1, obs.calls)
	assert.Zero(t, obs.failures)
}

func TestCoach_DefaultMaxTokens(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: validReply})
	c := NewCoach(mock)
	c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 50})
	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, 1024, mock.Calls[0].MaxTokens)
}

func TestCoach_ProviderDegradedReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "You sang well, keep at it."})
	obs := &recordingObserver{}
	c := NewCoach(mock, WithObserver(obs))

	res := c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 40})

	assert.True(t, res.SucceededViaProvider)
	assert.False(t, res.UsedFallback)
	assert.True(t, res.Degraded)
	assert.Equal(t, "You sang well, keep at it.", res.Feedback.Summary)
	assert.Equal(t, DegradedEncouragement, res.Feedback.Encouragement)
	assert.Equal(t, 1, obs.degraded)
}

func TestCoach_ProviderFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrRateLimit{Err: errors.New("slow down")},
	})
	obs := &recordingObserver{}
	c := NewCoach(mock, WithObserver(obs))

	in := SessionInput{Score: 76}
	res := c.GenerateCoachingFeedback(context.Background(), in)

	assert.False(t, res.SucceededViaProvider)
	assert.True(t, res.UsedFallback)
	assert.Empty(t, res.ProviderModel)
	assert.Contains(t, res.ProviderError, "slow down")
	assert.Zero(t, res.TokensUsed)
	assert.Equal(t, MockFeedback(in), res.Feedback)
	assert.Equal(t, OutcomeFallback, res.Outcome)

	assert.Equal(t, 1, mock.CallCount(), "single attempt")
	assert.Equal(t, 1, obs.failures)
}

func TestCoach_TimeoutFallsBack(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Block = true
	c := NewCoach(mock, WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 95})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, res.UsedFallback)
	assert.Contains(t, res.ProviderError, context.DeadlineExceeded.Error())
	assert.Equal(t, MockFeedback(SessionInput{Score: 95}), res.Feedback)
}

func TestCoach_CallerCancellation(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Block = true
	c := NewCoach(mock)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	res := c.GenerateCoachingFeedback(ctx, SessionInput{Score: 10})
	assert.True(t, res.UsedFallback)
	assert.Equal(t, MockFeedback(SessionInput{Score: 10}), res.Feedback)
}

func TestCoach_ConcurrentCallsIndependent(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < 8; i++ {
		mock.AddResponse(llm.MockResponse{Text: validReply})
	}
	c := NewCoach(mock)

	var wg sync.WaitGroup
	results := make([]FeedbackResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: float64(i * 10)})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.SucceededViaProvider)
	}
	assert.Equal(t, 8, mock.CallCount())
}

func TestCoach_GenerateSimpleFeedback(t *testing.T) {
	c := NewCoach(nil)
	got := c.GenerateSimpleFeedback(context.Background(), SessionInput{Score: 61})
	assert.Equal(t, MockFeedback(SessionInput{Score: 61}).Summary, got)

	mock := llm.NewMockProvider(llm.MockResponse{Text: validReply})
	c = NewCoach(mock)
	got = c.GenerateSimpleFeedback(context.Background(), SessionInput{Score: 61})
	assert.Equal(t, "Solid take with a steady middle register.", got)
}

func TestCoach_PurposeIsTagged(t *testing.T) {
	var purposes []string
	p := purposeRecorder{record: func(s string) { purposes = append(purposes, s) }}
	c := NewCoach(p)

	c.GenerateCoachingFeedback(context.Background(), SessionInput{Score: 1})
	c.GenerateSimpleFeedback(context.Background(), SessionInput{Score: 1})

	assert.Equal(t, []string{llm.PurposeCoaching, llm.PurposeQuick}, purposes)
}

// purposeRecorder captures the usage purpose attached to each call.
type purposeRecorder struct {
	record func(string)
}

func (p purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.record(llm.PurposeFrom(ctx))
	return &llm.Response{Text: validReply}, nil
}

func (p purposeRecorder) ModelID() string { return "recorder" }
