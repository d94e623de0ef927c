package llm

import "context"

// Provider is the core abstraction for talking to a generative text model.
// Callers send a Request and receive the model's raw text reply.
type Provider interface {
	// Generate sends a prompt to the model and returns its text response.
	// Implementations must honour ctx cancellation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the optional system prompt.
	System string

	// Messages is the conversation. Coaching feedback always sends a
	// single user turn.
	Messages []Message

	// MaxTokens bounds the length of the generated reply.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage builds a single-turn request body.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Response holds the model's output.
type Response struct {
	// Text is the first text block of the reply, unmodified.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
