package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ChatOptions configures a single chat completion call.
type ChatOptions struct {
	// Temperature controls sampling randomness. Nil uses the provider default.
	Temperature *float64

	// MaxTokens caps the completion length in tokens. Zero uses the
	// provider default.
	MaxTokens int

	// System is an optional system prompt applied to the conversation.
	// Providers that take system text out-of-band (Claude, Gemini) receive
	// it through their native mechanism rather than as a message.
	System string
}

// LLMService defines the interface for chat completions. Implementations
// wrap a specific vendor SDK (Anthropic, Google) behind a uniform call so
// planning and generation stay provider-agnostic.
type LLMService interface {
	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context in
	// chronological order.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - messages: Conversation history in chronological order
	//   - opts: Per-call sampling and prompt options
	//
	// Returns:
	//   - string: Generated assistant response
	//   - error: Error if chat completion fails
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)

	// HealthCheck verifies the LLM service is operational and can handle
	// requests, typically by checking API connectivity and authentication.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//
	// Returns:
	//   - error: Error if service is not healthy or unreachable
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations.
	//
	// Returns:
	//   - error: Error if cleanup fails
	Close() error
}
