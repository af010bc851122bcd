package llm

import "context"

// Client is the interface the rest of Daybook uses to talk to a chat
// model. Implementations are expected to be safe for concurrent use.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, model string, messages []Message) (*ChatResponse, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
