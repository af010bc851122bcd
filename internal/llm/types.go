// Package llm provides the chat-completion client used for intent
// classification, task matching, and digest summaries.
package llm

import "time"

// Message represents a chat message for the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Image optionally attaches image bytes to a user message. Providers
	// that support vision render it as an image content block.
	Image *ImageAttachment `json:"image,omitempty"`
}

// ImageAttachment carries raw image bytes plus their media type
// (e.g. "image/jpeg", "image/png").
type ImageAttachment struct {
	Data      []byte `json:"-"`
	MediaType string `json:"media_type"`
}

// ChatResponse is the provider-neutral response to a chat request.
type ChatResponse struct {
	Model     string
	CreatedAt time.Time
	Content   string

	// Token usage
	InputTokens  int
	OutputTokens int
}
