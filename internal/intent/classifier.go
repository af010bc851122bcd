package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/daybook-ai/daybook/internal/llm"
)

// LLMClassifier classifies input with a chat model. It is the only
// component whose failure aborts a request: with no intents there is
// nothing downstream to process.
type LLMClassifier struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

// NewLLMClassifier creates a classifier backed by the given client and
// model.
func NewLLMClassifier(client llm.Client, model string, logger *slog.Logger) *LLMClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMClassifier{
		client: client,
		model:  model,
		logger: logger.With("component", "classifier"),
	}
}

// Classify sends the input to the model and parses the result. A failed
// call is returned as an error (upstream classification failure); a
// successful call with unusable output is contained by ParseIntents and
// never surfaces.
func (c *LLMClassifier) Classify(ctx context.Context, in Input) ([]Intent, error) {
	if in.Transcript == "" && in.Image == nil {
		return []Intent{emptyInputIntent()}, nil
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	userText := in.Transcript
	if in.Image != nil && in.Transcript == "" {
		userText = "Analyze this image and classify what type of information it contains."
	}

	messages := []llm.Message{
		{Role: "system", Content: ClassifyPrompt(now, in.Location)},
		{Role: "user", Content: userText, Image: in.Image},
	}

	resp, err := c.client.Chat(ctx, c.model, messages)
	if err != nil {
		return nil, fmt.Errorf("classification call: %w", err)
	}

	intents := ParseIntents(resp.Content, in.Transcript)
	c.logger.Debug("input classified",
		"intents", len(intents),
		"first_module", string(intents[0].Module),
	)
	return intents, nil
}

// emptyInputIntent is returned without calling the model when there is
// nothing to classify.
func emptyInputIntent() Intent {
	raw, _ := json.Marshal(map[string]string{"content": ""})
	return Intent{
		Module:       ModuleMemo,
		Title:        "Empty Input",
		Confirmation: "I didn't catch anything. Could you try again?",
		Payload:      GenericPayload{},
		Raw:          raw,
	}
}
