package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/daybook-ai/daybook/internal/llm"
	"github.com/daybook-ai/daybook/internal/store"
)

// Matcher decides which open tasks a free-form completion statement
// refers to. Implementations must be fail-safe: any upstream or parse
// failure yields an empty slice, never an error, so a flaky matcher can
// only under-complete.
type Matcher interface {
	Match(ctx context.Context, freeText string, open []*store.Task) []int64
}

const matchSystemPrompt = `You are a task matching assistant. Given a statement about completed work and a list of open tasks, identify which tasks the statement refers to. Respond with JSON only.`

const matchPromptTemplate = `The user said: "%s"

Their open tasks are:
%s

Which of these open tasks does the statement refer to? The user may be describing one task or several.

Return a JSON object of the form:
{"matched_ids": [1, 2], "explanation": "brief reason"}

Rules:
- Be generous with matching: "bought groceries" matches "buy groceries", "get milk and eggs", etc.
- Only include tasks the statement plausibly completes.
- If nothing matches, return an empty matched_ids list.`

// LLMMatcher matches completion statements against open tasks with a
// model call.
type LLMMatcher struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

// NewLLMMatcher creates a matcher backed by the given model.
func NewLLMMatcher(client llm.Client, model string, logger *slog.Logger) *LLMMatcher {
	return &LLMMatcher{client: client, model: model, logger: logger}
}

func (m *LLMMatcher) Match(ctx context.Context, freeText string, open []*store.Task) []int64 {
	if len(open) == 0 {
		return nil
	}

	var lines []string
	valid := make(map[int64]bool, len(open))
	for _, task := range open {
		lines = append(lines, fmt.Sprintf("ID %d: %s [%s]", task.ID, task.Description, task.Group))
		valid[task.ID] = true
	}

	prompt := fmt.Sprintf(matchPromptTemplate, freeText, strings.Join(lines, "\n"))
	resp, err := m.client.Chat(ctx, m.model, []llm.Message{
		{Role: "system", Content: matchSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		m.logger.Warn("task matcher call failed", "error", err)
		return nil
	}

	ids := parseMatchedIDs(resp.Content)
	if ids == nil {
		m.logger.Warn("task matcher returned unparseable output", "output", resp.Content)
		return nil
	}

	// Discard hallucinated IDs. The matcher may only pick from the
	// candidate list it was shown.
	var matched []int64
	for _, id := range ids {
		if valid[id] {
			matched = append(matched, id)
		}
	}
	return matched
}

func parseMatchedIDs(output string) []int64 {
	cleaned := stripFences(output)

	var result struct {
		MatchedIDs []int64 `json:"matched_ids"`
	}
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return result.MatchedIDs
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil
	}
	return result.MatchedIDs
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
