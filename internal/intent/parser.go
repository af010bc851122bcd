package intent

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// fallbackPlaceholder stands in for the raw text when even that is
// missing (e.g. image-only input whose classification failed).
const fallbackPlaceholder = "Image processed"

// rawIntent is the wire shape of a single classified intent.
type rawIntent struct {
	Module         string          `json:"module"`
	Title          string          `json:"title"`
	SpokenResponse string          `json:"spoken_response"`
	Data           json.RawMessage `json:"data"`
}

// envelope is the expected top-level response shape.
type envelope struct {
	Intents []rawIntent `json:"intents"`
}

// ParseIntents validates and repairs the classifier's raw output into an
// ordered intent list. It never fails: on malformed JSON, a wrong shape,
// or an empty result it returns a single generic memo intent wrapping
// rawText. A single legacy-shaped object (no intents wrapper) and a bare
// array are both accepted.
func ParseIntents(output, rawText string) []Intent {
	content := stripFences(output)

	raws := decodeRaw(content)
	if raws == nil {
		// One repair attempt before giving up. The model occasionally
		// emits trailing commas or unquoted keys.
		if fixed, err := jsonrepair.JSONRepair(content); err == nil {
			raws = decodeRaw(fixed)
		}
	}

	var intents []Intent
	for _, r := range raws {
		if r.Module == "" && len(r.Data) == 0 {
			continue
		}
		intents = append(intents, buildIntent(r))
	}

	if len(intents) == 0 {
		return []Intent{fallbackMemo(rawText)}
	}
	return intents
}

// decodeRaw tries the three accepted shapes in order: wrapped object,
// bare array, legacy single object. Returns nil when none fit.
func decodeRaw(content string) []rawIntent {
	var env envelope
	if err := json.Unmarshal([]byte(content), &env); err == nil && len(env.Intents) > 0 {
		return env.Intents
	}

	var list []rawIntent
	if err := json.Unmarshal([]byte(content), &list); err == nil && len(list) > 0 {
		return list
	}

	var single rawIntent
	if err := json.Unmarshal([]byte(content), &single); err == nil {
		if single.Module != "" || len(single.Data) > 0 {
			return []rawIntent{single}
		}
	}

	return nil
}

func buildIntent(r rawIntent) Intent {
	module := Module(r.Module)
	if module == "" {
		module = ModuleMemo
	}

	title := r.Title
	if title == "" {
		title = "Entry"
	}

	confirmation := r.SpokenResponse
	if confirmation == "" {
		confirmation = "Saved."
	}

	raw := r.Data
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	return Intent{
		Module:       module,
		Title:        title,
		Confirmation: confirmation,
		Payload:      decodePayload(module, raw),
		Raw:          raw,
	}
}

// fallbackMemo is the fail-closed result: a malformed upstream response
// must never abort request processing downstream.
func fallbackMemo(rawText string) Intent {
	content := rawText
	if content == "" {
		content = fallbackPlaceholder
	}

	raw, _ := json.Marshal(map[string]string{"content": content})
	return Intent{
		Module:       ModuleMemo,
		Title:        "Voice Memo",
		Confirmation: "Got it — saved your memo.",
		Payload:      GenericPayload{Content: content},
		Raw:          raw,
	}
}

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json\n")
	s = strings.TrimPrefix(s, "```\n")
	s = strings.TrimSuffix(s, "\n```")
	return strings.TrimSpace(s)
}
