package pipeline

import (
	"context"
	"fmt"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

// handleGeneric stores an intent that needs no module-specific
// processing: memos, diary entries, moods, expenses, food logs, ideas,
// gym sessions, work notes, screenshot notes and anything with an
// unrecognized module name.
func (p *Pipeline) handleGeneric(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error) {
	entry := b.newEntry(in, derivedDescription(in, b.fallbackText()))
	if err := p.store.CreateEntry(entry); err != nil {
		return nil, "", fmt.Errorf("store %s entry: %w", in.Module, err)
	}
	return entry, in.Confirmation, nil
}

func (b *batch) newEntry(in intent.Intent, description string) *store.Entry {
	return &store.Entry{
		UserID:           b.ownerID,
		InputKind:        b.inputKind,
		RawText:          b.rawText,
		ImageDescription: b.imageDescription,
		Description:      description,
		Title:            in.Title,
		Module:           string(in.Module),
		PayloadJSON:      string(in.Raw),
	}
}

// fallbackText is what a handler describes an entry with when the
// intent payload carries no usable text.
func (b *batch) fallbackText() string {
	if b.rawText != "" {
		return b.rawText
	}
	return b.imageDescription
}

// derivedDescription picks the first non-empty text field from the
// payload, in a fixed preference order, falling back to the given text.
func derivedDescription(in intent.Intent, fallback string) string {
	if g, ok := in.Payload.(intent.GenericPayload); ok {
		for _, candidate := range []string{g.Content, g.Description, g.Concept, g.Notes} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return fallback
}
