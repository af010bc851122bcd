// Package intent classifies raw personal input (voice transcript, typed
// text, or image) into an ordered list of module-tagged intents, and
// owns the fallback policy when the classifier's output is unusable.
package intent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daybook-ai/daybook/internal/llm"
)

// Module identifies which handler processes an intent.
type Module string

// All modules the classifier may emit. Modules without a dedicated
// handler are persisted by the generic store handler.
const (
	ModuleMemo           Module = "memo"
	ModuleDiary          Module = "diary"
	ModuleScreenshotNote Module = "screenshot_note"
	ModuleExpense        Module = "expense"
	ModuleFood           Module = "food"
	ModuleMood           Module = "mood"
	ModuleIdea           Module = "idea"
	ModuleGym            Module = "gym"
	ModuleWork           Module = "work"
	ModuleCalendar       Module = "calendar"
	ModuleTask           Module = "task"
	ModuleRemember       Module = "remember"
	ModuleJournal        Module = "journal"
)

// Intent is one classified action extracted from a single input.
// Immutable once created; consumed exactly once by a handler.
type Intent struct {
	Module       Module
	Title        string
	Confirmation string // The classifier's suggested spoken response

	// Payload is the decoded, module-specific payload. Its concrete type
	// is determined by Module (see payload.go).
	Payload Payload

	// Raw is the classifier's data object verbatim, persisted alongside
	// the entry so nothing the model extracted is lost.
	Raw json.RawMessage
}

// Input is one raw user input to classify.
type Input struct {
	Transcript string
	Image      *llm.ImageAttachment
	Now        time.Time
	Location   *time.Location
}

// Classifier turns raw input into intents. The LLM-backed implementation
// is in classifier.go; tests substitute deterministic stubs.
type Classifier interface {
	Classify(ctx context.Context, in Input) ([]Intent, error)
}
