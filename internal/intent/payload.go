package intent

import (
	"encoding/json"
	"strings"
)

// Payload is the module-tagged union of intent payloads. Handlers
// type-switch on the concrete type matching their module family.
type Payload interface {
	payload()
}

// CalendarPayload carries an event to create.
type CalendarPayload struct {
	Title         string `json:"title"`
	Start         string `json:"start"` // ISO 8601, may be empty
	End           string `json:"end"`
	Location      string `json:"location"`
	NotifyPartner bool   `json:"notify_partner"`
}

// TaskPayload carries either task creation or task completion. Action
// selects the path; "create" is assumed when absent.
type TaskPayload struct {
	Action string     `json:"action"`
	Tasks  []TaskSpec `json:"tasks"`

	// Completed lists free-text descriptions of what was finished.
	Completed []string `json:"completed"`

	// Top-level fields used when the classifier emits a single implicit
	// task instead of a tasks array.
	Description string `json:"description"`
	Group       string `json:"group"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
}

// TaskSpec is one task to create.
type TaskSpec struct {
	Description string `json:"description"`
	Group       string `json:"group"`
	Priority    string `json:"priority"`
	Due         string `json:"due"` // ISO 8601, may be empty or malformed
}

// RememberPayload carries facts to keep.
type RememberPayload struct {
	Items []RememberSpec `json:"items"`

	// Implicit single-item form.
	Content  string     `json:"content"`
	Category string     `json:"category"`
	Tags     stringList `json:"tags"`
}

// RememberSpec is one fact to keep.
type RememberSpec struct {
	Content  string     `json:"content"`
	Category string     `json:"category"`
	Tags     stringList `json:"tags"`
}

// JournalPayload carries logged activities.
type JournalPayload struct {
	Activities []ActivitySpec `json:"activities"`

	// Implicit single-activity form.
	Content      string `json:"content"`
	ActivityType string `json:"activity_type"`
	Topic        string `json:"topic"`
}

// ActivitySpec is one logged activity.
type ActivitySpec struct {
	Content      string `json:"content"`
	ActivityType string `json:"activity_type"`
	Topic        string `json:"topic"`
}

// GenericPayload covers every module handled by the generic store
// handler. Only the fields that feed the derived description are
// decoded; the full payload is kept verbatim on Intent.Raw.
type GenericPayload struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	Concept     string `json:"concept"`
	Notes       string `json:"notes"`
}

func (CalendarPayload) payload() {}
func (TaskPayload) payload()     {}
func (RememberPayload) payload() {}
func (JournalPayload) payload()  {}
func (GenericPayload) payload()  {}

// decodePayload decodes raw data into the payload type for the module.
// Unknown modules decode as generic. Decode errors degrade to an empty
// payload of the right type rather than failing the intent; the raw
// data is still persisted verbatim.
func decodePayload(m Module, raw json.RawMessage) Payload {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	switch m {
	case ModuleCalendar:
		var p CalendarPayload
		_ = json.Unmarshal(raw, &p)
		return p
	case ModuleTask:
		var p TaskPayload
		_ = json.Unmarshal(raw, &p)
		return p
	case ModuleRemember:
		var p RememberPayload
		_ = json.Unmarshal(raw, &p)
		return p
	case ModuleJournal:
		var p JournalPayload
		_ = json.Unmarshal(raw, &p)
		return p
	default:
		var p GenericPayload
		_ = json.Unmarshal(raw, &p)
		return p
	}
}

// stringList accepts either a JSON array of strings or a single string
// (the classifier occasionally emits "a, b" instead of ["a", "b"]).
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*l = nil
			return nil
		}
		parts := strings.Split(single, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		*l = parts
		return nil
	}

	// Tolerate any other shape by dropping the tags.
	*l = nil
	return nil
}
