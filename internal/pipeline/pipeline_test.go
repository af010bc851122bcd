package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

type stubClassifier struct {
	intents []intent.Intent
	err     error
	input   intent.Input
}

func (s *stubClassifier) Classify(_ context.Context, in intent.Input) ([]intent.Intent, error) {
	s.input = in
	return s.intents, s.err
}

type stubMatcher struct {
	ids   []int64
	calls []string
}

func (m *stubMatcher) Match(_ context.Context, freeText string, _ []*store.Task) []int64 {
	m.calls = append(m.calls, freeText)
	return m.ids
}

func setupPipeline(t *testing.T, classifier intent.Classifier, matcher Matcher, opts ...Option) (*Pipeline, *store.Store) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st, err := store.NewWithDB(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return New(st, classifier, matcher, time.UTC, logger, opts...), st
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func newOwner(t *testing.T, st *store.Store) int64 {
	u, err := st.CreateUser("me@example.com", "Me", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func taskIntent(specs ...intent.TaskSpec) intent.Intent {
	payload := intent.TaskPayload{Action: "create", Tasks: specs}
	raw, _ := json.Marshal(payload)
	return intent.Intent{
		Module:       intent.ModuleTask,
		Title:        "Tasks",
		Confirmation: "Added to your list.",
		Payload:      payload,
		Raw:          raw,
	}
}

func TestTaxonomyResolveCaseInsensitive(t *testing.T) {
	tax := NewTaxonomy()
	tax.Load(DimGroup, []string{"Errands", "House"})

	if got := tax.Resolve(DimGroup, "errands"); got != "Errands" {
		t.Errorf("Resolve(errands) = %q, want Errands", got)
	}
	if got := tax.Resolve(DimGroup, "Dogs"); got != "Dogs" {
		t.Errorf("Resolve(Dogs) = %q, want Dogs", got)
	}
	// Novel labels are remembered for the rest of the batch.
	if got := tax.Resolve(DimGroup, "DOGS"); got != "Dogs" {
		t.Errorf("Resolve(DOGS) = %q, want Dogs", got)
	}
	if got := tax.Resolve(DimGroup, ""); got != "" {
		t.Errorf("Resolve of empty = %q, want empty", got)
	}
}

func TestProcessClassifierErrorPropagates(t *testing.T) {
	classifier := &stubClassifier{err: context.DeadlineExceeded}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	_, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "hello", InputKind: "text"})
	if err == nil {
		t.Fatal("want error when classification fails")
	}
}

func TestGenericStoreHandler(t *testing.T) {
	raw := json.RawMessage(`{"content": "pick up milk eventually"}`)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:       intent.ModuleMemo,
		Title:        "Milk",
		Confirmation: "Got it.",
		Payload:      intent.GenericPayload{Content: "pick up milk eventually"},
		Raw:          raw,
	}}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "milk note", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.SpokenResponse != "Got it." {
		t.Errorf("response = %q", res.SpokenResponse)
	}
	if res.PrimaryModule != "memo" || res.PrimaryID == 0 {
		t.Errorf("primary = %s/%d", res.PrimaryModule, res.PrimaryID)
	}

	entries, err := st.RecentEntries(owner, 10)
	if err != nil {
		t.Fatalf("recent entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Description != "pick up milk eventually" {
		t.Errorf("description = %q", entries[0].Description)
	}
	if entries[0].PayloadJSON != string(raw) {
		t.Errorf("payload = %q", entries[0].PayloadJSON)
	}
}

func TestUnknownModuleFallsBackToGeneric(t *testing.T) {
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:       intent.Module("horoscope"),
		Title:        "Entry",
		Confirmation: "Saved.",
		Payload:      intent.GenericPayload{},
		Raw:          json.RawMessage("{}"),
	}}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "stars", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Entries != 1 {
		t.Fatalf("entries = %d, want 1", res.Entries)
	}
	entries, _ := st.RecentEntries(owner, 10)
	if entries[0].Module != "horoscope" {
		t.Errorf("module = %q", entries[0].Module)
	}
	if entries[0].Description != "stars" {
		t.Errorf("description = %q, want raw text fallback", entries[0].Description)
	}
}

func TestTaskCreateDefaultsPriority(t *testing.T) {
	classifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "buy milk", Group: "Errands"}),
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "buy milk", InputKind: "text"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	open, err := st.OpenTasks(owner)
	if err != nil {
		t.Fatalf("open tasks: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("got %d open tasks, want 1", len(open))
	}
	if open[0].Priority != store.PriorityThisWeek {
		t.Errorf("priority = %q, want this_week", open[0].Priority)
	}
	if open[0].Group != "Errands" {
		t.Errorf("group = %q", open[0].Group)
	}
}

func TestTaskCreateUnrecognizedPriorityNormalized(t *testing.T) {
	classifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "file taxes", Priority: "someday-maybe"}),
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "taxes", InputKind: "text"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	open, _ := st.OpenTasks(owner)
	if open[0].Priority != store.PriorityThisWeek {
		t.Errorf("priority = %q, want this_week", open[0].Priority)
	}
}

func TestTaskCreateMalformedDueSwallowed(t *testing.T) {
	classifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "call mom", Due: "next tuesday-ish"}),
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "call mom", InputKind: "text"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	open, _ := st.OpenTasks(owner)
	if len(open) != 1 {
		t.Fatalf("got %d open tasks, want 1", len(open))
	}
	if open[0].DueAt != nil {
		t.Errorf("due = %v, want unset", open[0].DueAt)
	}
}

func TestBatchSharesCanonicalGroup(t *testing.T) {
	// Two intents in one batch, one says "errands", the other "Errands".
	// Whatever was seen first wins for both.
	classifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "buy milk", Group: "errands"}),
		taskIntent(intent.TaskSpec{Description: "mail letter", Group: "Errands"}),
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "errands", InputKind: "text"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	open, _ := st.OpenTasks(owner)
	if len(open) != 2 {
		t.Fatalf("got %d open tasks, want 2", len(open))
	}
	for _, task := range open {
		if task.Group != "errands" {
			t.Errorf("task %q group = %q, want errands", task.Description, task.Group)
		}
	}

	groups, _ := st.TaskGroups(owner)
	if len(groups) != 1 {
		t.Errorf("groups = %v, want exactly one", groups)
	}
}

func TestTaskCompletionRoundTrip(t *testing.T) {
	createClassifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "walk the dog", Group: "Dogs"}),
	}}
	matcher := &stubMatcher{}
	p, st := setupPipeline(t, createClassifier, matcher)
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "walk the dog", InputKind: "text"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	open, _ := st.OpenTasks(owner)
	if len(open) != 1 {
		t.Fatalf("got %d open tasks, want 1", len(open))
	}
	matcher.ids = []int64{open[0].ID}

	completePayload := intent.TaskPayload{Action: "complete", Completed: []string{"walked the dog"}}
	raw, _ := json.Marshal(completePayload)
	createClassifier.intents = []intent.Intent{{
		Module:  intent.ModuleTask,
		Title:   "Done",
		Payload: completePayload,
		Raw:     raw,
	}}

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "I walked the dog", InputKind: "text"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(res.SpokenResponse, "Done! Marked as complete: walk the dog.") {
		t.Errorf("response = %q", res.SpokenResponse)
	}
	if len(matcher.calls) == 0 || !strings.Contains(matcher.calls[0], "walked the dog") {
		t.Errorf("matcher calls = %v", matcher.calls)
	}

	open, _ = st.OpenTasks(owner)
	if len(open) != 0 {
		t.Errorf("still %d open tasks after completion", len(open))
	}
}

func TestCompletionWithNoOpenTasks(t *testing.T) {
	completePayload := intent.TaskPayload{Action: "complete", Completed: []string{"mowed the lawn"}}
	raw, _ := json.Marshal(completePayload)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:  intent.ModuleTask,
		Title:   "Done",
		Payload: completePayload,
		Raw:     raw,
	}}}
	matcher := &stubMatcher{ids: []int64{99}}
	p, st := setupPipeline(t, classifier, matcher)
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "mowed the lawn", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(res.SpokenResponse, "couldn't find a matching open task") {
		t.Errorf("response = %q", res.SpokenResponse)
	}
	if len(matcher.calls) != 0 {
		t.Errorf("matcher called with zero open tasks: %v", matcher.calls)
	}

	// The attempt itself is still recorded.
	entries, _ := st.RecentEntries(owner, 10)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Description != "Completed 0 task(s)" {
		t.Errorf("description = %q", entries[0].Description)
	}
}

func TestMultiIntentBatch(t *testing.T) {
	rememberPayload := intent.RememberPayload{Items: []intent.RememberSpec{{
		Content:  "wifi password is blue42",
		Category: "Passwords",
	}}}
	rememberRaw, _ := json.Marshal(rememberPayload)
	classifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "buy milk", Group: "Errands"}),
		{
			Module:  intent.ModuleRemember,
			Title:   "Wifi password",
			Payload: rememberPayload,
			Raw:     rememberRaw,
		},
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{
		OwnerID:   owner,
		RawText:   "buy milk and also remember the wifi password is blue42",
		InputKind: "text",
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Entries != 2 {
		t.Fatalf("entries = %d, want 2", res.Entries)
	}
	if !strings.Contains(res.SpokenResponse, "Added task: buy milk") {
		t.Errorf("response missing task confirmation: %q", res.SpokenResponse)
	}
	if !strings.Contains(res.SpokenResponse, "Noted under Passwords") {
		t.Errorf("response missing remember confirmation: %q", res.SpokenResponse)
	}
	if res.PrimaryModule != "task" {
		t.Errorf("primary module = %q, want task", res.PrimaryModule)
	}

	entries, _ := st.RecentEntries(owner, 10)
	if len(entries) != 2 {
		t.Errorf("got %d persisted entries, want 2", len(entries))
	}
	categories, _ := st.RememberCategories(owner)
	if len(categories) != 1 || categories[0] != "Passwords" {
		t.Errorf("categories = %v", categories)
	}
}

func TestAutoCompletionFromJournal(t *testing.T) {
	matcher := &stubMatcher{}
	createClassifier := &stubClassifier{intents: []intent.Intent{
		taskIntent(intent.TaskSpec{Description: "walk the dog", Group: "Dogs"}),
	}}
	p, st := setupPipeline(t, createClassifier, matcher)
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "walk the dog", InputKind: "text"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	open, _ := st.OpenTasks(owner)
	matcher.ids = []int64{open[0].ID}

	journalPayload := intent.JournalPayload{Activities: []intent.ActivitySpec{
		{Content: "walked the dog and made dinner", ActivityType: "household"},
	}}
	journalRaw, _ := json.Marshal(journalPayload)
	createClassifier.intents = []intent.Intent{{
		Module:  intent.ModuleJournal,
		Title:   "Evening",
		Payload: journalPayload,
		Raw:     journalRaw,
	}}

	res, err := p.Process(context.Background(), Request{
		OwnerID:   owner,
		RawText:   "walked the dog and made dinner",
		InputKind: "text",
	})
	if err != nil {
		t.Fatalf("journal batch: %v", err)
	}
	if !strings.Contains(res.SpokenResponse, "Logged: walked the dog and made dinner") {
		t.Errorf("response missing journal confirmation: %q", res.SpokenResponse)
	}
	if !strings.Contains(res.SpokenResponse, "Also marked as done: walk the dog.") {
		t.Errorf("response missing auto-completion clause: %q", res.SpokenResponse)
	}
	if len(matcher.calls) != 1 || !strings.Contains(matcher.calls[0], "walked the dog") {
		t.Errorf("matcher calls = %v", matcher.calls)
	}

	open, _ = st.OpenTasks(owner)
	if len(open) != 0 {
		t.Errorf("task not auto-completed, %d still open", len(open))
	}
}

func TestAutoCompletionSkipsNonActionable(t *testing.T) {
	moodRaw := json.RawMessage(`{"rating": 3, "notes": "tired"}`)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:  intent.ModuleMood,
		Title:   "Mood",
		Payload: intent.GenericPayload{Notes: "tired"},
		Raw:     moodRaw,
	}}}
	matcher := &stubMatcher{ids: []int64{1}}
	p, st := setupPipeline(t, classifier, matcher)
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "feeling tired", InputKind: "text"}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(matcher.calls) != 0 {
		t.Errorf("matcher called for mood-only batch: %v", matcher.calls)
	}
}

func TestHandlerFailureDoesNotAbortBatch(t *testing.T) {
	classifier := &stubClassifier{intents: []intent.Intent{
		{
			Module:  intent.Module("boom"),
			Title:   "Boom",
			Payload: intent.GenericPayload{},
			Raw:     json.RawMessage("{}"),
		},
		taskIntent(intent.TaskSpec{Description: "buy milk"}),
	}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	p.handlers[intent.Module("boom")] = func(context.Context, *batch, intent.Intent) (*store.Entry, string, error) {
		panic("handler exploded")
	}
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "mixed", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(res.SpokenResponse, "Error processing boom") {
		t.Errorf("response = %q", res.SpokenResponse)
	}
	if !strings.Contains(res.SpokenResponse, "Added task: buy milk") {
		t.Errorf("second intent not processed: %q", res.SpokenResponse)
	}
	if res.Entries != 1 {
		t.Errorf("entries = %d, want 1", res.Entries)
	}
}

func TestJournalTopicNormalized(t *testing.T) {
	first := intent.JournalPayload{Activities: []intent.ActivitySpec{
		{Content: "worked on the deck", Topic: "House Reno"},
	}}
	firstRaw, _ := json.Marshal(first)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module: intent.ModuleJournal, Title: "Work", Payload: first, Raw: firstRaw,
	}}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "deck", InputKind: "text"}); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	second := intent.JournalPayload{Activities: []intent.ActivitySpec{
		{Content: "sanded the railing", Topic: "house reno"},
	}}
	secondRaw, _ := json.Marshal(second)
	classifier.intents = []intent.Intent{{
		Module: intent.ModuleJournal, Title: "More work", Payload: second, Raw: secondRaw,
	}}
	if _, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "railing", InputKind: "text"}); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	topics, _ := st.JournalTopics(owner)
	if len(topics) != 1 || topics[0] != "House Reno" {
		t.Errorf("topics = %v, want [House Reno]", topics)
	}
}

type stubEvents struct {
	uid      string
	err      error
	gotTitle string
}

func (s *stubEvents) CreateEvent(_ context.Context, title string, _ time.Time, _ *time.Time, _, _ string) (string, error) {
	s.gotTitle = title
	return s.uid, s.err
}

type stubNotifier struct {
	names    []string
	explicit bool
}

func (s *stubNotifier) NotifyEvent(_ context.Context, _, _ string, _ *time.Time, _ string, explicit bool) []string {
	s.explicit = explicit
	return s.names
}

func TestCalendarHandlerSideEffects(t *testing.T) {
	payload := intent.CalendarPayload{
		Title: "Dentist", Start: "2026-09-01T10:00:00Z", Location: "Main St",
		NotifyPartner: true,
	}
	raw, _ := json.Marshal(payload)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:       intent.ModuleCalendar,
		Title:        "Dentist",
		Confirmation: "Booked the dentist.",
		Payload:      payload,
		Raw:          raw,
	}}}
	events := &stubEvents{uid: "remote-123"}
	notifier := &stubNotifier{names: []string{"Sam"}}
	p, st := setupPipeline(t, classifier, &stubMatcher{}, WithEventCreator(events), WithNotifier(notifier))
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "dentist sept 1 at 10", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if events.gotTitle != "Dentist" {
		t.Errorf("event title = %q", events.gotTitle)
	}
	if !notifier.explicit {
		t.Error("notify_partner flag not passed to notifier")
	}
	for _, want := range []string{"Booked the dentist.", "Added to your calendar.", "Notified Sam."} {
		if !strings.Contains(res.SpokenResponse, want) {
			t.Errorf("response %q missing %q", res.SpokenResponse, want)
		}
	}
}

func TestCalendarExternalFailureDegrades(t *testing.T) {
	payload := intent.CalendarPayload{Title: "Dentist", Start: "2026-09-01T10:00:00Z"}
	raw, _ := json.Marshal(payload)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module:       intent.ModuleCalendar,
		Title:        "Dentist",
		Confirmation: "Booked the dentist.",
		Payload:      payload,
		Raw:          raw,
	}}}
	events := &stubEvents{err: context.DeadlineExceeded}
	p, st := setupPipeline(t, classifier, &stubMatcher{}, WithEventCreator(events))
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "dentist", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if strings.Contains(res.SpokenResponse, "Added to your calendar.") {
		t.Errorf("response claims calendar success: %q", res.SpokenResponse)
	}
	if res.Entries != 1 {
		t.Errorf("entries = %d, want 1", res.Entries)
	}
}

func TestRememberImplicitSingleItem(t *testing.T) {
	payload := intent.RememberPayload{Content: "insurance policy is ABC123", Category: "finance"}
	raw, _ := json.Marshal(payload)
	classifier := &stubClassifier{intents: []intent.Intent{{
		Module: intent.ModuleRemember, Title: "Insurance", Payload: payload, Raw: raw,
	}}}
	p, st := setupPipeline(t, classifier, &stubMatcher{})
	owner := newOwner(t, st)

	res, err := p.Process(context.Background(), Request{OwnerID: owner, RawText: "policy", InputKind: "text"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(res.SpokenResponse, "Noted under finance") {
		t.Errorf("response = %q", res.SpokenResponse)
	}
	categories, _ := st.RememberCategories(owner)
	if len(categories) != 1 {
		t.Errorf("categories = %v", categories)
	}
}

func TestDeriveActivities(t *testing.T) {
	foodRaw := json.RawMessage(`{"meal": "breakfast", "items": ["eggs", "toast"]}`)
	gymRaw := json.RawMessage(`{"exercises": [{"name": "squats", "sets": 3}], "type": "strength"}`)
	expenseRaw := json.RawMessage(`{"amount": 42.5, "vendor": "Canadian Tire"}`)
	calPayload := intent.CalendarPayload{Title: "Dentist"}

	intents := []intent.Intent{
		{Module: intent.ModuleFood, Payload: intent.GenericPayload{}, Raw: foodRaw},
		{Module: intent.ModuleGym, Payload: intent.GenericPayload{}, Raw: gymRaw},
		{Module: intent.ModuleExpense, Payload: intent.GenericPayload{}, Raw: expenseRaw},
		{Module: intent.ModuleCalendar, Payload: calPayload, Raw: json.RawMessage("{}")},
		{Module: intent.ModuleMood, Payload: intent.GenericPayload{}, Raw: json.RawMessage(`{"rating": 5}`)},
		{Module: intent.ModuleRemember, Payload: intent.RememberPayload{}, Raw: json.RawMessage("{}")},
		{Module: intent.ModuleTask, Payload: intent.TaskPayload{}, Raw: json.RawMessage("{}")},
	}

	got := deriveActivities(intents)
	want := []string{"Ate eggs", "Ate toast", "Did gym: squats", "Spent money at Canadian Tire", "Scheduled Dentist"}
	if len(got) != len(want) {
		t.Fatalf("activities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("activities[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
