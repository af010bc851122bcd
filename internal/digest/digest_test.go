package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/daybook-ai/daybook/internal/store"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, loc)

	got := nextRun(now, 21, 30)
	want := time.Date(2026, 8, 29, 21, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("nextRun same day = %v, want %v", got, want)
	}

	// Already past today's slot: schedule tomorrow.
	got = nextRun(time.Date(2026, 8, 29, 22, 0, 0, 0, loc), 21, 30)
	want = time.Date(2026, 8, 30, 21, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("nextRun next day = %v, want %v", got, want)
	}

	// Exactly at the slot: also tomorrow, never fire twice.
	got = nextRun(want, 21, 30)
	if !got.Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("nextRun at slot = %v", got)
	}
}

func TestFormatEntries(t *testing.T) {
	entries := []*store.Entry{
		{
			Module:      "task",
			Title:       "buy milk",
			Description: "buy milk",
			CreatedAt:   time.Date(2026, 8, 29, 14, 5, 0, 0, time.UTC),
		},
		{
			Module:    "memo",
			RawText:   "random thought",
			CreatedAt: time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC),
		},
	}

	got := formatEntries(entries, time.UTC)
	if !strings.Contains(got, "[2:05 PM] [task] buy milk: buy milk") {
		t.Errorf("missing task line:\n%s", got)
	}
	if !strings.Contains(got, "[3:30 PM] [memo] Untitled: random thought") {
		t.Errorf("missing memo fallback line:\n%s", got)
	}
}

func TestComposeMessage(t *testing.T) {
	msg, err := composeMessage("Daybook <bot@example.com>", "me@example.com", "Your Day", "# Hello\n\n**bold** and [link](https://example.com)")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	s := string(msg)

	for _, want := range []string{
		"bot@example.com",
		"me@example.com",
		"Subject: Your Day",
		"multipart/alternative",
		"text/plain",
		"text/html",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestMarkdownToPlain(t *testing.T) {
	md := "# Today\n\n**Tasks** done: `cleanup` and [notes](https://x.y)"
	got := markdownToPlain(md)

	for _, stripped := range []string{"#", "**", "`"} {
		if strings.Contains(got, stripped) {
			t.Errorf("plain text still contains %q: %q", stripped, got)
		}
	}
	if !strings.Contains(got, "notes (https://x.y)") {
		t.Errorf("link not flattened: %q", got)
	}
}
