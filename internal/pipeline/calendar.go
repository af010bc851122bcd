package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

// EventCreator creates an event on an external calendar and returns the
// identifier the remote side assigned.
type EventCreator interface {
	CreateEvent(ctx context.Context, title string, start time.Time, end *time.Time, location, description string) (string, error)
}

// Notifier tells the user's contacts about a new event. Implementations
// decide per contact whether to deliver, using rawInput to detect
// mentioned names and explicit as the classifier's notify request, and
// return the names of everyone notified.
type Notifier interface {
	NotifyEvent(ctx context.Context, rawInput, title string, start *time.Time, location string, explicit bool) []string
}

// handleCalendar persists the event, mirrors it to the external
// calendar and notifies contacts. Both side effects are best-effort: a
// calendar or notification failure degrades the confirmation, never the
// entry.
func (p *Pipeline) handleCalendar(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error) {
	payload, _ := in.Payload.(intent.CalendarPayload)

	title := defaultStr(payload.Title, defaultStr(in.Title, "Event"))
	start := parseDue(payload.Start, p.loc)
	end := parseDue(payload.End, p.loc)

	entry := b.newEntry(in, defaultStr(in.Confirmation, b.fallbackText()))
	entry.Title = title
	if err := p.store.CreateEntry(entry); err != nil {
		return nil, "", fmt.Errorf("store calendar entry: %w", err)
	}

	var remoteUID string
	if p.events != nil && start != nil {
		description := "Created by voice: " + b.rawText
		uid, err := p.events.CreateEvent(ctx, title, *start, end, payload.Location, description)
		if err != nil {
			p.logger.Warn("external calendar create failed", "title", title, "error", err)
		} else {
			remoteUID = uid
		}
	}

	var notified []string
	if p.notifier != nil {
		notified = p.notifier.NotifyEvent(ctx, b.rawText, title, start, payload.Location, payload.NotifyPartner)
	}

	startAt := time.Now().UTC()
	if start != nil {
		startAt = start.UTC()
	}
	event := &store.CalendarEvent{
		EntryID:   entry.ID,
		RemoteUID: remoteUID,
		Title:     title,
		StartAt:   startAt,
		EndAt:     end,
		Location:  payload.Location,
		Notified:  len(notified) > 0,
	}
	if err := p.store.CreateCalendarEvent(event); err != nil {
		return nil, "", fmt.Errorf("create calendar event: %w", err)
	}

	parts := []string{defaultStr(in.Confirmation, "Created: "+title)}
	if remoteUID != "" {
		parts = append(parts, "Added to your calendar.")
	}
	if len(notified) > 0 {
		parts = append(parts, fmt.Sprintf("Notified %s.", strings.Join(notified, ", ")))
	}
	return entry, strings.Join(parts, " "), nil
}
