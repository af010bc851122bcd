package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

// handleJournal logs activities. Entries are dated at processing time,
// not at whatever date the source text mentions.
func (p *Pipeline) handleJournal(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error) {
	payload, _ := in.Payload.(intent.JournalPayload)

	activities := payload.Activities
	if len(activities) == 0 && payload.Content != "" {
		activities = []intent.ActivitySpec{{
			Content:      payload.Content,
			ActivityType: payload.ActivityType,
			Topic:        payload.Topic,
		}}
	}
	if len(activities) == 0 {
		return p.handleGeneric(ctx, b, in)
	}

	var firstEntry *store.Entry
	var created []*store.JournalEntry
	for _, activity := range activities {
		topic := activity.Topic
		if topic != "" {
			topic = b.taxonomy.Resolve(DimTopic, topic)
		}

		entry := b.newEntry(in, activity.Content)
		entry.Title = truncate(defaultStr(activity.Content, "Journal"), 80)
		if err := p.store.CreateEntry(entry); err != nil {
			return nil, "", fmt.Errorf("store journal entry: %w", err)
		}
		if firstEntry == nil {
			firstEntry = entry
		}

		journal := &store.JournalEntry{
			EntryID:      entry.ID,
			Content:      activity.Content,
			ActivityType: defaultStr(activity.ActivityType, "general"),
			Topic:        topic,
			LoggedAt:     time.Now().UTC(),
		}
		if err := p.store.CreateJournalEntry(journal); err != nil {
			return nil, "", fmt.Errorf("create journal entry: %w", err)
		}
		created = append(created, journal)
	}

	return firstEntry, journalResponse(created), nil
}

func journalResponse(created []*store.JournalEntry) string {
	if len(created) == 1 {
		j := created[0]
		if j.Topic != "" {
			return fmt.Sprintf("Logged: %s [%s]", truncate(j.Content, 60), j.Topic)
		}
		return fmt.Sprintf("Logged: %s", truncate(j.Content, 60))
	}
	return fmt.Sprintf("Logged %d activities for today.", len(created))
}
