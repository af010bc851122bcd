package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

// handleRemember persists categorized facts. Every category passes
// through the taxonomy so "wifi" and "WiFi" end up as one category.
func (p *Pipeline) handleRemember(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error) {
	payload, _ := in.Payload.(intent.RememberPayload)

	items := payload.Items
	if len(items) == 0 && payload.Content != "" {
		items = []intent.RememberSpec{{
			Content:  payload.Content,
			Category: payload.Category,
			Tags:     payload.Tags,
		}}
	}
	if len(items) == 0 {
		return p.handleGeneric(ctx, b, in)
	}

	var firstEntry *store.Entry
	var created []*store.RememberItem
	for _, item := range items {
		category := b.taxonomy.Resolve(DimCategory, defaultStr(item.Category, "General"))

		entry := b.newEntry(in, item.Content)
		entry.Title = truncate(defaultStr(item.Content, "Remember"), 80)
		if err := p.store.CreateEntry(entry); err != nil {
			return nil, "", fmt.Errorf("store remember entry: %w", err)
		}
		if firstEntry == nil {
			firstEntry = entry
		}

		rec := &store.RememberItem{
			EntryID:  entry.ID,
			Content:  item.Content,
			Category: category,
			Tags:     strings.Join(item.Tags, ","),
		}
		if err := p.store.CreateRememberItem(rec); err != nil {
			return nil, "", fmt.Errorf("create remember item: %w", err)
		}
		created = append(created, rec)
	}

	return firstEntry, rememberResponse(created), nil
}

func rememberResponse(created []*store.RememberItem) string {
	if len(created) == 1 {
		r := created[0]
		return fmt.Sprintf("Noted under %s: %s", r.Category, truncate(r.Content, 60))
	}

	seen := make(map[string]bool)
	var categories []string
	for _, r := range created {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return fmt.Sprintf("Saved %d items under %s.", len(created), strings.Join(categories, ", "))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
