package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/store"
)

// handleTask routes a task intent to the create or complete path.
func (p *Pipeline) handleTask(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error) {
	payload, _ := in.Payload.(intent.TaskPayload)
	if payload.Action == "complete" {
		return p.completeTasks(ctx, b, in, payload)
	}
	return p.createTasks(ctx, b, in, payload)
}

func (p *Pipeline) createTasks(ctx context.Context, b *batch, in intent.Intent, payload intent.TaskPayload) (*store.Entry, string, error) {
	specs := payload.Tasks
	if len(specs) == 0 && payload.Description != "" {
		specs = []intent.TaskSpec{{
			Description: payload.Description,
			Group:       payload.Group,
			Priority:    payload.Priority,
			Due:         payload.Due,
		}}
	}
	if len(specs) == 0 {
		// Classifier tagged this as a task but extracted nothing usable.
		return p.handleGeneric(ctx, b, in)
	}

	var firstEntry *store.Entry
	var created []*store.Task
	for _, spec := range specs {
		description := spec.Description
		if description == "" {
			description = "Task"
		}
		group := b.taxonomy.Resolve(DimGroup, defaultStr(spec.Group, "General"))

		entry := b.newEntry(in, description)
		entry.Title = description
		if err := p.store.CreateEntry(entry); err != nil {
			return nil, "", fmt.Errorf("store task entry: %w", err)
		}
		if firstEntry == nil {
			firstEntry = entry
		}

		task := &store.Task{
			EntryID:     entry.ID,
			Description: description,
			Group:       group,
			Priority:    normalizePriority(spec.Priority),
			DueAt:       parseDue(spec.Due, p.loc),
		}
		if err := p.store.CreateTask(task); err != nil {
			return nil, "", fmt.Errorf("create task: %w", err)
		}
		created = append(created, task)
	}

	return firstEntry, createTasksResponse(created), nil
}

func createTasksResponse(created []*store.Task) string {
	if len(created) == 1 {
		t := created[0]
		return fmt.Sprintf("Added task: %s [%s] under %s.", t.Description, priorityLabel(t.Priority), t.Group)
	}

	seen := make(map[string]bool)
	var groups []string
	for _, t := range created {
		if !seen[t.Group] {
			seen[t.Group] = true
			groups = append(groups, t.Group)
		}
	}
	sort.Strings(groups)
	return fmt.Sprintf("Added %d tasks under %s.", len(created), strings.Join(groups, ", "))
}

func (p *Pipeline) completeTasks(ctx context.Context, b *batch, in intent.Intent, payload intent.TaskPayload) (*store.Entry, string, error) {
	open, err := p.store.OpenTasks(b.ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("load open tasks: %w", err)
	}

	freeText := b.rawText
	if len(payload.Completed) > 0 {
		freeText = strings.Join(payload.Completed, "; ")
	}

	var matched []*store.Task
	if len(open) > 0 {
		matchedIDs := p.matcher.Match(ctx, freeText, open)
		ids := make(map[int64]bool, len(matchedIDs))
		for _, id := range matchedIDs {
			ids[id] = true
		}
		now := time.Now().UTC()
		for _, task := range open {
			if !ids[task.ID] {
				continue
			}
			if err := p.store.CompleteTask(task.ID, now); err != nil {
				return nil, "", fmt.Errorf("complete task %d: %w", task.ID, err)
			}
			matched = append(matched, task)
		}
	}

	// The attempt is recorded even when nothing matched.
	entry := b.newEntry(in, fmt.Sprintf("Completed %d task(s)", len(matched)))
	entry.Title = "Tasks completed"
	if err := p.store.CreateEntry(entry); err != nil {
		return nil, "", fmt.Errorf("store completion entry: %w", err)
	}

	if len(matched) == 0 {
		return entry, "I couldn't find a matching open task. Could you be more specific?", nil
	}

	var descriptions []string
	for _, t := range matched {
		descriptions = append(descriptions, t.Description)
	}
	return entry, fmt.Sprintf("Done! Marked as complete: %s.", strings.Join(descriptions, ", ")), nil
}

func normalizePriority(p string) string {
	if store.ValidPriority(p) {
		return p
	}
	return store.PriorityThisWeek
}

// priorityLabel turns "do_today" into "Do Today" for spoken responses.
func priorityLabel(p string) string {
	words := strings.Split(strings.ReplaceAll(p, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// parseDue accepts a few common ISO 8601 shapes. Anything else leaves
// the due date unset.
func parseDue(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}

func defaultStr(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
