package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/intent"
)

// autoComplete runs once per batch, after every intent has been
// dispatched. It derives short action descriptions from the non-task
// intents and asks the matcher whether any of them implicitly finished
// an open task. Everything here is best-effort: failures are logged and
// swallowed, the primary dispatch already succeeded.
func (p *Pipeline) autoComplete(ctx context.Context, b *batch, intents []intent.Intent, logger *slog.Logger) string {
	activities := deriveActivities(intents)
	if len(activities) == 0 {
		return ""
	}

	open, err := p.store.OpenTasks(b.ownerID)
	if err != nil {
		logger.Warn("auto-completion skipped", "error", err)
		return ""
	}
	if len(open) == 0 {
		return ""
	}

	matchedIDs := p.matcher.Match(ctx, strings.Join(activities, "; "), open)
	if len(matchedIDs) == 0 {
		return ""
	}
	ids := make(map[int64]bool, len(matchedIDs))
	for _, id := range matchedIDs {
		ids[id] = true
	}

	now := time.Now().UTC()
	var closed []string
	for _, task := range open {
		if !ids[task.ID] {
			continue
		}
		if err := p.store.CompleteTask(task.ID, now); err != nil {
			logger.Warn("auto-completion update failed", "task", task.ID, "error", err)
			continue
		}
		closed = append(closed, task.Description)
	}
	if len(closed) == 0 {
		return ""
	}

	logger.Info("auto-completed tasks", "count", len(closed))
	return fmt.Sprintf("Also marked as done: %s.", strings.Join(closed, ", "))
}

// deriveActivities turns non-task intents into short action
// descriptions. Mood, remember and diary intents are not actionable and
// contribute nothing.
func deriveActivities(intents []intent.Intent) []string {
	var activities []string
	for _, in := range intents {
		switch in.Module {
		case intent.ModuleJournal:
			if payload, ok := in.Payload.(intent.JournalPayload); ok {
				for _, a := range payload.Activities {
					if a.Content != "" {
						activities = append(activities, a.Content)
					}
				}
				if len(payload.Activities) == 0 && payload.Content != "" {
					activities = append(activities, payload.Content)
				}
			}
		case intent.ModuleFood:
			for _, item := range foodItems(in.Raw) {
				activities = append(activities, "Ate "+item)
			}
		case intent.ModuleCalendar:
			if payload, ok := in.Payload.(intent.CalendarPayload); ok {
				if title := defaultStr(payload.Title, in.Title); title != "" {
					activities = append(activities, "Scheduled "+title)
				}
			}
		case intent.ModuleGym:
			for _, name := range gymExercises(in.Raw) {
				activities = append(activities, "Did gym: "+name)
			}
		case intent.ModuleExpense:
			if vendor := expenseVendor(in.Raw); vendor != "" {
				activities = append(activities, "Spent money at "+vendor)
			}
		}
	}
	return activities
}

// foodItems accepts both ["eggs", "toast"] and [{"name": "eggs"}].
func foodItems(raw json.RawMessage) []string {
	var shape struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil
	}

	var items []string
	for _, element := range shape.Items {
		var s string
		if err := json.Unmarshal(element, &s); err == nil {
			if s != "" {
				items = append(items, s)
			}
			continue
		}
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(element, &named); err == nil && named.Name != "" {
			items = append(items, named.Name)
		}
	}
	return items
}

func gymExercises(raw json.RawMessage) []string {
	var shape struct {
		Exercises []struct {
			Name string `json:"name"`
		} `json:"exercises"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil
	}

	var names []string
	for _, e := range shape.Exercises {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}

func expenseVendor(raw json.RawMessage) string {
	var shape struct {
		Vendor string `json:"vendor"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ""
	}
	return shape.Vendor
}
