// Package digest emails each user a nightly summary of everything they
// captured in the last day.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/config"
	"github.com/daybook-ai/daybook/internal/llm"
	"github.com/daybook-ai/daybook/internal/store"
)

const summarySystemPrompt = `You write concise, well-organized daily summary emails. Format in Markdown. Group by category (calendar events, tasks, memos, mood, etc). Keep it brief but informative. Use a warm, personal tone.`

// Worker runs the daily digest schedule.
type Worker struct {
	store  *store.Store
	client llm.Client
	model  string
	digest config.DigestConfig
	smtp   config.SMTPConfig
	loc    *time.Location
	logger *slog.Logger
}

func NewWorker(st *store.Store, client llm.Client, model string, digestCfg config.DigestConfig, smtpCfg config.SMTPConfig, loc *time.Location, logger *slog.Logger) *Worker {
	return &Worker{
		store:  st,
		client: client,
		model:  model,
		digest: digestCfg,
		smtp:   smtpCfg,
		loc:    loc,
		logger: logger,
	}
}

// Run blocks until ctx is cancelled, sending one digest per user at the
// configured local time each day. A failed send is logged and retried
// at the next scheduled run.
func (w *Worker) Run(ctx context.Context) {
	for {
		next := nextRun(time.Now().In(w.loc), w.digest.Hour, w.digest.Minute)
		w.logger.Debug("digest scheduled", "next", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error("daily digest failed", "error", err)
		}
	}
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce sends a digest to every active user who captured anything in
// the last 24 hours.
func (w *Worker) RunOnce(ctx context.Context) error {
	users, err := w.store.ActiveUsers()
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	for _, u := range users {
		entries, err := w.store.EntriesSince(u.ID, cutoff)
		if err != nil {
			w.logger.Error("digest entries query failed", "user", u.ID, "error", err)
			continue
		}
		if len(entries) == 0 {
			w.logger.Debug("no entries today, skipping digest", "user", u.ID)
			continue
		}

		if err := w.sendDigest(ctx, u, entries); err != nil {
			w.logger.Error("digest send failed", "user", u.ID, "error", err)
			continue
		}
		w.logger.Info("daily digest sent", "user", u.ID, "entries", len(entries))
	}
	return nil
}

func (w *Worker) sendDigest(ctx context.Context, u *store.User, entries []*store.Entry) error {
	summary, err := w.summarize(ctx, entries)
	if err != nil {
		return err
	}

	today := time.Now().In(w.loc).Format("Monday, January 2")
	subject := "Your Day — " + today

	msg, err := composeMessage(w.smtp.From, w.smtp.To, subject, summary)
	if err != nil {
		return fmt.Errorf("compose digest: %w", err)
	}
	return sendMail(ctx, w.smtp, w.smtp.From, w.smtp.To, msg)
}

func (w *Worker) summarize(ctx context.Context, entries []*store.Entry) (string, error) {
	prompt := fmt.Sprintf(
		"Here are all my daybook entries from today. Create a daily digest email summarizing my day:\n\n%s",
		formatEntries(entries, w.loc))

	resp, err := w.client.Chat(ctx, w.model, []llm.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("summarize entries: %w", err)
	}
	return resp.Content, nil
}

// formatEntries renders entries as one line each for the model.
func formatEntries(entries []*store.Entry, loc *time.Location) string {
	var lines []string
	for _, e := range entries {
		content := e.Description
		if content == "" {
			content = e.RawText
		}
		if content == "" {
			content = "No content"
		}
		title := e.Title
		if title == "" {
			title = "Untitled"
		}
		lines = append(lines, fmt.Sprintf("[%s] [%s] %s: %s",
			e.CreatedAt.In(loc).Format("3:04 PM"), e.Module, title, content))
	}
	return strings.Join(lines, "\n")
}
