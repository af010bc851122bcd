package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/llm"
	"github.com/daybook-ai/daybook/internal/store"
)

// Request is one captured input to run through the pipeline.
type Request struct {
	OwnerID   int64
	RawText   string
	InputKind string // "text", "audio", "image" or "video"
	Image     *llm.ImageAttachment
}

// Result is what the caller speaks back to the user.
type Result struct {
	SpokenResponse string
	PrimaryID      int64
	PrimaryModule  string
	Entries        int
}

// Pipeline classifies an input into intents and dispatches each one to
// its module handler. Batches for the same owner run strictly one at a
// time so that within-batch taxonomy accumulation never races.
type Pipeline struct {
	store      *store.Store
	classifier intent.Classifier
	matcher    Matcher
	events     EventCreator // optional
	notifier   Notifier     // optional
	logger     *slog.Logger
	loc        *time.Location

	handlers map[intent.Module]handlerFunc

	mu     sync.Mutex
	owners map[int64]*sync.Mutex
}

type handlerFunc func(ctx context.Context, b *batch, in intent.Intent) (*store.Entry, string, error)

// batch carries per-request state shared by all handlers in the batch.
type batch struct {
	ownerID          int64
	rawText          string
	imageDescription string
	inputKind        string
	taxonomy         *Taxonomy
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithEventCreator attaches an external calendar.
func WithEventCreator(ec EventCreator) Option {
	return func(p *Pipeline) { p.events = ec }
}

// WithNotifier attaches a contact notifier for calendar events.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// New wires a pipeline. The location is used for parsing and formatting
// user-local times.
func New(st *store.Store, classifier intent.Classifier, matcher Matcher, loc *time.Location, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      st,
		classifier: classifier,
		matcher:    matcher,
		logger:     logger,
		loc:        loc,
		owners:     make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.handlers = map[intent.Module]handlerFunc{
		intent.ModuleTask:     p.handleTask,
		intent.ModuleRemember: p.handleRemember,
		intent.ModuleJournal:  p.handleJournal,
		intent.ModuleCalendar: p.handleCalendar,
	}
	return p
}

// Process runs one input through classification, dispatch and
// auto-completion. Classification failure is the only request-level
// error; per-intent handler failures are folded into the spoken
// response and never abort the batch.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.Must(uuid.NewV7()).String()
	logger := p.logger.With("request_id", requestID, "owner", req.OwnerID)

	unlock := p.lockOwner(req.OwnerID)
	defer unlock()

	intents, err := p.classifier.Classify(ctx, intent.Input{
		Transcript: req.RawText,
		Image:      req.Image,
		Now:        time.Now().In(p.loc),
		Location:   p.loc,
	})
	if err != nil {
		return nil, fmt.Errorf("classify input: %w", err)
	}
	logger.Info("input classified", "intents", len(intents), "kind", req.InputKind)

	b := &batch{
		ownerID:   req.OwnerID,
		rawText:   req.RawText,
		inputKind: req.InputKind,
		taxonomy:  NewTaxonomy(),
	}
	if req.Image != nil {
		b.imageDescription = describeImage(intents, req.RawText)
	}
	if err := p.loadTaxonomy(b); err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	result := &Result{}
	var confirmations []string
	for _, in := range intents {
		entry, confirmation, err := p.dispatch(ctx, b, in)
		if err != nil {
			logger.Warn("intent handler failed", "module", in.Module, "error", err)
			confirmations = append(confirmations, fmt.Sprintf("Error processing %s: %v.", in.Module, err))
			continue
		}
		confirmations = append(confirmations, confirmation)
		result.Entries++
		if result.PrimaryID == 0 {
			result.PrimaryID = entry.ID
			result.PrimaryModule = entry.Module
		}
		logger.Debug("intent handled", "module", in.Module, "entry", entry.ID)
	}

	if done := p.autoComplete(ctx, b, intents, logger); done != "" {
		confirmations = append(confirmations, done)
	}

	result.SpokenResponse = strings.Join(confirmations, " ")
	return result, nil
}

// lockOwner serializes batches per owner. Distinct owners proceed in
// parallel.
func (p *Pipeline) lockOwner(ownerID int64) func() {
	p.mu.Lock()
	mu, ok := p.owners[ownerID]
	if !ok {
		mu = &sync.Mutex{}
		p.owners[ownerID] = mu
	}
	p.mu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (p *Pipeline) loadTaxonomy(b *batch) error {
	groups, err := p.store.TaskGroups(b.ownerID)
	if err != nil {
		return err
	}
	categories, err := p.store.RememberCategories(b.ownerID)
	if err != nil {
		return err
	}
	topics, err := p.store.JournalTopics(b.ownerID)
	if err != nil {
		return err
	}
	b.taxonomy.Load(DimGroup, groups)
	b.taxonomy.Load(DimCategory, categories)
	b.taxonomy.Load(DimTopic, topics)
	return nil
}

// dispatch routes one intent to its handler, defaulting to the generic
// store handler, and converts handler panics into errors so a bad
// intent cannot take down the batch.
func (p *Pipeline) dispatch(ctx context.Context, b *batch, in intent.Intent) (entry *store.Entry, confirmation string, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry, confirmation = nil, ""
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	handler, ok := p.handlers[in.Module]
	if !ok {
		handler = p.handleGeneric
	}
	return handler(ctx, b, in)
}

// describeImage derives a stored description for image-only inputs from
// the first intent's content, falling back to the transcript text.
func describeImage(intents []intent.Intent, rawText string) string {
	for _, in := range intents {
		if desc := derivedDescription(in, ""); desc != "" {
			return desc
		}
	}
	return rawText
}
