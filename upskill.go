package upskill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/upskill/internal/runtime"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
)

// View is the presentation snapshot of a session.
type View = runtime.View

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and provides a simplified API for hosts.
type Engine struct {
	runtime   *runtime.Engine
	catalog   *catalog.Catalog
	leads     ports.LeadStore
	analytics ports.AnalyticsSink
	logger    *slog.Logger
	clock     func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = cat
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLeadStore registers the persistence sink for submitted assessments.
func WithLeadStore(store ports.LeadStore) Option {
	return func(e *Engine) {
		e.leads = store
	}
}

// WithAnalytics registers the analytics sink.
func WithAnalytics(sink ports.AnalyticsSink) Option {
	return func(e *Engine) {
		e.analytics = sink
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// New initializes an Engine. Without WithCatalog the built-in catalog is used.
// The catalog is validated once here and treated as read-only afterwards.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		eng.catalog = catalog.Default()
	}
	if err := eng.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog rejected: %w", err)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(eng.catalog,
		runtime.WithLogger(eng.logger),
		runtime.WithLeadStore(eng.leads),
		runtime.WithAnalytics(eng.analytics),
		runtime.WithClock(eng.clock),
	)
	return eng, nil
}

// Catalog returns the catalog the engine runs on.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start creates the initial state of a session and emits assessment_started.
// An empty sessionID gets a generated one.
func (e *Engine) Start(ctx context.Context, sessionID string) domain.WizardState {
	return e.runtime.Start(ctx, sessionID)
}

// Answer records the selection of a visible choice question.
func (e *Engine) Answer(ctx context.Context, state domain.WizardState, questionID int, optionIDs []string) (domain.WizardState, error) {
	return e.runtime.Answer(ctx, state, questionID, optionIDs)
}

// SetContact records the contact form. A team size other than zero must lie
// within the catalog bounds, or domain.ErrInvalidTeamSize is returned.
func (e *Engine) SetContact(ctx context.Context, state domain.WizardState, contact domain.Contact) (domain.WizardState, error) {
	return e.runtime.SetContact(ctx, state, contact)
}

// Advance moves to the next visible question. From the last one it submits the
// assessment and returns the state showing the result.
// advanced is false, with a nil error, when the current step is incomplete.
func (e *Engine) Advance(ctx context.Context, state domain.WizardState) (next domain.WizardState, advanced bool, err error) {
	return e.runtime.Advance(ctx, state)
}

// Retreat moves back one question. It is a no-op at the first question.
func (e *Engine) Retreat(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error) {
	return e.runtime.Retreat(ctx, state)
}

// Reset clears a finished session back to its first question.
func (e *Engine) Reset(ctx context.Context, state domain.WizardState) (domain.WizardState, error) {
	return e.runtime.Reset(ctx, state)
}

// View describes what to present for a state without changing it.
func (e *Engine) View(state domain.WizardState) View {
	return e.runtime.Render(state)
}

// Recommend resolves the best track for an answer set, with the per-track tallies.
func (e *Engine) Recommend(answers domain.AnswerSet) (domain.Track, map[domain.Track]int) {
	return e.runtime.Recommend(answers)
}

// Quote prices a track directly, without a session. Teams smaller than the
// catalog minimum are priced; teams above its maximum are rejected.
func (e *Engine) Quote(track domain.Track, mode domain.DeliveryMode, teamSize int) (domain.QuoteBreakdown, error) {
	return e.runtime.Quote(track, mode, teamSize)
}

// Wait blocks until in-flight lead and analytics calls have returned.
func (e *Engine) Wait() {
	e.runtime.Wait()
}
