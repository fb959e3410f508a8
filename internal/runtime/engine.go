package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
	"github.com/google/uuid"
)

// Engine runs the assessment over immutable WizardState values.
// It holds no session state itself; the sinks are called fire-and-forget.
type Engine struct {
	catalog   *catalog.Catalog
	leads     ports.LeadStore
	analytics ports.AnalyticsSink
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	inflight sync.WaitGroup
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLeadStore sets the persistence sink for submitted leads.
func WithLeadStore(store ports.LeadStore) EngineOption {
	return func(e *Engine) {
		e.leads = store
	}
}

// WithAnalytics sets the analytics sink.
func WithAnalytics(sink ports.AnalyticsSink) EngineOption {
	return func(e *Engine) {
		e.analytics = sink
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how session and lead IDs are generated.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates an engine over a validated catalog.
func NewEngine(cat *catalog.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine runs on.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start creates the initial state of a session. An empty sessionID gets a generated one.
func (e *Engine) Start(ctx context.Context, sessionID string) domain.WizardState {
	if sessionID == "" {
		sessionID = e.newID()
	}
	state := domain.NewWizardState(sessionID)
	state.StartedAt = e.now()

	e.logger.Debug("assessment started", "session_id", sessionID)
	e.emit(ctx, domain.EventAssessmentStarted, sessionID, map[string]any{
		"questions": len(VisibleQuestions(e.catalog, state.Answers)),
	})
	return state
}

// Answer records the selection of a visible choice question.
func (e *Engine) Answer(ctx context.Context, state domain.WizardState, questionID int, optionIDs []string) (domain.WizardState, error) {
	next, err := SetAnswer(e.catalog, state, questionID, optionIDs)
	if err != nil {
		return state, err
	}
	e.emit(ctx, domain.EventQuestionAnswered, state.SessionID, map[string]any{
		"question_id": questionID,
		"options":     next.Answers.Selected(questionID),
	})
	return next, nil
}

// SetContact records the contact form.
func (e *Engine) SetContact(ctx context.Context, state domain.WizardState, contact domain.Contact) (domain.WizardState, error) {
	return SetContact(e.catalog, state, contact)
}

// Advance moves the session forward. Advancing past the last visible question
// submits the assessment, so the returned state is then in PhaseResultShown.
// advanced is false when the completion gate of the current question fails.
func (e *Engine) Advance(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error) {
	next, advanced, err := Advance(e.catalog, state, e.now())
	if err != nil || !advanced {
		return state, false, err
	}

	left := next.History[len(next.History)-1].QuestionID
	e.emit(ctx, domain.EventStepAdvanced, state.SessionID, map[string]any{
		"question_id": left,
		"index":       next.Index,
	})

	if next.Phase == domain.PhaseSubmitting {
		next, err = e.Submit(ctx, next)
		if err != nil {
			return state, false, err
		}
	}
	return next, true, nil
}

// Retreat moves the session back one question.
func (e *Engine) Retreat(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error) {
	next, moved, err := Retreat(state)
	if err != nil || !moved {
		return state, false, err
	}
	e.emit(ctx, domain.EventStepRetreated, state.SessionID, map[string]any{"index": next.Index})
	return next, true, nil
}

// Reset starts a finished session over with an empty answer set.
func (e *Engine) Reset(ctx context.Context, state domain.WizardState) (domain.WizardState, error) {
	next, err := Reset(state, e.now())
	if err != nil {
		return state, err
	}
	e.emit(ctx, domain.EventAssessmentReset, state.SessionID, nil)
	return next, nil
}

// Submit computes the recommendation and quote of a submitting session and
// moves it to PhaseResultShown. The lead is captured in the background;
// its outcome never affects the returned result.
func (e *Engine) Submit(ctx context.Context, state domain.WizardState) (domain.WizardState, error) {
	if state.Phase != domain.PhaseSubmitting {
		return state, fmt.Errorf("%w: cannot submit in phase %s", domain.ErrInvalidTransition, state.Phase)
	}
	logger := e.logger.With("session_id", state.SessionID)

	track, tallies := ResolveTrack(e.catalog, state.Answers)

	mode, chosen := e.catalog.DeliveryMode(state.Answers)
	if !chosen {
		logger.Info("delivery mode not answered, using default", "delivery", mode)
	}

	teamSize := state.Answers.Contact.TeamSize
	if teamSize < 1 {
		logger.Warn("team size missing, using minimum", "team_size", teamSize, "min", e.catalog.MinTeamSize)
		teamSize = e.catalog.MinTeamSize
	}

	quote, err := e.Quote(track, mode, teamSize)
	if err != nil {
		return state, fmt.Errorf("failed to price track %s: %w", track, err)
	}

	next, err := Complete(state, domain.Result{
		Track:    track,
		Tallies:  tallies,
		Delivery: mode,
		Quote:    quote,
	})
	if err != nil {
		return state, err
	}

	logger.Info("assessment completed", "track", track, "delivery", mode, "team_size", teamSize, "total", quote.FinalTotal.String())
	e.emit(ctx, domain.EventAssessmentCompleted, state.SessionID, map[string]any{
		"track":       string(track),
		"delivery":    string(mode),
		"team_size":   teamSize,
		"final_total": int64(quote.FinalTotal),
	})
	e.captureLead(ctx, e.leadFor(next))
	return next, nil
}

// Recommend resolves the best track for an answer set.
func (e *Engine) Recommend(answers domain.AnswerSet) (domain.Track, map[domain.Track]int) {
	return ResolveTrack(e.catalog, answers)
}

// Quote prices a track of the catalog. Team sizes below the catalog minimum
// are priced; sizes above its maximum are rejected.
func (e *Engine) Quote(track domain.Track, mode domain.DeliveryMode, teamSize int) (domain.QuoteBreakdown, error) {
	if teamSize > e.catalog.MaxTeamSize {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: team size must be at most %d, got %d", domain.ErrInvalidTeamSize, e.catalog.MaxTeamSize, teamSize)
	}
	info, err := e.catalog.Track(track)
	if err != nil {
		return domain.QuoteBreakdown{}, err
	}
	return ComputeQuote(info, mode, teamSize)
}

// Render builds the presentation view of a state.
func (e *Engine) Render(state domain.WizardState) View {
	return Render(e.catalog, state)
}

// Wait blocks until every in-flight sink call has returned.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

func (e *Engine) leadFor(state domain.WizardState) domain.Lead {
	c := state.Answers.Contact
	return domain.Lead{
		ID:               e.newID(),
		SessionID:        state.SessionID,
		CompanyName:      c.CompanyName,
		ContactName:      c.ContactName,
		Email:            c.Email,
		Phone:            c.Phone,
		TeamSize:         state.Result.Quote.TeamSize,
		RecommendedTrack: state.Result.Track,
		Delivery:         state.Result.Delivery,
		QuoteValue:       state.Result.Quote.FinalTotal,
		CreatedAt:        e.now(),
	}
}

func (e *Engine) captureLead(ctx context.Context, lead domain.Lead) {
	if e.leads == nil {
		return
	}
	e.background(ctx, func(ctx context.Context) {
		if err := e.leads.Save(ctx, lead); err != nil {
			e.logger.Warn("lead capture failed", "session_id", lead.SessionID, "lead_id", lead.ID, "err", err)
			e.send(ctx, domain.NewEvent(domain.EventLeadCaptureFailed, lead.SessionID, map[string]any{"lead_id": lead.ID}))
			return
		}
		e.logger.Debug("lead captured", "session_id", lead.SessionID, "lead_id", lead.ID)
	})
}

func (e *Engine) emit(ctx context.Context, name domain.EventName, sessionID string, props map[string]any) {
	if e.analytics == nil {
		return
	}
	event := domain.NewEvent(name, sessionID, props)
	event.Timestamp = e.now()
	e.background(ctx, func(ctx context.Context) {
		e.send(ctx, event)
	})
}

func (e *Engine) send(ctx context.Context, event domain.Event) {
	if e.analytics == nil {
		return
	}
	if err := e.analytics.Emit(ctx, event); err != nil {
		e.logger.Warn("analytics emit failed", "session_id", event.SessionID, "event", event.Name, "err", err)
	}
}

// background runs fn detached from the caller's cancellation.
// A panicking sink is logged and never reaches the wizard.
func (e *Engine) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("sink panicked", "panic", r)
			}
		}()
		fn(ctx)
	}()
}
