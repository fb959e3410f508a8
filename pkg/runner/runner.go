package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/internal/presentation/quote"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/session"
)

// Engine is the part of the assessment engine the runner drives.
type Engine interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context, sessionID string) domain.WizardState
	Answer(ctx context.Context, state domain.WizardState, questionID int, optionIDs []string) (domain.WizardState, error)
	SetContact(ctx context.Context, state domain.WizardState, contact domain.Contact) (domain.WizardState, error)
	Advance(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error)
	Retreat(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error)
	Reset(ctx context.Context, state domain.WizardState) (domain.WizardState, error)
	View(state domain.WizardState) upskill.View
}

var _ Engine = (*upskill.Engine)(nil)

// ErrQuit ends Run without an error. Handlers return it from Input when the
// user asked to leave through a channel other than a typed reply.
var ErrQuit = errors.New("quit")

// Commands understood at any prompt. Short forms and synonyms are mapped onto
// these by the input router of the terminal front end.
const (
	CommandBack    = "back"
	CommandQuit    = "quit"
	CommandRestart = "restart"
)

// Runner drives one assessment session through an IOHandler.
type Runner struct {
	engine    Engine
	sessions  *session.Manager
	sessionID string
	handler   IOHandler
	logger    *slog.Logger
	renderer  ContentRenderer

	ownsHandler bool
}

// NewRunner creates a runner for the engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.handler == nil {
		var hopts []TextHandlerOption
		if r.renderer != nil {
			hopts = append(hopts, WithTextHandlerRenderer(r.renderer))
		}
		r.handler = NewTextHandler(os.Stdin, os.Stdout, hopts...)
		r.ownsHandler = true
	}
	return r
}

// Run executes the wizard until the user quits or input ends.
// The final state is returned even when Run fails part way.
func (r *Runner) Run(ctx context.Context) (domain.WizardState, error) {
	if c, ok := r.handler.(io.Closer); ok && r.ownsHandler {
		defer c.Close()
	}
	state, err := r.start(ctx)
	if err != nil {
		return state, err
	}
	logger := r.logger.With("session_id", state.SessionID)

	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		var next domain.WizardState
		switch state.Phase {
		case domain.PhaseResultShown:
			next, err = r.result(ctx, state)
		case domain.PhaseAnswering:
			v := r.engine.View(state)
			if v.Question == nil {
				return state, fmt.Errorf("%w: no question at index %d", domain.ErrInvalidTransition, state.Index)
			}
			if v.Question.Kind == domain.KindContactForm {
				next, err = r.contact(ctx, state, v)
			} else {
				next, err = r.choice(ctx, state, v)
			}
		default:
			return state, fmt.Errorf("%w: session %s is in phase %s", domain.ErrInvalidTransition, state.SessionID, state.Phase)
		}

		switch {
		case errors.Is(err, ErrQuit), errors.Is(err, io.EOF):
			logger.Debug("runner stopped", "phase", state.Phase, "index", state.Index)
			return state, nil
		case err != nil:
			return state, err
		}

		if err := r.commit(ctx, next); err != nil {
			return state, err
		}
		state = next
	}
}

func (r *Runner) start(ctx context.Context) (domain.WizardState, error) {
	if r.sessions == nil || r.sessionID == "" {
		state := r.engine.Start(ctx, r.sessionID)
		return state, r.commit(ctx, state)
	}

	state, created, err := r.sessions.LoadOrStart(ctx, r.sessionID, func(id string) domain.WizardState {
		return r.engine.Start(ctx, id)
	})
	if err != nil {
		return state, fmt.Errorf("failed to open session %s: %w", r.sessionID, err)
	}
	if !created {
		r.logger.Info("session resumed", "session_id", state.SessionID, "phase", state.Phase)
		_ = r.handler.SystemOutput(ctx, fmt.Sprintf("Resuming session %s.", state.SessionID))
	}
	return state, nil
}

func (r *Runner) commit(ctx context.Context, state domain.WizardState) error {
	if r.sessions == nil {
		return nil
	}
	if err := r.sessions.Save(ctx, state.SessionID, state); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.SessionID, err)
	}
	return nil
}

// notice reports a recoverable problem and keeps the state unchanged.
func (r *Runner) notice(ctx context.Context, state domain.WizardState, msg string) (domain.WizardState, error) {
	return state, r.handler.SystemOutput(ctx, msg)
}

func (r *Runner) choice(ctx context.Context, state domain.WizardState, v upskill.View) (domain.WizardState, error) {
	if err := r.handler.Output(ctx, Frame{View: v, Content: questionMarkdown(v), Prompt: questionPrompt(v)}); err != nil {
		return state, err
	}
	input, err := r.handler.Input(ctx)
	if err != nil {
		return state, err
	}

	switch cmd := strings.ToLower(strings.TrimSpace(input)); cmd {
	case CommandQuit:
		return state, ErrQuit
	case CommandBack:
		next, moved, err := r.engine.Retreat(ctx, state)
		if err != nil {
			return state, err
		}
		if !moved {
			return r.notice(ctx, state, "Already at the first question.")
		}
		return next, nil
	case "":
		return r.advance(ctx, state)
	}

	ids, err := parseSelection(*v.Question, input)
	if err != nil {
		return r.notice(ctx, state, err.Error())
	}
	answered, err := r.engine.Answer(ctx, state, v.Question.ID, ids)
	if err != nil {
		return r.notice(ctx, state, err.Error())
	}
	return r.advance(ctx, answered)
}

func (r *Runner) advance(ctx context.Context, state domain.WizardState) (domain.WizardState, error) {
	next, advanced, err := r.engine.Advance(ctx, state)
	if err != nil {
		return state, err
	}
	if !advanced {
		return r.notice(ctx, state, "Please answer this question before continuing.")
	}
	return next, nil
}

// parseSelection maps tokens (1-based option numbers or option ids) to option ids.
func parseSelection(q domain.Question, input string) ([]string, error) {
	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	seen := make(map[string]bool, len(tokens))
	var ids []string
	for _, tok := range tokens {
		id := tok
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 1 || n > len(q.Options) {
				return nil, fmt.Errorf("%w: choose a number between 1 and %d", domain.ErrUnknownOption, len(q.Options))
			}
			id = q.Options[n-1].ID
		} else if _, ok := q.Option(tok); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOption, tok)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Runner) contactFields() []contactField {
	cat := r.engine.Catalog()
	return []contactField{
		{
			label:   "Company name",
			current: func(c domain.Contact) string { return c.CompanyName },
			set:     func(c *domain.Contact, v string) error { c.CompanyName = v; return nil },
		},
		{
			label:   "Your name",
			current: func(c domain.Contact) string { return c.ContactName },
			set:     func(c *domain.Contact, v string) error { c.ContactName = v; return nil },
		},
		{
			label:   "Email",
			current: func(c domain.Contact) string { return c.Email },
			set:     func(c *domain.Contact, v string) error { c.Email = v; return nil },
		},
		{
			label:    "Phone (optional)",
			optional: true,
			current:  func(c domain.Contact) string { return c.Phone },
			set:      func(c *domain.Contact, v string) error { c.Phone = v; return nil },
		},
		{
			label: fmt.Sprintf("Team size (%d to %d)", cat.MinTeamSize, cat.MaxTeamSize),
			current: func(c domain.Contact) string {
				if c.TeamSize == 0 {
					return ""
				}
				return strconv.Itoa(c.TeamSize)
			},
			set: func(c *domain.Contact, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil || cat.CheckTeamSize(n) != nil {
					return fmt.Errorf("%w: enter a whole number from %d to %d", domain.ErrInvalidTeamSize, cat.MinTeamSize, cat.MaxTeamSize)
				}
				c.TeamSize = n
				return nil
			},
		},
	}
}

// contact prompts each field of the contact form in turn. An empty reply keeps
// the value already on file. `back` leaves the form for the previous question.
func (r *Runner) contact(ctx context.Context, state domain.WizardState, v upskill.View) (domain.WizardState, error) {
	if err := r.handler.Output(ctx, Frame{View: v, Content: contactMarkdown(v)}); err != nil {
		return state, err
	}

	c := state.Answers.Contact
	for _, f := range r.contactFields() {
		for {
			prompt := f.label + ":"
			if cur := f.current(c); cur != "" {
				prompt = fmt.Sprintf("%s [%s]:", f.label, cur)
			}
			if err := r.handler.Output(ctx, Frame{View: v, Prompt: prompt}); err != nil {
				return state, err
			}
			input, err := r.handler.Input(ctx)
			if err != nil {
				return state, err
			}

			input = strings.TrimSpace(input)
			switch strings.ToLower(input) {
			case CommandQuit:
				return state, ErrQuit
			case CommandBack:
				next, _, err := r.engine.Retreat(ctx, state)
				return next, err
			}

			if input == "" {
				input = f.current(c)
			}
			if input == "" {
				if f.optional {
					break
				}
				_ = r.handler.SystemOutput(ctx, f.label+" is required.")
				continue
			}
			if err := f.set(&c, input); err != nil {
				_ = r.handler.SystemOutput(ctx, err.Error())
				continue
			}
			break
		}
	}

	withContact, err := r.engine.SetContact(ctx, state, c)
	if err != nil {
		return r.notice(ctx, state, err.Error())
	}
	return r.advance(ctx, withContact)
}

func (r *Runner) result(ctx context.Context, state domain.WizardState) (domain.WizardState, error) {
	if state.Result == nil {
		return state, fmt.Errorf("%w: session %s has no result", domain.ErrInvalidTransition, state.SessionID)
	}
	frame := Frame{
		View:    r.engine.View(state),
		Content: quote.Brochure(r.engine.Catalog(), *state.Result),
		Prompt:  "Type `restart` to start over, or press Enter to leave.",
	}
	if err := r.handler.Output(ctx, frame); err != nil {
		return state, err
	}

	for {
		input, err := r.handler.Input(ctx)
		if err != nil {
			return state, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case CommandRestart:
			return r.engine.Reset(ctx, state)
		case "", CommandQuit:
			return state, ErrQuit
		}
		_ = r.handler.SystemOutput(ctx, "Unknown command. Type `restart` or press Enter.")
	}
}
