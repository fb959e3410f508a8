package runner

import (
	"log/slog"

	"github.com/aretw0/upskill/pkg/session"
)

// Option configures a Runner.
type Option func(*Runner)

// WithSessions persists the session through m after every change.
// Without it the session only lives for the duration of Run.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.sessions = m
	}
}

// WithSessionID resumes (or starts) the session with the given id.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.sessionID = id
	}
}

// WithInputHandler sets the IO handler. Defaults to a TextHandler on Stdin/Stdout.
func WithInputHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRenderer sets the Markdown renderer used by the default TextHandler.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}
