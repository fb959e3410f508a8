package analytics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
)

// Nop accepts every event and discards it.
type Nop struct{}

// Emit implements ports.AnalyticsSink.
func (Nop) Emit(context.Context, domain.Event) error { return nil }

// Log writes every event to a structured logger. It never fails.
type Log struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLog creates a log-only sink at Info level.
func NewLog(logger *slog.Logger) *Log {
	return &Log{Logger: logger, Level: slog.LevelInfo}
}

// Emit implements ports.AnalyticsSink.
func (l *Log) Emit(ctx context.Context, event domain.Event) error {
	attrs := make([]slog.Attr, 0, len(event.Properties)+2)
	attrs = append(attrs, slog.String("event", string(event.Name)), slog.String("session_id", event.SessionID))
	for k, v := range event.Properties {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.Logger.LogAttrs(ctx, l.Level, "analytics", attrs...)
	return nil
}

// Func adapts a function to ports.AnalyticsSink.
type Func func(ctx context.Context, event domain.Event) error

// Emit implements ports.AnalyticsSink.
func (f Func) Emit(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Multi delivers an event to every sink and joins their errors.
// One failing sink does not stop the others.
type Multi []ports.AnalyticsSink

// Emit implements ports.AnalyticsSink.
func (m Multi) Emit(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
