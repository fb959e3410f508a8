package runner

import (
	"context"
	"os"

	"github.com/aretw0/upskill"
	"golang.org/x/term"
)

// Frame is one screen of the wizard.
type Frame struct {
	View    upskill.View `json:"view"`
	Content string       `json:"content"`
	Prompt  string       `json:"prompt,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a frame.
	Output(ctx context.Context, frame Frame) error

	// Input reads one reply. It returns io.EOF when the input is exhausted
	// and ctx.Err() when ctx is done first.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (validation notices, status).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms Markdown content before it is written.
type ContentRenderer func(string) (string, error)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
