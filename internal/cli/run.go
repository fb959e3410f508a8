package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/internal/presentation/quote"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/runner"
)

// RunOptions configures an interactive wizard session.
type RunOptions struct {
	SessionID string
	// Fresh discards a stored session with the same id before starting.
	Fresh bool
	// JSON switches to JSON-Lines frames on stdin/stdout.
	JSON bool
	// Plain disables Markdown rendering.
	Plain bool
	// Style is the glamour style; empty picks one from the terminal background.
	Style string

	In  *os.File
	Out *os.File
}

// RunWizard runs one wizard session in the terminal.
func RunWizard(ctx context.Context, app *App, opts RunOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	quiet := opts.JSON

	if opts.Fresh && opts.SessionID != "" {
		if err := app.Sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to reset session %s: %w", opts.SessionID, err)
		}
	}

	// The router reads the terminal itself; anything else (pipes, files,
	// JSON mode) is read by the handler while the router only watches signals.
	routed := !opts.JSON && in == os.Stdin && runner.IsTerminal(in)
	handler, err := newHandler(in, out, opts, routed)
	if err != nil {
		return err
	}
	if c, ok := handler.(io.Closer); ok {
		defer c.Close()
	}
	if !quiet {
		quote.PrintBanner(out, "AI training assessment "+upskill.Version)
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	interrupted := make(chan struct{}, 1)

	var feeder inputFeeder
	mode := modeHeadless
	if th, ok := handler.(*runner.TextHandler); ok && routed {
		feeder, mode = th, modeInteractive
	}
	startRouter(ctx, newInteractiveRouter(feeder, mode, interrupted, stop))

	r := runner.NewRunner(app.Engine,
		runner.WithSessions(app.Sessions),
		runner.WithSessionID(opts.SessionID),
		runner.WithInputHandler(handler),
		runner.WithLogger(app.Logger),
	)
	final, err := r.Run(ctx)
	app.Logger.Info("wizard finished", "session_id", final.SessionID, "phase", final.Phase, "index", final.Index)

	if isInterrupted(err, interrupted) {
		if !quiet {
			fmt.Fprintf(out, "\n>>> Interrupted. Resume with --session %s\n", final.SessionID)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !quiet && final.Phase == domain.PhaseAnswering {
		fmt.Fprintf(out, ">>> Progress saved. Resume with --session %s\n", final.SessionID)
	}
	return nil
}

func newHandler(in, out *os.File, opts RunOptions, routed bool) (runner.IOHandler, error) {
	if opts.JSON {
		return runner.NewJSONHandler(in, out), nil
	}

	render := quote.PlainRenderer()
	if !opts.Plain && runner.IsTerminal(out) {
		glamour, err := quote.NewRenderer(opts.Style, 80)
		if err != nil {
			return nil, err
		}
		render = glamour
	}
	hopts := []runner.TextHandlerOption{runner.WithTextHandlerRenderer(runner.ContentRenderer(render))}
	if routed {
		hopts = append(hopts, runner.WithExternalInput())
	}
	return runner.NewTextHandler(in, out, hopts...), nil
}

// isInterrupted reports whether the run ended because of a signal or a
// cancelled context rather than a quit or the end of input.
func isInterrupted(err error, interrupted <-chan struct{}) bool {
	select {
	case <-interrupted:
		return true
	default:
	}
	return errors.Is(err, context.Canceled)
}
