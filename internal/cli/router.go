package cli

import (
	"context"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/upskill/pkg/runner"
)

type routerMode string

const (
	// modeInteractive reads the terminal and maps command synonyms.
	modeInteractive routerMode = "interactive"
	// modeHeadless handles signals only; the IO handler reads its own input.
	modeHeadless routerMode = "headless"
)

// commandMappings are the short forms accepted at every wizard prompt.
func commandMappings() map[string]lifecycle.Event {
	quit := lifecycle.ShutdownEvent{Reason: "manual"}
	return map[string]lifecycle.Event{
		"q":    quit,
		"quit": quit,
		"exit": quit,
		"b":    lifecycle.InputEvent{Command: runner.CommandBack},
		"r":    lifecycle.InputEvent{Command: runner.CommandRestart},
	}
}

// inputFeeder receives replies routed from the terminal.
type inputFeeder interface {
	FeedInput(text string, err error)
}

// newInteractiveRouter creates the lifecycle router of a wizard session.
//
// Replies are forwarded to feeder. A quit command reaches the runner as
// runner.ErrQuit so progress is saved before leaving. An interrupt is
// reported on interrupted and then cancels the session through stop.
func newInteractiveRouter(feeder inputFeeder, mode routerMode, interrupted chan<- struct{}, stop context.CancelFunc) *lifecycle.Router {
	var opts []lifecycle.InteractiveOption

	if feeder != nil {
		opts = append(opts, lifecycle.WithDefaultHandler(lifecycle.HandlerFunc(func(ctx context.Context, e lifecycle.Event) error {
			switch ev := e.(type) {
			case lifecycle.InputEvent:
				feeder.FeedInput(ev.Command, nil)
				return nil
			case lifecycle.LineEvent:
				feeder.FeedInput(ev.Line, nil)
				return nil
			case lifecycle.UnknownCommandEvent:
				feeder.FeedInput(ev.Command, nil)
				return nil
			}
			return lifecycle.ErrNotHandled
		})))
	}

	opts = append(opts, lifecycle.WithInterruptHandler(lifecycle.HandlerFunc(func(ctx context.Context, _ lifecycle.Event) error {
		select {
		case interrupted <- struct{}{}:
		default:
		}
		stop()
		return nil
	})))

	opts = append(opts, lifecycle.WithShutdown(func() {
		if feeder != nil {
			feeder.FeedInput("", runner.ErrQuit)
			return
		}
		stop()
	}))

	switch mode {
	case modeInteractive:
		opts = append(opts, lifecycle.WithInputOptions(lifecycle.WithInputMappings(commandMappings())))
	default:
		opts = append(opts, lifecycle.WithInput(false))
	}

	return lifecycle.NewInteractiveRouter(opts...)
}

// startRouter runs the router until ctx is done.
func startRouter(ctx context.Context, router *lifecycle.Router) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		return router.Start(ctx)
	})
}
