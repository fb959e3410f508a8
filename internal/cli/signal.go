package cli

import (
	"context"

	"github.com/aretw0/lifecycle"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM, or when
// the returned cancel function is called.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithCancel(lifecycle.NewSignalContext(parent))
}
