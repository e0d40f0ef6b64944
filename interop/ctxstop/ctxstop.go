// Package ctxstop provides adapters between stop handles and the standard
// context package. It enables incremental migration of context-based code
// without pulling context plumbing into the core library.
package ctxstop

import (
	"context"

	"github.com/NetPo4ki/go-stoptask/stop"
)

// Context returns a context derived from parent that is canceled once obs
// observes a stop request. The returned CancelFunc releases the watcher
// goroutine and must be called, typically with defer.
func Context(parent context.Context, obs stop.Observer) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-obs.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Propagate requests a stop on ctl once ctx is canceled. The returned
// function detaches the watcher, reporting whether it detached before the
// stop request fired.
func Propagate(ctx context.Context, ctl stop.Controller) func() bool {
	return context.AfterFunc(ctx, func() { ctl.RequestStop() })
}
