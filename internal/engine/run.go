// internal/engine/run.go
package engine

import (
	"context"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

// RunGrid drives a complete grid through the engine: it feeds every key into
// the pool and blocks until all workers drain. On cancellation the feed
// stops, in-flight configurations abort, and whatever the collector has
// already received remains valid.
func (e *Engine) RunGrid(ctx context.Context, keys []sweep.Key) {
	ch := make(chan sweep.Key)

	e.Start(ctx, ch)

feed:
	for _, key := range keys {
		select {
		case <-ctx.Done():
			break feed
		case ch <- key:
		}
	}
	close(ch)

	e.Stop()
}
