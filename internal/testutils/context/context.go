package context

import (
	"context"
	"testing"
	"time"
)

// WithTest derives a context ending 1 second before the deadline of t,
// leaving time to clean up databases. It is canceled when t ends.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	var cctx context.Context
	var cancel context.CancelFunc
	if deadline, ok := t.Deadline(); ok {
		cctx, cancel = context.WithDeadline(ctx, deadline.Add(-time.Second))
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	t.Cleanup(cancel)
	return cctx, cancel
}
