// Package context detaches background work from the lifetime of the event
// that started it.
package context

import (
	"context"
	"time"
)

// DetachedContext keeps the parent's values but never reports cancellation or
// a deadline inherited from it.
type DetachedContext struct {
	parent context.Context
}

// Detach clones ctx so that work started on behalf of a UI or HTTP event keeps
// running after that event's context is cancelled.
func Detach(ctx context.Context) context.Context {
	return DetachedContext{ctx}
}

// DetachWithTimeout detaches ctx and bounds the result by d.
func DetachWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(Detach(ctx), d)
}

func (d DetachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

func (d DetachedContext) Done() <-chan struct{} {
	return nil
}

func (d DetachedContext) Err() error {
	return nil
}

func (d DetachedContext) Value(key any) any {
	return d.parent.Value(key)
}
