// Package coalesce deduplicates concurrent calls for the same key, with a
// deadline so a hung call cannot hold its waiters forever.
package coalesce

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrTimeout is returned to callers that waited longer than the group timeout.
var ErrTimeout = errors.New("coalesced call timed out")

// Group runs at most one call per key at a time. Callers arriving while a
// call is in flight wait for and share its result. The key is released as
// soon as the call settles, whatever the outcome.
type Group[T any] struct {
	group   singleflight.Group
	timeout time.Duration
}

// New creates a Group. A zero timeout means callers wait until the call
// returns or their own context ends.
func New[T any](timeout time.Duration) *Group[T] {
	return &Group[T]{timeout: timeout}
}

// Do runs fn for key unless a call for key is already in flight, in which
// case it waits for that call. leader reports whether this caller's fn was the
// one executed.
//
// fn receives a context that keeps ctx's values but not its cancellation, so
// one impatient caller cannot fail the call for everyone; it is bounded by the
// group timeout instead.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (val T, leader bool, err error) {
	var ran atomic.Bool
	ch := g.group.DoChan(key, func() (v interface{}, err error) {
		ran.Store(true)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("coalesced call panicked: %v", r)
			}
		}()

		runCtx := context.WithoutCancel(ctx)
		if g.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, g.timeout)
			defer cancel()
		}
		return fn(runCtx)
	})

	var deadline <-chan time.Time
	if g.timeout > 0 {
		timer := time.NewTimer(g.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, ran.Load(), res.Err
		}
		v, _ := res.Val.(T)
		return v, ran.Load(), nil
	case <-deadline:
		// Let the next caller start a fresh call instead of joining the stuck one.
		g.group.Forget(key)
		return zero, ran.Load(), ErrTimeout
	case <-ctx.Done():
		return zero, ran.Load(), ctx.Err()
	}
}
