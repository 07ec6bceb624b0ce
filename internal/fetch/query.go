// Package fetch runs repository reads and writes in the background and
// exposes them as handles the adapter can project.
package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"parish.org/internal/adapter"
)

// Loader produces the value of a read.
type Loader[T any] func(ctx context.Context) (T, error)

// Waiter is anything that can be waited on until it settles.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Query is a read handle backed by a goroutine per load. The last resolved
// data survives refetches; a refetch started while a load is in flight
// supersedes it.
type Query[T any] struct {
	ctx  context.Context
	load Loader[T]

	mu   sync.Mutex
	snap adapter.Snapshot[T]
	gen  uint64
	done chan struct{}
}

var _ adapter.Handle[struct{}] = (*Query[struct{}])(nil)

// NewQuery starts loading immediately. ctx bounds every load the query runs.
func NewQuery[T any](ctx context.Context, load Loader[T]) *Query[T] {
	q := &Query[T]{ctx: ctx, load: load}
	q.start()
	return q
}

// Snapshot returns the current state of the read.
func (q *Query[T]) Snapshot() adapter.Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// Refetch reloads in the background.
func (q *Query[T]) Refetch() { q.start() }

// Wait blocks until the current load settles or ctx is done.
func (q *Query[T]) Wait(ctx context.Context) error {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Query[T]) start() {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	if q.done == nil {
		q.done = make(chan struct{})
	}
	q.snap.Status = adapter.StatusLoading
	q.snap.Refetching = q.snap.HasData
	q.mu.Unlock()

	go func() {
		data, err := q.load(q.ctx)

		q.mu.Lock()
		defer q.mu.Unlock()
		if gen != q.gen {
			return
		}
		if err != nil {
			q.snap.Status = adapter.StatusError
			q.snap.Err = err
		} else {
			q.snap = adapter.Snapshot[T]{Status: adapter.StatusSuccess, Data: data, HasData: true}
		}
		q.snap.Refetching = false
		close(q.done)
		q.done = nil
	}()
}

// WaitAll waits for every waiter to settle. It stops early only when ctx is
// done.
func WaitAll(ctx context.Context, ws ...Waiter) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range ws {
		g.Go(func() error { return w.Wait(gctx) })
	}
	return g.Wait()
}
