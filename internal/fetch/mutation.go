package fetch

import (
	"context"
	"sync"
)

// MutationStatus is the phase of the most recent mutation.
type MutationStatus uint8

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationError
	MutationSuccess
)

func (s MutationStatus) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationError:
		return "error"
	case MutationSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Refetcher is a read that can be reloaded after a write.
type Refetcher interface {
	Refetch()
}

// Mutation wraps a write and tracks its last outcome.
type Mutation[I, O any] struct {
	fn         func(ctx context.Context, in I) (O, error)
	invalidate []Refetcher

	mu     sync.Mutex
	status MutationStatus
	data   O
	err    error
}

// NewMutation wraps fn. Every handle in invalidate is refetched after a
// successful call.
func NewMutation[I, O any](fn func(ctx context.Context, in I) (O, error), invalidate ...Refetcher) *Mutation[I, O] {
	return &Mutation[I, O]{fn: fn, invalidate: invalidate}
}

// MutateAsync runs the write and records its result. Callers that must not
// block run it on their own goroutine.
func (m *Mutation[I, O]) MutateAsync(ctx context.Context, in I) (O, error) {
	m.mu.Lock()
	m.status = MutationPending
	m.err = nil
	m.mu.Unlock()

	out, err := m.fn(ctx, in)

	m.mu.Lock()
	if err != nil {
		m.status = MutationError
		m.err = err
	} else {
		m.status = MutationSuccess
		m.data = out
	}
	m.mu.Unlock()

	if err == nil {
		for _, r := range m.invalidate {
			r.Refetch()
		}
	}
	return out, err
}

func (m *Mutation[I, O]) Status() MutationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Data returns the output of the last successful call.
func (m *Mutation[I, O]) Data() O {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Err returns the error of the last call, nil unless it failed.
func (m *Mutation[I, O]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset returns the mutation to idle.
func (m *Mutation[I, O]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero O
	m.status, m.data, m.err = MutationIdle, zero, nil
}
