package client

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc"
)

// State is the observable lifecycle of the bridge's current mutation.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

var (
	// ErrBusy is returned when a mutation is already in flight.
	ErrBusy = errors.New("a mutation is already in flight")
	// ErrClosed is returned when the bridge has been closed.
	ErrClosed = errors.New("bridge is closed")
)

// Bridge issues at most one mutation at a time and reconciles local state
// only on success. Failures go to the error reporter and never touch the
// cache. Closing the bridge stops any still-pending reconciliation from
// applying, mirroring a consumer that has gone away.
type Bridge struct {
	mu       sync.Mutex
	wg       conc.WaitGroup
	state    State
	cause    error
	closed   bool
	reporter func(error)
}

// NewBridge creates a bridge routing failures to the given reporter. A nil
// reporter discards failure messages; the failure state is still observable.
func NewBridge(reporter func(error)) *Bridge {
	return &Bridge{reporter: reporter}
}

// Do issues one mutation. op performs the network call; reconcile applies
// the acknowledged result to local state and runs only when op succeeds and
// the bridge is still open. Do never blocks on the network; it returns
// ErrBusy while a previous mutation is pending. There is no automatic retry.
func (b *Bridge) Do(ctx context.Context, op func(context.Context) error, reconcile func()) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.state == StatePending {
		b.mu.Unlock()
		return ErrBusy
	}
	b.state = StatePending
	b.cause = nil
	b.mu.Unlock()

	b.wg.Go(func() {
		err := op(ctx)

		b.mu.Lock()
		defer b.mu.Unlock()

		if err != nil {
			b.state = StateFailed
			b.cause = err
			if b.reporter != nil && !b.closed {
				b.reporter(err)
			}
			return
		}

		b.state = StateSucceeded
		if reconcile != nil && !b.closed {
			reconcile()
		}
	})
	return nil
}

// State returns the current bridge state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Cause returns the failure cause of the last mutation, if any.
func (b *Bridge) Cause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cause
}

// Wait blocks until the in-flight mutation, if any, has settled.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// Close prevents new mutations and stops pending reconciliation from
// applying. It does not cancel the in-flight network call; there is no
// server-side cancellation to pair it with.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}
