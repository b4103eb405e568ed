package cache

import (
	"context"
	"errors"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

// ErrClosed is returned by Wait once the binding is closed.
var ErrClosed = errors.New("binding closed")

// Option configures a Binding at subscribe time.
type Option func(*Binding)

// KeepPreviousData overrides the store default for showing the last rows
// while a refetch is loading.
func KeepPreviousData(keep bool) Option {
	return func(b *Binding) { b.keepPrevious = keep }
}

// WithoutPreviousData hides rows while a refetch is loading.
func WithoutPreviousData() Option {
	return KeepPreviousData(false)
}

// Binding is one subscriber's view of a cached resource.
type Binding struct {
	store        *Store
	entry        *entry
	key          core.CacheKey
	keepPrevious bool
	updates      chan struct{}

	// guarded by store.mu
	closed bool
	last   Snapshot
}

// Key returns the cache key this binding is subscribed to.
func (b *Binding) Key() core.CacheKey {
	return b.key
}

// Snapshot returns the current state. After Close it returns the state
// captured at close time and never changes again.
func (b *Binding) Snapshot() Snapshot {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.closed {
		return b.last
	}
	return b.viewLocked()
}

func (b *Binding) viewLocked() Snapshot {
	snap := b.entry.snap
	if snap.Status == StatusLoading && !b.keepPrevious {
		snap.Data = nil
	}
	return snap
}

// Updates delivers a signal after each state change. Signals coalesce; the
// channel is closed when the binding closes.
func (b *Binding) Updates() <-chan struct{} {
	return b.updates
}

// Refetch starts a fresh fetch, or queues one behind the fetch in flight.
func (b *Binding) Refetch() {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.closed {
		return
	}
	b.store.refetchLocked(b.entry)
}

// Wait blocks until the resource has settled (success or error) and returns
// that state.
func (b *Binding) Wait(ctx context.Context) (Snapshot, error) {
	for {
		snap, closed := b.peek()
		if closed {
			return snap, ErrClosed
		}
		if snap.Settled() {
			return snap, nil
		}

		select {
		case _, ok := <-b.updates:
			if !ok {
				return b.Snapshot(), ErrClosed
			}
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

func (b *Binding) peek() (Snapshot, bool) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.closed {
		return b.last, true
	}
	return b.viewLocked(), false
}

// Close ends the subscription. The last binding of a key cancels its
// in-flight fetch. Safe to call more than once.
func (b *Binding) Close() {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.closed {
		return
	}
	b.releaseLocked()
	b.store.unsubscribeLocked(b)
}

func (b *Binding) releaseLocked() {
	b.last = b.viewLocked()
	b.closed = true
	close(b.updates)
}
