// Package cache is a key-addressed store of remote row sets.
//
// Each CacheKey maps to one entry holding the last fetched rows, the fetch
// status and the bindings subscribed to it. At most one fetch per key is in
// flight. Invalidating a key with subscribers starts a refetch; previous
// rows stay visible until it settles. Closing the last binding of a key
// cancels its fetch and drops the entry, and any response that arrives
// afterwards is discarded.
package cache

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

// Status is the lifecycle state of a cached resource.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher loads the rows of one resource.
type Fetcher func(ctx context.Context) ([]core.Row, error)

// Snapshot is the state of a resource as seen by a binding.
type Snapshot struct {
	Data      []core.Row
	Err       error
	Status    Status
	UpdatedAt time.Time
}

// Settled reports whether the last fetch has finished.
func (s Snapshot) Settled() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}

// Config tunes a Store.
type Config struct {
	// FetchTimeout bounds each fetch; zero means no timeout.
	FetchTimeout time.Duration
	// KeepPreviousData shows the last rows while a refetch is loading.
	// Bindings may override it with KeepPreviousData.
	KeepPreviousData bool
}

// Store holds cache entries keyed by CacheKey. Safe for concurrent use.
type Store struct {
	cfg  Config
	base context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	entries map[core.CacheKey]*entry
	closed  bool

	wg sync.WaitGroup
}

type entry struct {
	key   core.CacheKey
	fetch Fetcher
	snap  Snapshot
	subs  map[*Binding]struct{}

	gen      uint64
	cancel   context.CancelFunc
	inflight bool
	stale    bool // invalidated while a fetch was in flight
	released bool
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	base, stop := context.WithCancel(context.Background())
	return &Store{
		cfg:     cfg,
		base:    base,
		stop:    stop,
		entries: make(map[core.CacheKey]*entry),
	}
}

// Subscribe binds to the resource under key, fetching it with fetch when no
// fresh data is cached. When the key already has subscribers their fetcher
// is kept. The returned binding must be closed.
func (s *Store) Subscribe(key core.CacheKey, fetch Fetcher, opts ...Option) *Binding {
	b := &Binding{
		store:        s,
		key:          key,
		keepPrevious: s.cfg.KeepPreviousData,
		updates:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		b.closed = true
		b.last = Snapshot{Status: StatusIdle}
		close(b.updates)
		return b
	}

	e, ok := s.entries[key]
	if !ok {
		e = &entry{
			key:   key,
			fetch: fetch,
			snap:  Snapshot{Status: StatusIdle},
			subs:  make(map[*Binding]struct{}),
		}
		s.entries[key] = e
	}
	b.entry = e
	e.subs[b] = struct{}{}

	if e.snap.Status == StatusIdle && !e.inflight {
		s.startFetchLocked(e)
	}
	return b
}

// Invalidate marks keys stale. Keys with subscribers refetch now, or right
// after their in-flight fetch settles. Keys without subscribers hold no
// data, so there is nothing to mark.
func (s *Store) Invalidate(keys ...core.CacheKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		e, ok := s.entries[key]
		if !ok {
			continue
		}
		slog.Debug("cache: invalidate", "key", key, "inflight", e.inflight)
		s.refetchLocked(e)
	}
}

// Keys returns the keys that currently have subscribers, sorted.
func (s *Store) Keys() []core.CacheKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]core.CacheKey, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Subscribers returns the number of open bindings for key.
func (s *Store) Subscribers(key core.CacheKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return len(e.subs)
	}
	return 0
}

// Close releases every binding, cancels in-flight fetches and waits for
// their goroutines to return.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for key, e := range s.entries {
		for b := range e.subs {
			b.releaseLocked()
		}
		s.releaseEntryLocked(e)
		delete(s.entries, key)
	}
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
}

func (s *Store) refetchLocked(e *entry) {
	if e.inflight {
		e.stale = true
		return
	}
	s.startFetchLocked(e)
}

func (s *Store) startFetchLocked(e *entry) {
	e.gen++
	gen := e.gen

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.cfg.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(s.base, s.cfg.FetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(s.base)
	}

	e.cancel = cancel
	e.inflight = true
	e.stale = false
	e.snap.Status = StatusLoading
	e.snap.Err = nil
	s.notifyLocked(e)

	s.wg.Add(1)
	go s.runFetch(ctx, cancel, e, gen)
}

func (s *Store) runFetch(ctx context.Context, cancel context.CancelFunc, e *entry, gen uint64) {
	defer s.wg.Done()
	defer cancel()

	rows, err := e.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.released || e.gen != gen {
		slog.Debug("cache: discarding late response", "key", e.key)
		return
	}

	e.inflight = false
	e.cancel = nil

	if err != nil {
		slog.Warn("cache: fetch failed", "key", e.key, "error", err)
		e.snap.Status = StatusError
		e.snap.Err = err
	} else {
		if rows == nil {
			rows = []core.Row{}
		}
		e.snap = Snapshot{
			Data:      rows,
			Status:    StatusSuccess,
			UpdatedAt: time.Now(),
		}
	}

	if e.stale {
		s.startFetchLocked(e)
		return
	}
	s.notifyLocked(e)
}

func (s *Store) notifyLocked(e *entry) {
	for b := range e.subs {
		select {
		case b.updates <- struct{}{}:
		default:
		}
	}
}

func (s *Store) releaseEntryLocked(e *entry) {
	e.released = true
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.inflight = false
}

func (s *Store) unsubscribeLocked(b *Binding) {
	e := b.entry
	delete(e.subs, b)
	if len(e.subs) > 0 {
		return
	}
	s.releaseEntryLocked(e)
	if cur, ok := s.entries[e.key]; ok && cur == e {
		delete(s.entries, e.key)
	}
}
