// Package cache implements the polling resource cache that keeps local
// copies of server collections fresh. Entries are keyed by the canonical
// filter signature; at most one fetch per entry is in flight, responses are
// arbitrated by issue order, and a failed fetch degrades silently to the
// last-known-good snapshot.
package cache

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/sentinelops/triage-console/internal/query"
)

// FetchFunc retrieves the full collection for one set of criteria from the
// backend. Server-side filters are derived from the criteria by the caller;
// client-only keys such as free-text search are applied by the pipeline.
type FetchFunc[T any] func(ctx context.Context, c query.Criteria) ([]T, error)

// SnapshotStore persists last-known-good snapshots so a restarted console
// can show data before its first fetch completes. Best-effort only.
type SnapshotStore interface {
	Load(resource, signature string) ([]byte, bool)
	Save(resource, signature string, data []byte)
}

// Options tune a cache.
type Options struct {
	// Window is the freshness window: snapshots older than this trigger a
	// background refresh on the next read or tick. Default 5s.
	Window time.Duration
	// RetryDelay spaces the single silent retry after a failed fetch.
	RetryDelay time.Duration
	Logger     *log.Logger
	Snapshots  SnapshotStore
}

// Cache holds the snapshots for one resource collection.
type Cache[T any] struct {
	resource   string
	fields     query.FieldSet[T]
	fetch      FetchFunc[T]
	window     time.Duration
	retryDelay time.Duration
	logger     *log.Logger
	snaps      SnapshotStore

	mu       sync.Mutex
	fetchCtx context.Context
	entries  map[string]*entry[T]
	seq      uint64
}

type entry[T any] struct {
	criteria  query.Criteria
	items     []T
	hasData   bool
	fetchedAt time.Time
	stale     bool
	inflight  bool
	latest    uint64
	seeded    bool
	subs      map[int]func()
	nextSub   int
}

// New creates a cache for one resource.
func New[T any](resource string, fields query.FieldSet[T], fetch FetchFunc[T], opts Options) *Cache[T] {
	if opts.Window <= 0 {
		opts.Window = 5 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Cache[T]{
		resource:   resource,
		fields:     fields,
		fetch:      fetch,
		window:     opts.Window,
		retryDelay: opts.RetryDelay,
		logger:     opts.Logger,
		snaps:      opts.Snapshots,
		fetchCtx:   context.Background(),
		entries:    make(map[string]*entry[T]),
	}
}

// Resource returns the resource collection this cache holds.
func (c *Cache[T]) Resource() string { return c.resource }

// Get returns the current snapshot for the criteria without blocking. When
// the entry is missing, stale, or older than the freshness window, a fetch
// is triggered in the background; callers observe its effect on a later
// read or through a subscription, never via the return value.
func (c *Cache[T]) Get(crit query.Criteria) ([]T, bool) {
	c.mu.Lock()
	e := c.ensure(crit)
	if c.needsFetch(e) && !e.inflight {
		c.launch(e)
	}
	items := make([]T, len(e.items))
	copy(items, e.items)
	ok := e.hasData
	c.mu.Unlock()
	return items, ok
}

// GetPage runs the snapshot for the criteria through the filter, sort, and
// pagination pipeline.
func (c *Cache[T]) GetPage(crit query.Criteria, spec query.SortSpec, req query.PageRequest) query.Page[T] {
	items, _ := c.Get(crit)
	return query.Apply(items, c.fields, crit, spec, req)
}

// GetAll returns the whole filtered and sorted collection, for exports.
func (c *Cache[T]) GetAll(crit query.Criteria, spec query.SortSpec) []T {
	items, _ := c.Get(crit)
	return query.ApplyAll(items, c.fields, crit, spec)
}

// Invalidate marks the given entries stale, or every entry when none are
// given, forcing a refetch regardless of the freshness window. Entries that
// are being watched or already have a fetch in flight are refetched
// immediately; the new fetch supersedes any in-flight one so a response
// carrying pre-mutation data can never overwrite the post-mutation state.
func (c *Cache[T]) Invalidate(criteria ...query.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(criteria) == 0 {
		for _, e := range c.entries {
			c.invalidateEntry(e)
		}
		return
	}
	for _, crit := range criteria {
		if e, ok := c.entries[crit.Signature()]; ok {
			c.invalidateEntry(e)
		}
	}
}

// invalidateEntry marks one entry stale; callers must hold c.mu.
func (c *Cache[T]) invalidateEntry(e *entry[T]) {
	e.stale = true
	if e.inflight || len(e.subs) > 0 {
		c.launch(e)
	}
}

// Subscribe registers a callback invoked whenever the snapshot for the
// criteria changes. It returns an unsubscribe function. Unsubscribing does
// not cancel an in-flight fetch: entries are shared and another view may
// still want the result.
func (c *Cache[T]) Subscribe(crit query.Criteria, fn func()) func() {
	c.mu.Lock()
	e := c.ensure(crit)
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	sig := crit.Signature()
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		if e, ok := c.entries[sig]; ok {
			delete(e.subs, id)
		}
		c.mu.Unlock()
	}
}

// StartRefresh runs the background refresh loop until ctx is cancelled.
// Watched entries whose snapshot age exceeds the freshness window are
// refetched each tick; this polling stands in for push updates by design.
func (c *Cache[T]) StartRefresh(ctx context.Context) {
	c.mu.Lock()
	c.fetchCtx = ctx
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(c.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refreshWatched()
			}
		}
	}()
}

func (c *Cache[T]) refreshWatched() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if len(e.subs) == 0 || e.inflight {
			continue
		}
		if c.needsFetch(e) {
			c.launch(e)
		}
	}
}

// ensure returns the entry for the criteria, creating and seeding it from
// the snapshot store on first touch. Callers must hold c.mu.
func (c *Cache[T]) ensure(crit query.Criteria) *entry[T] {
	sig := crit.Signature()
	e, ok := c.entries[sig]
	if !ok {
		e = &entry[T]{criteria: crit, subs: make(map[int]func())}
		c.entries[sig] = e
	}
	if !e.seeded {
		e.seeded = true
		if c.snaps != nil {
			if data, ok := c.snaps.Load(c.resource, sig); ok {
				var items []T
				if err := json.Unmarshal(data, &items); err == nil {
					// Seeded data displays immediately but keeps a zero
					// fetch time so a real fetch follows right away.
					e.items = items
					e.hasData = true
				}
			}
		}
	}
	return e
}

func (c *Cache[T]) needsFetch(e *entry[T]) bool {
	return !e.hasData || e.stale || time.Since(e.fetchedAt) >= c.window
}

// launch issues a fetch for the entry, superseding any in-flight one.
// Callers must hold c.mu.
func (c *Cache[T]) launch(e *entry[T]) {
	c.seq++
	seq := c.seq
	e.latest = seq
	e.inflight = true
	crit := e.criteria
	ctx := c.fetchCtx
	go c.runFetch(ctx, seq, crit)
}

func (c *Cache[T]) runFetch(ctx context.Context, seq uint64, crit query.Criteria) {
	items, err := c.fetch(ctx, crit)
	if err != nil {
		c.logger.Printf("fetch %s failed, retrying once: %v", crit.Signature(), err)
		select {
		case <-ctx.Done():
			c.applyFailure(seq, crit)
			return
		case <-time.After(c.retryDelay):
		}
		items, err = c.fetch(ctx, crit)
	}
	if err != nil {
		// Read-fetch failures degrade silently: keep the last snapshot.
		c.logger.Printf("fetch %s failed after retry: %v", crit.Signature(), err)
		c.applyFailure(seq, crit)
		return
	}
	c.applySuccess(seq, crit, items)
}

func (c *Cache[T]) applyFailure(seq uint64, crit query.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[crit.Signature()]; ok && e.latest == seq {
		e.inflight = false
	}
}

func (c *Cache[T]) applySuccess(seq uint64, crit query.Criteria, items []T) {
	sig := crit.Signature()
	c.mu.Lock()
	e, ok := c.entries[sig]
	if !ok || e.latest != seq {
		// A fetch issued later owns this entry now; drop the stale result.
		c.mu.Unlock()
		return
	}
	e.items = items
	e.hasData = true
	e.fetchedAt = time.Now()
	e.stale = false
	e.inflight = false
	subs := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if c.snaps != nil {
		if data, err := json.Marshal(items); err == nil {
			c.snaps.Save(c.resource, sig, data)
		}
	}
	for _, fn := range subs {
		fn()
	}
}
