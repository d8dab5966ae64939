// Package notify implements the transient notification queue that reports
// the outcome of background operations to the analyst.
package notify

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is one short-lived, user-visible status message.
type Notification struct {
	ID        string
	Severity  Severity
	Message   string
	TTL       time.Duration
	CreatedAt time.Time
}

// Options tune the queue's default lifetimes. A TTL of zero or less makes a
// notification sticky until dismissed, which is the default for errors.
type Options struct {
	DefaultTTL time.Duration
	ErrorTTL   time.Duration
	Logger     *log.Logger
}

// Queue holds the active notifications in insertion order. It has
// process-wide lifetime: created once at startup, injected into every
// component that reports outcomes, never torn down before process exit.
type Queue struct {
	defaultTTL time.Duration
	errorTTL   time.Duration
	logger     *log.Logger

	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
	subs   map[int]func()
	nextID int
}

// NewQueue creates an empty queue.
func NewQueue(opts Options) *Queue {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = 4 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Queue{
		defaultTTL: opts.DefaultTTL,
		errorTTL:   opts.ErrorTTL,
		logger:     opts.Logger,
		timers:     make(map[string]*time.Timer),
		subs:       make(map[int]func()),
	}
}

// Enqueue adds a notification and schedules its removal at now + ttl.
// A ttl of zero or less leaves the notification until dismissed.
func (q *Queue) Enqueue(severity Severity, message string, ttl time.Duration) string {
	n := Notification{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   message,
		TTL:       ttl,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.items = append(q.items, n)
	if ttl > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(ttl, func() { q.Dismiss(id) })
	}
	subs := q.subscribers()
	q.mu.Unlock()

	q.logger.Printf("notification %s: %s", severity, message)
	for _, fn := range subs {
		fn()
	}
	return n.ID
}

// Success enqueues a success message with the default TTL.
func (q *Queue) Success(message string) string {
	return q.Enqueue(SeveritySuccess, message, q.defaultTTL)
}

// Error enqueues an error message with the error TTL (sticky by default).
func (q *Queue) Error(message string) string {
	return q.Enqueue(SeverityError, message, q.errorTTL)
}

// Info enqueues an informational message with the default TTL.
func (q *Queue) Info(message string) string {
	return q.Enqueue(SeverityInfo, message, q.defaultTTL)
}

// Warning enqueues a warning message with the default TTL.
func (q *Queue) Warning(message string) string {
	return q.Enqueue(SeverityWarning, message, q.defaultTTL)
}

// Dismiss removes a notification. Removal is idempotent: the deferred
// expiry of an already-dismissed notification is a silent no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	idx := -1
	for i, n := range q.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	subs := q.subscribers()
	q.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Active returns the live notifications in insertion order.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Subscribe registers a change callback invoked after every enqueue or
// removal, outside the queue's lock. It returns an unsubscribe function.
func (q *Queue) Subscribe(fn func()) func() {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.subs[id] = fn
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

// subscribers snapshots the callbacks; callers must hold q.mu.
func (q *Queue) subscribers() []func() {
	out := make([]func(), 0, len(q.subs))
	for _, fn := range q.subs {
		out = append(out, fn)
	}
	return out
}
