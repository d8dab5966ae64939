package notify

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEnqueueKeepsInsertionOrder(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: time.Minute})
	q.Info("first")
	q.Info("second")
	q.Error("third")

	active := q.Active()
	if len(active) != 3 {
		t.Fatalf("expected 3 active, got %d", len(active))
	}
	for i, want := range []string{"first", "second", "third"} {
		if active[i].Message != want {
			t.Fatalf("position %d = %q, want %q", i, active[i].Message, want)
		}
	}
}

func TestNotificationExpiresAfterTTL(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: 50 * time.Millisecond})
	q.Success("done")

	if len(q.Active()) != 1 {
		t.Fatalf("expected 1 active right after enqueue")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(q.Active()) > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("notification did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestErrorsAreStickyByDefault(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: 20 * time.Millisecond})
	id := q.Error("backend down")

	time.Sleep(100 * time.Millisecond)
	if len(q.Active()) != 1 {
		t.Fatalf("error should stay until dismissed")
	}

	q.Dismiss(id)
	if len(q.Active()) != 0 {
		t.Fatalf("dismiss did not remove the error")
	}
}

func TestDismissIsIdempotent(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: time.Minute})
	id := q.Info("hello")

	q.Dismiss(id)
	q.Dismiss(id)
	q.Dismiss("no-such-id")

	if len(q.Active()) != 0 {
		t.Fatalf("expected empty queue, got %d", len(q.Active()))
	}
}

func TestSubscribeFiresOnEnqueueAndDismiss(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: time.Minute})

	var fired atomic.Int32
	unsubscribe := q.Subscribe(func() { fired.Add(1) })

	id := q.Info("hello")
	q.Dismiss(id)
	if got := fired.Load(); got != 2 {
		t.Fatalf("expected 2 callbacks, got %d", got)
	}

	unsubscribe()
	q.Info("after unsubscribe")
	if got := fired.Load(); got != 2 {
		t.Fatalf("callback fired after unsubscribe: %d", got)
	}
}

func TestDismissedNotificationTimerIsStopped(t *testing.T) {
	q := NewQueue(Options{DefaultTTL: 50 * time.Millisecond})
	id := q.Success("quick")
	q.Dismiss(id)

	// A notification enqueued after the dismissal must survive the first
	// one's original expiry.
	keep := q.Enqueue(SeverityInfo, "keep", time.Minute)
	time.Sleep(80 * time.Millisecond)

	active := q.Active()
	if len(active) != 1 || active[0].ID != keep {
		t.Fatalf("expected only the later notification to remain, got %+v", active)
	}
}
