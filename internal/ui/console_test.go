package ui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/cache"
	"github.com/sentinelops/triage-console/internal/coordinator"
	"github.com/sentinelops/triage-console/internal/notify"
)

// newTestUI builds a full console against a dead backend; cache fetches fail
// fast and silently, which is all the lifecycle tests need.
func newTestUI(t *testing.T) (*UI, *notify.Queue, tcell.SimulationScreen) {
	t.Helper()
	client := api.NewClient("http://127.0.0.1:0/api/v1", api.Options{Timeout: 50 * time.Millisecond})
	queue := notify.NewQueue(notify.Options{DefaultTTL: time.Minute})
	caches := cache.NewSet(client, cache.Options{Window: time.Hour, RetryDelay: time.Millisecond})
	coord := coordinator.New(client, caches, queue, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	u := NewUI(ctx, client, caches, coord, queue, 10, nil)
	screen := tcell.NewSimulationScreen("UTF-8")
	u.app.SetScreen(screen)
	return u, queue, screen
}

// Constructing the console must not invoke any view callback before the view
// is fully assembled; the dropdowns' initial selection used to do exactly
// that.
func TestNewUIConstructsWithoutPanic(t *testing.T) {
	u, _, _ := newTestUI(t)
	if u.alertsView == nil || u.incidentsView == nil || u.eventsView == nil {
		t.Fatalf("views not built")
	}
	if len(u.eventsView.filters) != 2 {
		t.Fatalf("expected 2 event filter dropdowns, got %d", len(u.eventsView.filters))
	}
}

// Dismissing a notification from the keyboard runs the queue's subscriber
// inside an input handler; the redraw it schedules must not block the event
// loop, and the console must still quit cleanly afterwards.
func TestDismissAndQuitFromEventLoop(t *testing.T) {
	u, queue, screen := newTestUI(t)

	done := make(chan error, 1)
	go func() { done <- u.Run() }()

	// Let the event loop come up before injecting input.
	time.Sleep(100 * time.Millisecond)
	queue.Info("snapshot refreshed")

	waitActive := func(want int) {
		deadline := time.Now().Add(2 * time.Second)
		for len(queue.Active()) != want {
			if time.Now().After(deadline) {
				t.Fatalf("queue stuck at %d active, want %d", len(queue.Active()), want)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	waitActive(1)

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	waitActive(0)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event loop did not stop after 'q'")
	}
}
