// Package ui implements the analyst-facing terminal interface. It is view
// glue over the core pipeline: views read pages from the resource caches,
// push commands through the mutation coordinator, and render whatever the
// notification queue holds.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/cache"
	"github.com/sentinelops/triage-console/internal/coordinator"
	"github.com/sentinelops/triage-console/internal/notify"
)

// Severity/status color tags for tview dynamic markup.
var severityTags = map[string]string{
	"critical": "#ff5f5f",
	"high":     "#ffaf5f",
	"medium":   "#ffd75f",
	"low":      "#87ffaf",
	"info":     "#87afff",
}

// severityTag returns the color tag for a priority or severity value.
func severityTag(value string) string {
	if tag, ok := severityTags[value]; ok {
		return tag
	}
	return "#e6edf3"
}

var notificationTags = map[notify.Severity]string{
	notify.SeveritySuccess: "#22c55e",
	notify.SeverityError:   "#ef4444",
	notify.SeverityInfo:    "#87afff",
	notify.SeverityWarning: "#f59e0b",
}

// UI is the top-level terminal application.
type UI struct {
	ctx    context.Context
	app    *tview.Application
	pages  *tview.Pages
	queue  *notify.Queue
	coord  *coordinator.Coordinator
	caches *cache.Set
	client *api.Client
	logger *log.Logger

	notifications *tview.TextView
	statusBar     *tview.TextView

	alertsView    *listView
	incidentsView *listView
	eventsView    *listView
	active        string
}

// NewUI wires the application. pageSize governs every list view.
func NewUI(ctx context.Context, client *api.Client, caches *cache.Set, coord *coordinator.Coordinator, queue *notify.Queue, pageSize int, logger *log.Logger) *UI {
	u := &UI{
		ctx:    ctx,
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		queue:  queue,
		coord:  coord,
		caches: caches,
		client: client,
		logger: logger,
	}

	u.notifications = tview.NewTextView().SetDynamicColors(true)
	u.notifications.SetBorder(false)

	u.statusBar = tview.NewTextView().SetDynamicColors(true)
	u.statusBar.SetText(statusHelp)

	u.alertsView = newAlertsView(u, pageSize)
	u.incidentsView = newIncidentsView(u, pageSize)
	u.eventsView = newEventsView(u, pageSize)

	u.pages.AddPage("alerts", u.alertsView.layout, true, true)
	u.pages.AddPage("incidents", u.incidentsView.layout, true, false)
	u.pages.AddPage("events", u.eventsView.layout, true, false)
	u.active = "alerts"

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.notifications, 1, 0, false).
		AddItem(u.pages, 0, 1, true).
		AddItem(u.statusBar, 1, 0, false)

	u.app.SetRoot(root, true)
	u.app.SetInputCapture(u.handleGlobalKeys)

	queue.Subscribe(func() {
		// The queue fires synchronously, including from inside input
		// handlers on the event-loop goroutine, where QueueUpdateDraw
		// would block forever waiting on itself. Always defer the redraw.
		go u.app.QueueUpdateDraw(u.renderNotifications)
	})

	return u
}

const statusHelp = "[#8a939f]F1[-] alerts  [#8a939f]F2[-] incidents  [#8a939f]F3[-] events  " +
	"[#8a939f]/[-] search  [#8a939f]f[-] filters  [#8a939f]n/p[-] page  [#8a939f]1-9[-] sort  " +
	"[#8a939f]e[-] export  [#8a939f]m[-] model  [#8a939f]x[-] dismiss  [#8a939f]q[-] quit"

// Run starts the event loop and blocks until quit or context cancellation.
func (u *UI) Run() error {
	go func() {
		<-u.ctx.Done()
		u.app.Stop()
	}()

	u.alertsView.watch()
	u.incidentsView.watch()
	u.eventsView.watch()
	u.alertsView.render()

	return u.app.Run()
}

// Stop terminates the event loop.
func (u *UI) Stop() {
	u.app.Stop()
}

func (u *UI) handleGlobalKeys(event *tcell.EventKey) *tcell.EventKey {
	// Don't swallow text typed into forms and input fields.
	if _, ok := u.app.GetFocus().(*tview.InputField); ok {
		return event
	}
	if _, ok := u.app.GetFocus().(*tview.DropDown); ok {
		return event
	}

	switch event.Key() {
	case tcell.KeyF1:
		u.switchTo("alerts")
		return nil
	case tcell.KeyF2:
		u.switchTo("incidents")
		return nil
	case tcell.KeyF3:
		u.switchTo("events")
		return nil
	}

	switch event.Rune() {
	case 'q':
		u.app.Stop()
		return nil
	case 'x':
		u.dismissOldest()
		return nil
	case 'm':
		u.showMLStats()
		return nil
	}
	return event
}

// showMLStats fetches and displays backend model state.
func (u *UI) showMLStats() {
	go func() {
		stats, err := u.client.MLStats(u.ctx)
		if err != nil {
			u.queue.Error("Failed to fetch model status")
			return
		}
		trained := "no"
		if stats.AnomalyDetectorTrained {
			trained = "yes"
		}
		text := fmt.Sprintf("Anomaly detector trained: %s\nEvents in window: %d\nPatterns loaded: %d\n",
			trained, stats.EventsInWindow, stats.PatternsLoaded)
		u.app.QueueUpdateDraw(func() {
			u.textModal("Model status", text)
		})
	}()
}

func (u *UI) switchTo(name string) {
	u.active = name
	u.pages.SwitchToPage(name)
	u.currentView().render()
	u.app.SetFocus(u.currentView().table)
}

func (u *UI) currentView() *listView {
	switch u.active {
	case "incidents":
		return u.incidentsView
	case "events":
		return u.eventsView
	default:
		return u.alertsView
	}
}

// dismissOldest removes the oldest visible notification, the keyboard
// equivalent of clicking a toast's close button.
func (u *UI) dismissOldest() {
	active := u.queue.Active()
	if len(active) > 0 {
		u.queue.Dismiss(active[0].ID)
	}
}

func (u *UI) renderNotifications() {
	active := u.queue.Active()
	if len(active) == 0 {
		u.notifications.SetText("")
		return
	}
	parts := make([]string, 0, len(active))
	for _, n := range active {
		parts = append(parts, fmt.Sprintf("[%s]%s[-]", notificationTags[n.Severity], tview.Escape(n.Message)))
	}
	u.notifications.SetText(strings.Join(parts, "  |  "))
}

// modal shows a small centered list of choices; onPick receives the choice.
func (u *UI) modal(title string, choices []string, onPick func(choice string)) {
	list := tview.NewList().ShowSecondaryText(false)
	for _, choice := range choices {
		choice := choice
		list.AddItem(choice, "", 0, func() {
			u.closeModal()
			onPick(choice)
		})
	}
	list.SetBorder(true).SetTitle(" " + title + " ")
	list.SetDoneFunc(func() { u.closeModal() })
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			u.closeModal()
			return nil
		}
		return event
	})

	height := len(choices) + 2
	grid := tview.NewGrid().
		SetColumns(0, 40, 0).
		SetRows(0, height, 0).
		AddItem(list, 1, 1, 1, 1, 0, 0, true)
	u.pages.AddPage("modal", grid, true, true)
	u.app.SetFocus(list)
}

func (u *UI) closeModal() {
	u.pages.RemovePage("modal")
	u.pages.SwitchToPage(u.active)
	u.app.SetFocus(u.currentView().table)
}

// textModal shows a scrollable block of text, e.g. an ML detection result.
func (u *UI) textModal(title, text string) {
	view := tview.NewTextView().SetDynamicColors(true).SetText(text)
	view.SetBorder(true).SetTitle(" " + title + " ")
	view.SetDoneFunc(func(tcell.Key) { u.closeModal() })

	grid := tview.NewGrid().
		SetColumns(0, 60, 0).
		SetRows(0, 14, 0).
		AddItem(view, 1, 1, 1, 1, 0, 0, true)
	u.pages.AddPage("modal", grid, true, true)
	u.app.SetFocus(view)
}

// formModal shows a form in a centered frame.
func (u *UI) formModal(title string, form *tview.Form) {
	form.SetBorder(true).SetTitle(" " + title + " ")
	form.SetCancelFunc(func() { u.closeModal() })

	grid := tview.NewGrid().
		SetColumns(0, 60, 0).
		SetRows(0, form.GetFormItemCount()*2+4, 0).
		AddItem(form, 1, 1, 1, 1, 0, 0, true)
	u.pages.AddPage("modal", grid, true, true)
	u.app.SetFocus(form)
}
