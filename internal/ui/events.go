package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sentinelops/triage-console/internal/export"
	"github.com/sentinelops/triage-console/internal/model"
)

func newEventsView(u *UI, pageSize int) *listView {
	cols := []column[model.Event]{
		{title: "ID", field: "id", width: 1, value: func(e model.Event) string {
			return "#" + strconv.Itoa(e.ID)
		}},
		{title: "Source", field: "source", width: 1, value: func(e model.Event) string { return e.Source }},
		{title: "Type", field: "event_type", width: 2, value: func(e model.Event) string { return e.EventType }},
		{title: "Src IP", field: "", width: 1, value: func(e model.Event) string { return e.SourceIP }},
		{title: "Host", field: "hostname", width: 1, value: func(e model.Event) string { return e.Hostname }},
		{title: "User", field: "", width: 1, value: func(e model.Event) string { return e.User }},
		{title: "Created", field: "created_at", width: 2, value: func(e model.Event) string {
			return e.CreatedAt.Format("2006-01-02 15:04")
		}},
	}

	filters := []filterSpec{
		{key: "source", label: "Source", options: model.EventSources},
		{key: "event_type", label: "Type", options: model.EventTypes},
	}

	return buildListView(u, "Events", model.ResourceEvents, u.caches.Events, cols,
		export.EventColumns, filters, pageSize, handleEventKey)
}

func handleEventKey(v *listView, ev model.Event, event *tcell.EventKey) bool {
	u := v.ui
	switch event.Rune() {
	case 'd':
		go func() {
			det, err := u.client.DetectEvent(u.ctx, ev.ID)
			if err != nil {
				u.queue.Error("Detection failed for event #" + strconv.Itoa(ev.ID))
				return
			}
			u.app.QueueUpdateDraw(func() {
				u.textModal(fmt.Sprintf("Detection for event #%d", ev.ID), formatDetection(det))
			})
		}()
		return true
	case 'C':
		go func() {
			det, err := u.client.ClassifyEvent(u.ctx, ev.ID)
			if err != nil {
				u.queue.Error("Classification failed for event #" + strconv.Itoa(ev.ID))
				return
			}
			u.app.QueueUpdateDraw(func() {
				u.textModal(fmt.Sprintf("Classification for event #%d", ev.ID), formatDetection(det))
			})
		}()
		return true
	case 'a':
		createEventForm(u)
		return true
	}
	return false
}

// formatDetection renders either detection variant for the modal.
func formatDetection(det *model.Detection) string {
	var b strings.Builder
	if det.Kind == model.DetectionFull {
		anomaly := "no"
		if det.IsAnomaly {
			anomaly = "[#ef4444]yes[-]"
		}
		fmt.Fprintf(&b, "Anomaly: %s (score %.2f)\n", anomaly, det.AnomalyScore)
		fmt.Fprintf(&b, "Risk level: [%s]%s[-]\n", severityTag(det.RiskLevel), det.RiskLevel)
		fmt.Fprintf(&b, "Recommended action: %s\n", det.RecommendedAction)
		fmt.Fprintf(&b, "Confidence: %.2f\n", det.MLConfidence)
	} else {
		fmt.Fprintf(&b, "Risk level: %s (classification only)\n", det.RiskLevel)
		fmt.Fprintf(&b, "Recommended action: %s\n", det.RecommendedAction)
	}
	if c := det.Classification; c != nil {
		fmt.Fprintf(&b, "\nCategory: %s\n", c.Category)
		if c.AttackType != "" {
			fmt.Fprintf(&b, "Attack type: %s\n", c.AttackType)
		}
		if len(c.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(c.Tags, ", "))
		}
		for _, ioc := range c.IOC {
			fmt.Fprintf(&b, "IOC: %s = %s\n", ioc.Type, ioc.Value)
		}
	}
	return b.String()
}

func createEventForm(u *UI) {
	form := tview.NewForm()
	form.AddInputField("Source", "", 30, nil, nil)
	form.AddInputField("Event type", "", 30, nil, nil)
	form.AddInputField("Source IP", "", 30, nil, nil)
	form.AddInputField("Hostname", "", 30, nil, nil)
	form.AddInputField("Description", "", 40, nil, nil)
	field := func(label string) string {
		return form.GetFormItemByLabel(label).(*tview.InputField).GetText()
	}
	form.AddButton("Create", func() {
		event := model.Event{
			Source:      field("Source"),
			EventType:   field("Event type"),
			SourceIP:    field("Source IP"),
			Hostname:    field("Hostname"),
			Description: field("Description"),
		}
		u.closeModal()
		go func() { _, _ = u.coord.CreateEvent(u.ctx, event) }()
	})
	form.AddButton("Cancel", func() { u.closeModal() })
	u.formModal("Record event", form)
}
