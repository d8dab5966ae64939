package ui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/sentinelops/triage-console/internal/coordinator"
	"github.com/sentinelops/triage-console/internal/export"
	"github.com/sentinelops/triage-console/internal/model"
)

func newAlertsView(u *UI, pageSize int) *listView {
	cols := []column[model.Alert]{
		{title: "ID", field: "id", width: 1, value: func(a model.Alert) string {
			return "#" + strconv.Itoa(a.ID)
		}},
		{title: "Title", field: "title", width: 4, value: func(a model.Alert) string { return a.Title }},
		{title: "Priority", field: "priority", width: 1, value: func(a model.Alert) string {
			return fmt.Sprintf("[%s]%s[-]", severityTag(a.Priority), a.Priority)
		}},
		{title: "Status", field: "status", width: 1, value: func(a model.Alert) string { return a.Status }},
		{title: "Source", field: "source", width: 1, value: func(a model.Alert) string { return a.Source }},
		{title: "Score", field: "ml_score", width: 1, value: func(a model.Alert) string {
			return model.FormatScore(a.MLScore)
		}},
		{title: "Created", field: "created_at", width: 2, value: func(a model.Alert) string {
			return a.CreatedAt.Format("2006-01-02 15:04")
		}},
	}

	filters := []filterSpec{
		{key: "status", label: "Status", options: model.AlertStatuses},
		{key: "priority", label: "Priority", options: model.Priorities},
	}

	return buildListView(u, "Alerts", model.ResourceAlerts, u.caches.Alerts, cols,
		export.AlertColumns, filters, pageSize, handleAlertKey)
}

func handleAlertKey(v *listView, alert model.Alert, event *tcell.EventKey) bool {
	u := v.ui
	switch event.Rune() {
	case 'u':
		u.modal(fmt.Sprintf("Set status for alert #%d", alert.ID), model.AlertStatuses, func(status string) {
			go func() {
				_, _ = u.coord.UpdateAlert(u.ctx, alert.ID, model.AlertUpdate{Status: status})
			}()
		})
		return true
	case 's':
		go func() { _ = u.coord.SendAlert(u.ctx, alert.ID) }()
		return true
	case 'i':
		incident := coordinator.IncidentFromAlert(alert)
		u.modal(fmt.Sprintf("Escalate alert #%d with severity", alert.ID), model.Severities, func(severity string) {
			incident.Severity = severity
			go func() {
				if _, err := u.coord.CreateIncident(u.ctx, incident); err == nil {
					u.app.QueueUpdateDraw(func() { u.switchTo("incidents") })
				}
			}()
		})
		return true
	}
	return false
}
