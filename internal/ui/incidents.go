package ui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sentinelops/triage-console/internal/export"
	"github.com/sentinelops/triage-console/internal/model"
)

func newIncidentsView(u *UI, pageSize int) *listView {
	cols := []column[model.Incident]{
		{title: "ID", field: "id", width: 1, value: func(i model.Incident) string {
			return "#" + strconv.Itoa(i.ID)
		}},
		{title: "Title", field: "title", width: 4, value: func(i model.Incident) string { return i.Title }},
		{title: "Severity", field: "severity", width: 1, value: func(i model.Incident) string {
			return fmt.Sprintf("[%s]%s[-]", severityTag(i.Severity), i.Severity)
		}},
		{title: "Status", field: "status", width: 1, value: func(i model.Incident) string { return i.Status }},
		{title: "Assignee", field: "assigned_to", width: 1, value: func(i model.Incident) string {
			if i.AssignedTo == "" {
				return "[#8a939f]unassigned[-]"
			}
			return i.AssignedTo
		}},
		{title: "Created", field: "created_at", width: 2, value: func(i model.Incident) string {
			return i.CreatedAt.Format("2006-01-02 15:04")
		}},
	}

	filters := []filterSpec{
		{key: "status", label: "Status", options: model.IncidentStatuses},
		{key: "severity", label: "Severity", options: model.Severities},
	}

	return buildListView(u, "Incidents", model.ResourceIncidents, u.caches.Incidents, cols,
		export.IncidentColumns, filters, pageSize, handleIncidentKey)
}

func handleIncidentKey(v *listView, incident model.Incident, event *tcell.EventKey) bool {
	u := v.ui
	switch event.Rune() {
	case 'u':
		u.modal(fmt.Sprintf("Set status for incident #%d", incident.ID), model.IncidentStatuses, func(status string) {
			go func() {
				_, _ = u.coord.UpdateIncident(u.ctx, incident.ID, model.IncidentUpdate{Status: status})
			}()
		})
		return true
	case 'v':
		u.modal(fmt.Sprintf("Set severity for incident #%d", incident.ID), model.Severities, func(severity string) {
			go func() {
				_, _ = u.coord.UpdateIncident(u.ctx, incident.ID, model.IncidentUpdate{Severity: severity})
			}()
		})
		return true
	case 'a':
		assignForm(u, incident)
		return true
	case 'r':
		writeIncidentReport(u, incident)
		return true
	}
	return false
}

func assignForm(u *UI, incident model.Incident) {
	form := tview.NewForm()
	form.AddInputField("Assign to", incident.AssignedTo, 30, nil, nil)
	form.AddButton("Save", func() {
		assignee := form.GetFormItemByLabel("Assign to").(*tview.InputField).GetText()
		u.closeModal()
		go func() {
			_, _ = u.coord.UpdateIncident(u.ctx, incident.ID, model.IncidentUpdate{AssignedTo: assignee})
		}()
	})
	form.AddButton("Cancel", func() { u.closeModal() })
	u.formModal(fmt.Sprintf("Assign incident #%d", incident.ID), form)
}

// writeIncidentReport renders the printable document and saves it next to
// the binary; opening a print dialog is left to the host environment.
func writeIncidentReport(u *UI, incident model.Incident) {
	title := fmt.Sprintf("Incident #%d: %s", incident.ID, incident.Title)
	doc := export.RenderReport(title, export.IncidentReport(incident))
	filename := export.ReportHTMLFileName(incident.ID, time.Now())
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		u.queue.Error("Failed to write " + filename)
		return
	}
	u.coord.ExportRecorded(u.ctx, model.ResourceIncidents, filename, 1)
}
