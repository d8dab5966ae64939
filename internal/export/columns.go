package export

import (
	"strconv"
	"strings"

	"github.com/sentinelops/triage-console/internal/model"
)

// AlertColumns is the fixed CSV column set for alerts.
var AlertColumns = []Column[model.Alert]{
	{Header: "ID", Value: func(a model.Alert) string { return strconv.Itoa(a.ID) }},
	{Header: "Title", Value: func(a model.Alert) string { return a.Title }},
	{Header: "Priority", Value: func(a model.Alert) string { return a.Priority }},
	{Header: "Status", Value: func(a model.Alert) string { return a.Status }},
	{Header: "Source", Value: func(a model.Alert) string { return a.Source }},
	{Header: "ML Score", Value: func(a model.Alert) string { return model.FormatScore(a.MLScore) }},
	{Header: "Created At", Value: func(a model.Alert) string { return model.FormatTime(a.CreatedAt) }},
}

// IncidentColumns is the fixed CSV column set for incidents.
var IncidentColumns = []Column[model.Incident]{
	{Header: "ID", Value: func(i model.Incident) string { return strconv.Itoa(i.ID) }},
	{Header: "Title", Value: func(i model.Incident) string { return i.Title }},
	{Header: "Severity", Value: func(i model.Incident) string { return i.Severity }},
	{Header: "Status", Value: func(i model.Incident) string { return i.Status }},
	{Header: "Assigned To", Value: func(i model.Incident) string { return i.AssignedTo }},
	{Header: "Tags", Value: func(i model.Incident) string { return strings.Join(i.Tags, "; ") }},
	{Header: "Created At", Value: func(i model.Incident) string { return model.FormatTime(i.CreatedAt) }},
}

// EventColumns is the fixed CSV column set for events.
var EventColumns = []Column[model.Event]{
	{Header: "ID", Value: func(e model.Event) string { return strconv.Itoa(e.ID) }},
	{Header: "Source", Value: func(e model.Event) string { return e.Source }},
	{Header: "Event Type", Value: func(e model.Event) string { return e.EventType }},
	{Header: "Source IP", Value: func(e model.Event) string { return e.SourceIP }},
	{Header: "Destination IP", Value: func(e model.Event) string { return e.DestinationIP }},
	{Header: "User", Value: func(e model.Event) string { return e.User }},
	{Header: "Hostname", Value: func(e model.Event) string { return e.Hostname }},
	{Header: "Created At", Value: func(e model.Event) string { return model.FormatTime(e.CreatedAt) }},
}
