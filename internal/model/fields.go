package model

import (
	"strconv"
	"time"

	"github.com/sentinelops/triage-console/internal/query"
)

// Resource collection names, used as criteria resources and cache keys.
const (
	ResourceEvents    = "events"
	ResourceAlerts    = "alerts"
	ResourceIncidents = "incidents"
)

// DefaultSort is the initial order of every list view: newest first.
var DefaultSort = query.SortSpec{Field: "created_at", Descending: true}

func optionalInstant(t *time.Time) query.Value {
	if t == nil {
		return query.Instant(time.Time{})
	}
	return query.Instant(*t)
}

func optionalNumber(n *float64) query.Value {
	if n == nil {
		return query.Number(0)
	}
	return query.Number(*n)
}

// AlertFields exposes alert fields to the filter/sort/search pipeline.
// Search scans title, description, source, and the identifier as text.
var AlertFields = query.FieldSet[Alert]{
	Sort: map[string]func(Alert) query.Value{
		"id":         func(a Alert) query.Value { return query.Number(float64(a.ID)) },
		"title":      func(a Alert) query.Value { return query.String(a.Title) },
		"status":     func(a Alert) query.Value { return query.String(a.Status) },
		"priority":   func(a Alert) query.Value { return query.Rank(PriorityRank(a.Priority)) },
		"source":     func(a Alert) query.Value { return query.String(a.Source) },
		"ml_score":   func(a Alert) query.Value { return optionalNumber(a.MLScore) },
		"created_at": func(a Alert) query.Value { return query.Instant(a.CreatedAt) },
	},
	Filter: map[string]func(Alert) string{
		"status":   func(a Alert) string { return a.Status },
		"priority": func(a Alert) string { return a.Priority },
	},
	Search: []func(Alert) string{
		func(a Alert) string { return a.Title },
		func(a Alert) string { return a.Description },
		func(a Alert) string { return a.Source },
		func(a Alert) string { return strconv.Itoa(a.ID) },
	},
}

// IncidentFields exposes incident fields to the pipeline.
var IncidentFields = query.FieldSet[Incident]{
	Sort: map[string]func(Incident) query.Value{
		"id":          func(i Incident) query.Value { return query.Number(float64(i.ID)) },
		"title":       func(i Incident) query.Value { return query.String(i.Title) },
		"status":      func(i Incident) query.Value { return query.String(i.Status) },
		"severity":    func(i Incident) query.Value { return query.Rank(SeverityRank(i.Severity)) },
		"assigned_to": func(i Incident) query.Value { return query.String(i.AssignedTo) },
		"created_at":  func(i Incident) query.Value { return query.Instant(i.CreatedAt) },
		"updated_at":  func(i Incident) query.Value { return optionalInstant(i.UpdatedAt) },
	},
	Filter: map[string]func(Incident) string{
		"status":   func(i Incident) string { return i.Status },
		"severity": func(i Incident) string { return i.Severity },
	},
	Search: []func(Incident) string{
		func(i Incident) string { return i.Title },
		func(i Incident) string { return i.Description },
		func(i Incident) string { return i.AssignedTo },
		func(i Incident) string { return strconv.Itoa(i.ID) },
	},
}

// EventFields exposes event fields to the pipeline.
var EventFields = query.FieldSet[Event]{
	Sort: map[string]func(Event) query.Value{
		"id":         func(e Event) query.Value { return query.Number(float64(e.ID)) },
		"source":     func(e Event) query.Value { return query.String(e.Source) },
		"event_type": func(e Event) query.Value { return query.String(e.EventType) },
		"hostname":   func(e Event) query.Value { return query.String(e.Hostname) },
		"timestamp":  func(e Event) query.Value { return optionalInstant(e.Timestamp) },
		"created_at": func(e Event) query.Value { return query.Instant(e.CreatedAt) },
	},
	Filter: map[string]func(Event) string{
		"source":     func(e Event) string { return e.Source },
		"event_type": func(e Event) string { return e.EventType },
	},
	Search: []func(Event) string{
		func(e Event) string { return e.SourceIP },
		func(e Event) string { return e.DestinationIP },
		func(e Event) string { return e.User },
		func(e Event) string { return e.Hostname },
		func(e Event) string { return e.Description },
		func(e Event) string { return strconv.Itoa(e.ID) },
	},
}
