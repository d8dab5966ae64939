package cache

import (
	"context"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/model"
	"github.com/sentinelops/triage-console/internal/query"
)

// fetchLimit bounds how many records one fetch pulls; filtering beyond the
// server-side keys happens client-side in the pipeline.
const fetchLimit = 1000

// Set bundles the three resource caches the console works with.
type Set struct {
	Events    *Cache[model.Event]
	Alerts    *Cache[model.Alert]
	Incidents *Cache[model.Incident]
}

// NewSet builds the caches over the backend client. Criteria keys the
// server understands become query parameters; the rest stay client-side.
func NewSet(client *api.Client, opts Options) *Set {
	return &Set{
		Events: New(model.ResourceEvents, model.EventFields,
			func(ctx context.Context, c query.Criteria) ([]model.Event, error) {
				return client.ListEvents(ctx, api.EventListOptions{
					Source:    c.Get("source"),
					EventType: c.Get("event_type"),
					Limit:     fetchLimit,
				})
			}, opts),
		Alerts: New(model.ResourceAlerts, model.AlertFields,
			func(ctx context.Context, c query.Criteria) ([]model.Alert, error) {
				return client.ListAlerts(ctx, api.AlertListOptions{
					Status:   c.Get("status"),
					Priority: c.Get("priority"),
					Limit:    fetchLimit,
				})
			}, opts),
		Incidents: New(model.ResourceIncidents, model.IncidentFields,
			func(ctx context.Context, c query.Criteria) ([]model.Incident, error) {
				return client.ListIncidents(ctx, api.IncidentListOptions{
					Status:   c.Get("status"),
					Severity: c.Get("severity"),
					Limit:    fetchLimit,
				})
			}, opts),
	}
}

// StartRefresh starts the background refresh loops for all three caches.
func (s *Set) StartRefresh(ctx context.Context) {
	s.Events.StartRefresh(ctx)
	s.Alerts.StartRefresh(ctx)
	s.Incidents.StartRefresh(ctx)
}
