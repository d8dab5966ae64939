// Package coordinator issues state-changing commands against backend
// records and reconciles their outcome with the resource caches and the
// notification queue. Cached collections are never mutated in place: a
// successful command invalidates every entry of the affected resource type
// so the next read reflects confirmed server state.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/cache"
	"github.com/sentinelops/triage-console/internal/model"
	"github.com/sentinelops/triage-console/internal/notify"
)

// Auditor records analyst actions locally. Implementations must tolerate
// being called on every command.
type Auditor interface {
	LogAction(ctx context.Context, action, resource, recordID, outcome, detail string) error
}

// Backend is the slice of the API client the coordinator drives.
type Backend interface {
	CreateEvent(ctx context.Context, event model.Event) (*model.Event, error)
	UpdateAlert(ctx context.Context, id int, upd model.AlertUpdate) (*model.Alert, error)
	SendAlert(ctx context.Context, id int) error
	CreateIncident(ctx context.Context, incident model.Incident) (*model.Incident, error)
	UpdateIncident(ctx context.Context, id int, upd model.IncidentUpdate) (*model.Incident, error)
}

// Coordinator applies mutations and reconciles caches and notifications.
type Coordinator struct {
	backend Backend
	caches  *cache.Set
	queue   *notify.Queue
	audit   Auditor
	logger  *log.Logger
}

// New creates a coordinator. audit may be nil.
func New(backend Backend, caches *cache.Set, queue *notify.Queue, audit Auditor, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Coordinator{
		backend: backend,
		caches:  caches,
		queue:   queue,
		audit:   audit,
		logger:  logger,
	}
}

// CreateEvent records a new event.
func (c *Coordinator) CreateEvent(ctx context.Context, event model.Event) (*model.Event, error) {
	created, err := c.backend.CreateEvent(ctx, event)
	if err != nil {
		c.fail(ctx, "create_event", model.ResourceEvents, "", "Failed to create event", err)
		return nil, err
	}
	c.caches.Events.Invalidate()
	c.succeed(ctx, "create_event", model.ResourceEvents, strconv.Itoa(created.ID), "Event created successfully")
	return created, nil
}

// UpdateAlert patches an alert's status or notes.
func (c *Coordinator) UpdateAlert(ctx context.Context, id int, upd model.AlertUpdate) (*model.Alert, error) {
	updated, err := c.backend.UpdateAlert(ctx, id, upd)
	if err != nil {
		c.fail(ctx, "update_alert", model.ResourceAlerts, strconv.Itoa(id), "Failed to update alert", err)
		return nil, err
	}
	c.caches.Alerts.Invalidate()
	c.succeed(ctx, "update_alert", model.ResourceAlerts, strconv.Itoa(id), "Alert updated successfully")
	return updated, nil
}

// SendAlert forwards an alert to the downstream integrations. No cache is
// touched: sending changes nothing the console displays.
func (c *Coordinator) SendAlert(ctx context.Context, id int) error {
	if err := c.backend.SendAlert(ctx, id); err != nil {
		c.fail(ctx, "send_alert", model.ResourceAlerts, strconv.Itoa(id), "Failed to send alert", err)
		return err
	}
	c.succeed(ctx, "send_alert", model.ResourceAlerts, strconv.Itoa(id), "Alert sent to integrations")
	return nil
}

// CreateIncident opens a new incident.
func (c *Coordinator) CreateIncident(ctx context.Context, incident model.Incident) (*model.Incident, error) {
	created, err := c.backend.CreateIncident(ctx, incident)
	if err != nil {
		c.fail(ctx, "create_incident", model.ResourceIncidents, "", "Failed to create incident", err)
		return nil, err
	}
	c.caches.Incidents.Invalidate()
	c.succeed(ctx, "create_incident", model.ResourceIncidents, strconv.Itoa(created.ID), "Incident created successfully")
	return created, nil
}

// IncidentFromAlert pre-fills a new incident from an alert, the usual
// escalation path during triage.
func IncidentFromAlert(alert model.Alert) model.Incident {
	severity := model.SeverityMedium
	switch alert.Priority {
	case model.PriorityCritical:
		severity = model.SeverityCritical
	case model.PriorityHigh:
		severity = model.SeverityHigh
	case model.PriorityLow, model.PriorityInfo:
		severity = model.SeverityLow
	}
	alertID := alert.ID
	return model.Incident{
		Title:       alert.Title,
		Description: alert.Description,
		Status:      model.IncidentStatusOpen,
		Severity:    severity,
		AlertID:     &alertID,
	}
}

// UpdateIncident patches incident fields.
func (c *Coordinator) UpdateIncident(ctx context.Context, id int, upd model.IncidentUpdate) (*model.Incident, error) {
	updated, err := c.backend.UpdateIncident(ctx, id, upd)
	if err != nil {
		c.fail(ctx, "update_incident", model.ResourceIncidents, strconv.Itoa(id), "Failed to update incident", err)
		return nil, err
	}
	c.caches.Incidents.Invalidate()
	c.succeed(ctx, "update_incident", model.ResourceIncidents, strconv.Itoa(id), "Incident updated successfully")
	return updated, nil
}

func (c *Coordinator) succeed(ctx context.Context, action, resource, recordID, message string) {
	c.queue.Success(message)
	c.logAction(ctx, action, resource, recordID, "ok", "")
}

// fail surfaces the backend detail when present, else the fixed fallback.
// Commands are never retried; the caller must re-issue.
func (c *Coordinator) fail(ctx context.Context, action, resource, recordID, fallback string, err error) {
	message := fallback
	if detail := api.Detail(err); detail != "" {
		message = detail
	}
	c.queue.Error(message)
	c.logger.Printf("%s %s/%s: %v", action, resource, recordID, err)
	c.logAction(ctx, action, resource, recordID, "error", message)
}

func (c *Coordinator) logAction(ctx context.Context, action, resource, recordID, outcome, detail string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.LogAction(ctx, action, resource, recordID, outcome, detail); err != nil {
		c.logger.Printf("audit %s failed: %v", action, err)
	}
}

// ExportRecorded notes a completed export in the audit trail and reports it
// to the analyst.
func (c *Coordinator) ExportRecorded(ctx context.Context, resource, filename string, count int) {
	c.queue.Success(fmt.Sprintf("Exported %d %s to %s", count, resource, filename))
	c.logAction(ctx, "export", resource, "", "ok", filename)
}
