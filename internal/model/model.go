package model

import (
	"strconv"
	"time"
)

// Alert statuses as served by the backend.
const (
	AlertStatusNew           = "new"
	AlertStatusInProgress    = "in_progress"
	AlertStatusResolved      = "resolved"
	AlertStatusFalsePositive = "false_positive"
	AlertStatusIgnored       = "ignored"
)

// Alert priorities, ranked critical > high > medium > low > info.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
	PriorityInfo     = "info"
)

// Incident statuses as served by the backend.
const (
	IncidentStatusOpen          = "open"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusContained     = "contained"
	IncidentStatusResolved      = "resolved"
	IncidentStatusClosed        = "closed"
)

// Incident severities, ranked critical > high > medium > low.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// AlertStatuses lists the selectable alert statuses in display order.
var AlertStatuses = []string{
	AlertStatusNew, AlertStatusInProgress, AlertStatusResolved,
	AlertStatusFalsePositive, AlertStatusIgnored,
}

// Priorities lists the selectable alert priorities in rank order.
var Priorities = []string{
	PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityInfo,
}

// IncidentStatuses lists the selectable incident statuses in display order.
var IncidentStatuses = []string{
	IncidentStatusOpen, IncidentStatusInvestigating, IncidentStatusContained,
	IncidentStatusResolved, IncidentStatusClosed,
}

// Severities lists the selectable incident severities in rank order.
var Severities = []string{
	SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow,
}

// EventSources lists the backend's enumerated event sources.
var EventSources = []string{
	"splunk", "elastic", "endpoint", "network", "firewall", "ids_ips", "custom",
}

// EventTypes lists the backend's enumerated event types.
var EventTypes = []string{
	"login_failure", "login_success", "malware_detected", "suspicious_activity",
	"unauthorized_access", "data_exfiltration", "brute_force", "ddos",
	"phishing", "other",
}

var priorityRanks = map[string]int{
	PriorityCritical: 5,
	PriorityHigh:     4,
	PriorityMedium:   3,
	PriorityLow:      2,
	PriorityInfo:     1,
}

var severityRanks = map[string]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// PriorityRank returns the fixed sort rank for an alert priority.
// Unknown or missing priorities rank 0, below info.
func PriorityRank(priority string) int {
	return priorityRanks[priority]
}

// SeverityRank returns the fixed sort rank for an incident severity.
func SeverityRank(severity string) int {
	return severityRanks[severity]
}

// Event represents a raw security event. Events are immutable once created;
// the console never updates them.
type Event struct {
	ID            int        `json:"id"`
	Source        string     `json:"source"`
	EventType     string     `json:"event_type"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	SourceIP      string     `json:"source_ip,omitempty"`
	DestinationIP string     `json:"destination_ip,omitempty"`
	User          string     `json:"user,omitempty"`
	Hostname      string     `json:"hostname,omitempty"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Alert represents a prioritized triage item derived from one or more events.
type Alert struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	MLScore     *float64  `json:"ml_score,omitempty"`
	Source      string    `json:"source"`
	EventID     *int      `json:"event_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IOC is a typed indicator of compromise attached to an incident.
type IOC struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Incident represents a tracked response case, optionally linked to an
// originating alert.
type Incident struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Severity    string     `json:"severity"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	AlertID     *int       `json:"alert_id,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	IOC         []IOC      `json:"ioc,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// AlertUpdate is the partial PATCH body for an alert.
type AlertUpdate struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// IncidentUpdate is the partial PATCH body for an incident.
type IncidentUpdate struct {
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Status          string   `json:"status,omitempty"`
	Severity        string   `json:"severity,omitempty"`
	AssignedTo      string   `json:"assigned_to,omitempty"`
	ResolutionNotes string   `json:"resolution_notes,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	IOC             []IOC    `json:"ioc,omitempty"`
}

// FormatScore renders an optional ML score for display and export.
// A missing score renders as "N/A", the resource's display convention.
func FormatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*score, 'f', 2, 64)
}

// FormatTime renders a timestamp as RFC 3339, or empty when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// FormatOptionalTime renders an optional timestamp, empty when absent.
func FormatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

// FormatOptionalInt renders an optional numeric reference, empty when absent.
func FormatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
