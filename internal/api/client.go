// Package api implements the REST client for the detection backend. The
// console only consumes the documented request/response shapes; record
// ownership stays with the server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sentinelops/triage-console/internal/model"
)

// Error is a non-2xx backend response. Detail carries the JSON `detail`
// string when the body had one, else the HTTP status text.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// Detail extracts the backend detail message from an error, or empty when
// the error did not come from the backend.
func Detail(err error) string {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Detail
	}
	return ""
}

// Client talks to the backend's /api/v1 surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Options tune the client. Zero values get conservative defaults.
type Options struct {
	Timeout time.Duration
	Logger  *log.Logger
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8000/api/v1".
func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	tr := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout, Transport: tr},
		logger:     opts.Logger,
	}
}

// do issues a request and decodes a 2xx JSON body into out (skipped when out
// is nil). Non-2xx responses become *Error with the backend detail.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "triage-console/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseError builds an *Error from a non-2xx response. Absence of a
// parseable body falls back to the HTTP status text.
func parseError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

func listQuery(params map[string]string, skip, limit int) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// EventListOptions narrows GET /events/.
type EventListOptions struct {
	Source    string
	EventType string
	Skip      int
	Limit     int
}

// ListEvents fetches events matching the server-side filters.
func (c *Client) ListEvents(ctx context.Context, opts EventListOptions) ([]model.Event, error) {
	path := "/events/" + listQuery(map[string]string{
		"source":     opts.Source,
		"event_type": opts.EventType,
	}, opts.Skip, opts.Limit)
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches a single event by ID.
func (c *Client) GetEvent(ctx context.Context, id int) (*model.Event, error) {
	var event model.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent records a new event and returns the server representation.
func (c *Client) CreateEvent(ctx context.Context, event model.Event) (*model.Event, error) {
	var created model.Event
	if err := c.do(ctx, http.MethodPost, "/events/", event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AlertListOptions narrows GET /alerts/.
type AlertListOptions struct {
	Status   string
	Priority string
	Skip     int
	Limit    int
}

// ListAlerts fetches alerts matching the server-side filters.
func (c *Client) ListAlerts(ctx context.Context, opts AlertListOptions) ([]model.Alert, error) {
	path := "/alerts/" + listQuery(map[string]string{
		"status":   opts.Status,
		"priority": opts.Priority,
	}, opts.Skip, opts.Limit)
	var alerts []model.Alert
	if err := c.do(ctx, http.MethodGet, path, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CriticalAlerts fetches the server-side critical-priority view.
func (c *Client) CriticalAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var alerts []model.Alert
	path := fmt.Sprintf("/alerts/critical?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetAlert fetches a single alert by ID.
func (c *Client) GetAlert(ctx context.Context, id int) (*model.Alert, error) {
	var alert model.Alert
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/alerts/%d", id), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// UpdateAlert patches an alert's status or notes and returns the updated
// representation.
func (c *Client) UpdateAlert(ctx context.Context, id int, upd model.AlertUpdate) (*model.Alert, error) {
	var alert model.Alert
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/alerts/%d", id), upd, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// SendAlert forwards an alert to the configured downstream integrations.
// The call is idempotent from the client's perspective; no local state
// changes beyond the caller's notification.
func (c *Client) SendAlert(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/alerts/%d/send", id), nil, nil)
}

// IncidentListOptions narrows GET /incidents/.
type IncidentListOptions struct {
	Status   string
	Severity string
	Skip     int
	Limit    int
}

// ListIncidents fetches incidents matching the server-side filters.
func (c *Client) ListIncidents(ctx context.Context, opts IncidentListOptions) ([]model.Incident, error) {
	path := "/incidents/" + listQuery(map[string]string{
		"status":   opts.Status,
		"severity": opts.Severity,
	}, opts.Skip, opts.Limit)
	var incidents []model.Incident
	if err := c.do(ctx, http.MethodGet, path, nil, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetIncident fetches a single incident by ID.
func (c *Client) GetIncident(ctx context.Context, id int) (*model.Incident, error) {
	var incident model.Incident
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/incidents/%d", id), nil, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident opens a new incident and returns the server representation.
func (c *Client) CreateIncident(ctx context.Context, incident model.Incident) (*model.Incident, error) {
	var created model.Incident
	if err := c.do(ctx, http.MethodPost, "/incidents/", incident, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIncident patches incident fields and returns the updated
// representation.
func (c *Client) UpdateIncident(ctx context.Context, id int, upd model.IncidentUpdate) (*model.Incident, error) {
	var incident model.Incident
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/incidents/%d", id), upd, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// DetectEvent runs backend anomaly detection for an event.
func (c *Client) DetectEvent(ctx context.Context, eventID int) (*model.Detection, error) {
	var det model.Detection
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ml/detect/%d", eventID), nil, &det); err != nil {
		return nil, err
	}
	det.Kind = model.DetectionFull
	return &det, nil
}

// ClassifyEvent runs backend classification only. The payload lacks anomaly
// scoring, so the result is the classification-only detection variant.
func (c *Client) ClassifyEvent(ctx context.Context, eventID int) (*model.Detection, error) {
	var resp struct {
		EventID        int                  `json:"event_id"`
		Classification model.Classification `json:"classification"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ml/classify/%d", eventID), nil, &resp); err != nil {
		return nil, err
	}
	det := model.DetectionFromClassification(resp.EventID, resp.Classification)
	return &det, nil
}

// MLStats reports backend model state.
func (c *Client) MLStats(ctx context.Context) (*model.MLStats, error) {
	var stats model.MLStats
	if err := c.do(ctx, http.MethodGet, "/ml/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health probes backend liveness. The endpoint lives at the server root,
// outside the /api/v1 prefix.
func (c *Client) Health(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api/v1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	}
	return nil
}
