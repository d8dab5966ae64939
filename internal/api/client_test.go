package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sentinelops/triage-console/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1", Options{})
}

func TestListAlertsSendsFilterParams(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]model.Alert{{ID: 1, Title: "Beacon", Status: "new", Priority: "critical"}})
	}))

	alerts, err := client.ListAlerts(context.Background(), AlertListOptions{
		Status: "new", Priority: "critical", Limit: 1000,
	})
	if err != nil {
		t.Fatalf("ListAlerts error: %v", err)
	}
	if gotPath != "/api/v1/alerts/" {
		t.Fatalf("path = %q", gotPath)
	}
	values, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("bad query %q: %v", gotQuery, err)
	}
	if values.Get("status") != "new" || values.Get("priority") != "critical" || values.Get("limit") != "1000" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(alerts) != 1 || alerts[0].Title != "Beacon" {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}
}

func TestEmptyFiltersAreOmitted(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]model.Alert{})
	}))

	if _, err := client.ListAlerts(context.Background(), AlertListOptions{}); err != nil {
		t.Fatalf("ListAlerts error: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("expected no query params, got %q", gotQuery)
	}
}

func TestUpdateAlertPatchesAndDecodes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/v1/alerts/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var upd model.AlertUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			t.Errorf("bad body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(model.Alert{ID: 7, Status: upd.Status})
	}))

	alert, err := client.UpdateAlert(context.Background(), 7, model.AlertUpdate{Status: "resolved"})
	if err != nil {
		t.Fatalf("UpdateAlert error: %v", err)
	}
	if alert.ID != 7 || alert.Status != "resolved" {
		t.Fatalf("unexpected alert: %+v", alert)
	}
}

func TestErrorDetailExtraction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "Invalid status transition"}`))
	}))

	_, err := client.UpdateAlert(context.Background(), 7, model.AlertUpdate{Status: "bogus"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Detail(err); got != "Invalid status transition" {
		t.Fatalf("Detail = %q", got)
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected error type: %#v", err)
	}
}

func TestErrorFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nginx</html>"))
	}))

	_, err := client.GetAlert(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Detail(err); got != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("Detail = %q", got)
	}
}

func TestDetailIgnoresForeignErrors(t *testing.T) {
	if got := Detail(context.Canceled); got != "" {
		t.Fatalf("expected empty detail for non-backend error, got %q", got)
	}
}

func TestSendAlertPostsToSendPath(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "sent"}`))
	}))

	if err := client.SendAlert(context.Background(), 9); err != nil {
		t.Fatalf("SendAlert error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/alerts/9/send" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestDetectEventMarksFullVariant(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ml/detect/4" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"event_id": 4, "is_anomaly": true, "anomaly_score": 0.91,
			"risk_level": "high", "recommended_action": "isolate host", "ml_confidence": 0.8
		}`))
	}))

	det, err := client.DetectEvent(context.Background(), 4)
	if err != nil {
		t.Fatalf("DetectEvent error: %v", err)
	}
	if det.Kind != model.DetectionFull {
		t.Fatalf("expected full detection variant")
	}
	if !det.IsAnomaly || det.RiskLevel != "high" {
		t.Fatalf("unexpected detection: %+v", det)
	}
}

func TestClassifyEventFillsVariantDefaults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ml/classify/4" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"event_id": 4,
			"classification": {"category": "credential_access", "confidence": 0.7}
		}`))
	}))

	det, err := client.ClassifyEvent(context.Background(), 4)
	if err != nil {
		t.Fatalf("ClassifyEvent error: %v", err)
	}
	if det.Kind != model.DetectionClassificationOnly {
		t.Fatalf("expected classification-only variant")
	}
	if det.RiskLevel != "unknown" || det.RecommendedAction != "review" {
		t.Fatalf("variant defaults missing: %+v", det)
	}
	if det.Classification == nil || det.Classification.Category != "credential_access" {
		t.Fatalf("classification not carried: %+v", det.Classification)
	}
	if det.MLConfidence != 0.7 {
		t.Fatalf("confidence not propagated: %v", det.MLConfidence)
	}
}

func TestHealthUsesServerRoot(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))

	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health error: %v", err)
	}
	if gotPath != "/health" {
		t.Fatalf("health path = %q, want /health", gotPath)
	}
}
