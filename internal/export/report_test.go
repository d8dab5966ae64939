package export

import (
	"strings"
	"testing"
	"time"

	"github.com/sentinelops/triage-console/internal/model"
)

func TestRenderReportIsStandalone(t *testing.T) {
	doc := RenderReport("Incident #1: Test <case>", "<p>body</p>")

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Fatalf("missing doctype")
	}
	if !strings.Contains(doc, "<title>Incident #1: Test &lt;case&gt;</title>") {
		t.Fatalf("title not escaped: %s", doc)
	}
	if !strings.Contains(doc, "@media print") {
		t.Fatalf("print stylesheet not embedded")
	}
	if !strings.Contains(doc, "<p>body</p>") {
		t.Fatalf("content block missing")
	}
}

func TestIncidentReportContent(t *testing.T) {
	alertID := 12
	updated := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	incident := model.Incident{
		ID:          5,
		Title:       "Workstation <compromise>",
		Description: "Beaconing to known C2",
		Status:      "in_progress",
		Severity:    "high",
		AssignedTo:  "jordan",
		AlertID:     &alertID,
		Tags:        []string{"apt", "c2"},
		IOC:         []model.IOC{{Type: "ip", Value: "203.0.113.7"}},
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   &updated,
	}

	content := IncidentReport(incident)

	if !strings.Contains(content, "<h1>Incident #5: Workstation &lt;compromise&gt;</h1>") {
		t.Fatalf("heading wrong or unescaped")
	}
	if !strings.Contains(content, `badge-high`) || !strings.Contains(content, "HIGH") {
		t.Fatalf("severity badge missing")
	}
	if !strings.Contains(content, "in progress") {
		t.Fatalf("status underscores not humanized")
	}
	if !strings.Contains(content, "jordan") || !strings.Contains(content, "12") {
		t.Fatalf("assignment or alert link missing")
	}
	if !strings.Contains(content, "203.0.113.7") {
		t.Fatalf("IOC table missing")
	}
	for _, tag := range []string{"apt", "c2"} {
		if !strings.Contains(content, ">"+tag+"<") {
			t.Fatalf("tag %q missing", tag)
		}
	}
}

func TestIncidentReportPlaceholders(t *testing.T) {
	incident := model.Incident{ID: 6, Title: "Minimal", Status: "open", Severity: "low"}
	content := IncidentReport(incident)

	if !strings.Contains(content, "Unassigned") {
		t.Fatalf("unassigned placeholder missing")
	}
	if !strings.Contains(content, "None") {
		t.Fatalf("no-alert placeholder missing")
	}
	if strings.Contains(content, "<h2>Description</h2>") {
		t.Fatalf("empty description should be omitted")
	}
	if strings.Contains(content, "Indicators of Compromise") {
		t.Fatalf("empty IOC table should be omitted")
	}
}

func TestReportFileNames(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if got := ReportHTMLFileName(5, now); got != "incident-5-2026-03-01.html" {
		t.Fatalf("ReportHTMLFileName = %q", got)
	}
	if got := ReportFileName(5, now); got != "incident-5-2026-03-01.pdf" {
		t.Fatalf("ReportFileName = %q", got)
	}
}
