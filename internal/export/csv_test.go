package export

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sentinelops/triage-console/internal/model"
)

func TestEncodeCSVQuotesEveryField(t *testing.T) {
	score := 0.87
	alerts := []model.Alert{
		{
			ID:        1,
			Title:     `Alert, "odd" case`,
			Priority:  "critical",
			Status:    "new",
			Source:    "ids",
			MLScore:   &score,
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	doc, err := EncodeCSV(alerts, AlertColumns)
	if err != nil {
		t.Fatalf("EncodeCSV error: %v", err)
	}

	lines := strings.Split(doc, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != `"ID","Title","Priority","Status","Source","ML Score","Created At"` {
		t.Fatalf("header = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"Alert, ""odd"" case"`) {
		t.Fatalf("quotes not doubled: %s", lines[1])
	}

	// The fully-quoted form must still parse as standard CSV.
	records, err := csv.NewReader(strings.NewReader(doc)).ReadAll()
	if err != nil {
		t.Fatalf("round-trip parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	row := records[1]
	if row[1] != `Alert, "odd" case` {
		t.Fatalf("title corrupted: %q", row[1])
	}
	if row[5] != "0.87" {
		t.Fatalf("ml score = %q", row[5])
	}
	if row[6] != "2026-03-01T12:00:00Z" {
		t.Fatalf("created at = %q", row[6])
	}
}

func TestEncodeCSVMissingScoreRendersNA(t *testing.T) {
	alerts := []model.Alert{{ID: 2, Title: "No model yet", Status: "new", Priority: "low"}}
	doc, err := EncodeCSV(alerts, AlertColumns)
	if err != nil {
		t.Fatalf("EncodeCSV error: %v", err)
	}
	if !strings.Contains(doc, `"N/A"`) {
		t.Fatalf("missing score should render N/A: %s", doc)
	}
}

func TestEncodeCSVEmptyReturnsErrNoRecords(t *testing.T) {
	_, err := EncodeCSV([]model.Alert{}, AlertColumns)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestIncidentColumnsJoinTags(t *testing.T) {
	incidents := []model.Incident{{
		ID:     3,
		Title:  "Exfil",
		Tags:   []string{"apt", "exfiltration"},
		Status: "open",
	}}
	doc, err := EncodeCSV(incidents, IncidentColumns)
	if err != nil {
		t.Fatalf("EncodeCSV error: %v", err)
	}
	if !strings.Contains(doc, `"apt; exfiltration"`) {
		t.Fatalf("tags not joined: %s", doc)
	}
}

func TestCSVFileName(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	if got := CSVFileName("alerts", now); got != "alerts-2026-03-01.csv" {
		t.Fatalf("CSVFileName = %q", got)
	}
}
