package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sentinelops/triage-console/internal/model"
)

// reportStyle is embedded in every report so the document is self-contained
// for printing and saving; no external stylesheet dependency.
const reportStyle = `@media print {
  @page { margin: 20mm; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; color: #000; background: #fff; }
  .no-print { display: none; }
}
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
  color: #000;
  background: #fff;
  padding: 20px;
  line-height: 1.6;
}
h1 { color: #1e293b; border-bottom: 3px solid #3b82f6; padding-bottom: 10px; margin-bottom: 20px; }
h2 { color: #334155; margin-top: 30px; margin-bottom: 15px; border-bottom: 2px solid #e2e8f0; padding-bottom: 8px; }
.badge { display: inline-block; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600; margin: 2px; }
.badge-critical { background: #fee2e2; color: #991b1b; }
.badge-high { background: #fed7aa; color: #9a3412; }
.badge-medium { background: #fef3c7; color: #92400e; }
.badge-low { background: #dbeafe; color: #1e40af; }
.info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #e2e8f0; }
.info-label { font-weight: 600; color: #64748b; }
.info-value { color: #1e293b; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th, td { padding: 10px; text-align: left; border-bottom: 1px solid #e2e8f0; }
th { background: #f1f5f9; font-weight: 600; color: #475569; }`

// RenderReport wraps already-rendered content in a minimal standalone
// document with the embedded stylesheet. Handing the document to a printer
// or writing it to disk is the caller's concern.
func RenderReport(title, content string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(reportStyle)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(content)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// IncidentReport builds the printable content block for one incident.
func IncidentReport(incident model.Incident) string {
	esc := html.EscapeString
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>Incident #%d: %s</h1>\n", incident.ID, esc(incident.Title))

	fmt.Fprintf(&b, `<span class="badge badge-%s">%s</span> `, esc(incident.Severity), esc(strings.ToUpper(incident.Severity)))
	fmt.Fprintf(&b, `<span class="badge">%s</span>`+"\n", esc(strings.ReplaceAll(incident.Status, "_", " ")))

	b.WriteString("<h2>Details</h2>\n")
	writeInfoRow(&b, "Assigned To", orPlaceholder(incident.AssignedTo, "Unassigned"))
	writeInfoRow(&b, "Originating Alert", orPlaceholder(model.FormatOptionalInt(incident.AlertID), "None"))
	writeInfoRow(&b, "Created", model.FormatTime(incident.CreatedAt))
	if incident.UpdatedAt != nil {
		writeInfoRow(&b, "Updated", model.FormatOptionalTime(incident.UpdatedAt))
	}

	if incident.Description != "" {
		b.WriteString("<h2>Description</h2>\n<p>")
		b.WriteString(esc(incident.Description))
		b.WriteString("</p>\n")
	}

	if len(incident.Tags) > 0 {
		b.WriteString("<h2>Tags</h2>\n<p>")
		for _, tag := range incident.Tags {
			fmt.Fprintf(&b, `<span class="badge">%s</span> `, esc(tag))
		}
		b.WriteString("</p>\n")
	}

	if len(incident.IOC) > 0 {
		b.WriteString("<h2>Indicators of Compromise</h2>\n")
		b.WriteString("<table>\n<tr><th>Type</th><th>Value</th></tr>\n")
		for _, ioc := range incident.IOC {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n", esc(ioc.Type), esc(ioc.Value))
		}
		b.WriteString("</table>\n")
	}

	return b.String()
}

func writeInfoRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<div class="info-row"><span class="info-label">%s</span><span class="info-value">%s</span></div>`+"\n",
		html.EscapeString(label), html.EscapeString(value))
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

// ReportFileName returns the advisory file name convention for a printable
// incident report. The actual artifact format depends on the print target.
func ReportFileName(incidentID int, now time.Time) string {
	return fmt.Sprintf("incident-%d-%s.pdf", incidentID, now.Format("2006-01-02"))
}

// ReportHTMLFileName names the standalone document written by the headless
// report command.
func ReportHTMLFileName(incidentID int, now time.Time) string {
	return fmt.Sprintf("incident-%d-%s.html", incidentID, now.Format("2006-01-02"))
}
