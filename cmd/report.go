package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/export"
)

var reportOut string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <incident-id>",
	Short: "Render a printable incident report",
	Long: `Fetch one incident and render it as a standalone, print-ready HTML
document with the incident's badges, assignment, tags and indicators.

Examples:
  triage-console report 42
  triage-console report 42 --out incident-42.html`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output file (default incident-<id>-<date>.html)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid incident id %q", args[0])
	}

	client := api.NewClient(config.API.URL, api.Options{Logger: logger})
	incident, err := client.GetIncident(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch incident %d: %w", id, err)
	}

	title := fmt.Sprintf("Incident #%d: %s", incident.ID, incident.Title)
	doc := export.RenderReport(title, export.IncidentReport(*incident))

	filename := reportOut
	if filename == "" {
		filename = export.ReportHTMLFileName(incident.ID, time.Now())
	}
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	fmt.Printf("Wrote report for incident #%d to %s\n", incident.ID, filename)
	return nil
}
