package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/export"
	"github.com/sentinelops/triage-console/internal/model"
	"github.com/sentinelops/triage-console/internal/query"
	"github.com/sentinelops/triage-console/internal/store"
)

var (
	exportStatus    string
	exportPriority  string
	exportSeverity  string
	exportSource    string
	exportEventType string
	exportSearch    string
	exportSort      string
	exportDesc      bool
	exportLimit     int
	exportOut       string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [alerts|incidents|events]",
	Short: "Export a filtered resource listing to CSV",
	Long: `Fetch a resource listing from the backend, apply the same filter,
search and sort pipeline the console uses, and write the result as CSV.

The output file defaults to <resource>-<date>.csv in the current directory.

Examples:
  # All alerts, newest first
  triage-console export alerts

  # Critical open alerts matching a search term
  triage-console export alerts --status new --priority critical --search brute

  # Incidents sorted by severity, highest first
  triage-console export incidents --sort severity --desc --out incidents.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{model.ResourceAlerts, model.ResourceIncidents, model.ResourceEvents},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by status")
	exportCmd.Flags().StringVar(&exportPriority, "priority", "", "Filter alerts by priority")
	exportCmd.Flags().StringVar(&exportSeverity, "severity", "", "Filter incidents by severity")
	exportCmd.Flags().StringVar(&exportSource, "source", "", "Filter events by source")
	exportCmd.Flags().StringVar(&exportEventType, "event-type", "", "Filter events by type")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Case-insensitive substring search")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "Sort field (default created_at)")
	exportCmd.Flags().BoolVar(&exportDesc, "desc", false, "Sort descending (implied for the default sort)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "Maximum records to fetch")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default <resource>-<date>.csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[export] ", log.LstdFlags)

	resource := args[0]
	client := api.NewClient(config.API.URL, api.Options{Logger: logger})

	spec := model.DefaultSort
	if exportSort != "" {
		spec = query.SortSpec{Field: exportSort, Descending: exportDesc}
	}

	var (
		doc   string
		count int
		err   error
	)
	switch resource {
	case model.ResourceAlerts:
		criteria := query.NewCriteria(resource).
			With("status", exportStatus).
			With("priority", exportPriority).
			With(query.SearchKey, exportSearch)
		doc, count, err = fetchAndEncode(ctx, criteria, spec, model.AlertFields, export.AlertColumns,
			func(ctx context.Context) ([]model.Alert, error) {
				return client.ListAlerts(ctx, api.AlertListOptions{
					Status: exportStatus, Priority: exportPriority, Limit: exportLimit,
				})
			})
	case model.ResourceIncidents:
		criteria := query.NewCriteria(resource).
			With("status", exportStatus).
			With("severity", exportSeverity).
			With(query.SearchKey, exportSearch)
		doc, count, err = fetchAndEncode(ctx, criteria, spec, model.IncidentFields, export.IncidentColumns,
			func(ctx context.Context) ([]model.Incident, error) {
				return client.ListIncidents(ctx, api.IncidentListOptions{
					Status: exportStatus, Severity: exportSeverity, Limit: exportLimit,
				})
			})
	case model.ResourceEvents:
		criteria := query.NewCriteria(resource).
			With("source", exportSource).
			With("event_type", exportEventType).
			With(query.SearchKey, exportSearch)
		doc, count, err = fetchAndEncode(ctx, criteria, spec, model.EventFields, export.EventColumns,
			func(ctx context.Context) ([]model.Event, error) {
				return client.ListEvents(ctx, api.EventListOptions{
					Source: exportSource, EventType: exportEventType, Limit: exportLimit,
				})
			})
	default:
		return fmt.Errorf("unknown resource %q (want alerts, incidents or events)", resource)
	}
	if err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			return fmt.Errorf("no records to export")
		}
		return err
	}

	filename := exportOut
	if filename == "" {
		filename = export.CSVFileName(resource, time.Now())
	}
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	recordExportAction(ctx, config, logger, resource, filename, count)

	fmt.Printf("Exported %d %s to %s\n", count, resource, filename)
	return nil
}

// fetchAndEncode runs one resource through fetch, pipeline and CSV encoding.
func fetchAndEncode[T any](ctx context.Context, criteria query.Criteria, spec query.SortSpec,
	fields query.FieldSet[T], columns []export.Column[T],
	fetch func(context.Context) ([]T, error)) (string, int, error) {

	items, err := fetch(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("fetch failed: %w", err)
	}
	matched := query.ApplyAll(items, fields, criteria, spec)
	doc, err := export.EncodeCSV(matched, columns)
	if err != nil {
		return "", 0, err
	}
	return doc, len(matched), nil
}

// recordExportAction writes the export to the audit trail. Best-effort: a
// missing or locked audit database does not fail the export itself.
func recordExportAction(ctx context.Context, config Config, logger *log.Logger, resource, filename string, count int) {
	resolved := resolvePathRelativeToBase(getWorkingDir(), config.Database.Path)
	st, err := store.NewStore(resolved)
	if err != nil {
		logger.Printf("audit store unavailable, export not recorded: %v", err)
		return
	}
	defer st.Close()
	detail := fmt.Sprintf("%s (%d records)", filename, count)
	if err := st.LogAction(ctx, "export", resource, "", "ok", detail); err != nil {
		logger.Printf("failed to record export: %v", err)
	}
}
