package cmd

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelops/triage-console/internal/store"
)

// Headless exports and console mutations share one audit trail; both must
// use the same outcome vocabulary so queries by outcome see everything.
func TestRecordExportActionMatchesCoordinatorOutcome(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	config := Config{Database: DatabaseConfig{Path: dbPath}}
	logger := log.New(io.Discard, "", 0)

	recordExportAction(context.Background(), config, logger, "alerts", "alerts-2026-03-01.csv", 3)

	st, err := store.NewStore(dbPath)
	require.NoError(t, err)
	defer st.Close()

	entries, err := st.RecentActions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "export", entries[0].Action)
	assert.Equal(t, "alerts", entries[0].Resource)
	assert.Equal(t, "ok", entries[0].Outcome)
	assert.True(t, strings.Contains(entries[0].Detail, "alerts-2026-03-01.csv"))
	assert.True(t, strings.Contains(entries[0].Detail, "3 records"))
}
