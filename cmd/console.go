package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/sentinelops/triage-console/internal/api"
	"github.com/sentinelops/triage-console/internal/cache"
	"github.com/sentinelops/triage-console/internal/coordinator"
	"github.com/sentinelops/triage-console/internal/notify"
	"github.com/sentinelops/triage-console/internal/store"
	"github.com/sentinelops/triage-console/internal/ui"
)

var forceTUI bool

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive triage console",
	Long: `Start the full-screen triage console. The console keeps alerts,
incidents and events fresh by polling the backend, and every status change,
escalation and export is written to the local audit database.

The console runs until quit (q) or interrupted (Ctrl+C).

Examples:
  # Start against the default backend
  triage-console console

  # Point at a remote backend
  triage-console console --api https://soc.example.com/api/v1`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().BoolVar(&forceTUI, "force-tui", false, "Force TUI mode even in unsupported terminals")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	if !forceTUI && !canInitializeTUI() {
		fmt.Fprintln(os.Stderr, "The console needs an interactive terminal and could not initialize one.")
		fmt.Fprintf(os.Stderr, "Terminal info: %s\n", getTerminalInfo())
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Headless alternatives:")
		fmt.Fprintln(os.Stderr, "  triage-console export alerts")
		fmt.Fprintln(os.Stderr, "  triage-console report <incident-id>")
		return fmt.Errorf("no usable terminal (use --force-tui to override)")
	}

	// Logs go to a file while the TUI owns the terminal; errors still reach
	// stderr so a crashed session leaves a trace on screen.
	var logger *log.Logger
	logFile := setupFileLogger()
	if logFile != nil {
		logger = log.New(io.MultiWriter(logFile, &errorFilterWriter{os.Stderr}), "[console] ", log.LstdFlags)
		defer logFile.Close()
	} else {
		logger = log.New(io.Discard, "[console] ", log.LstdFlags)
	}

	logger.Println("Starting triage console")

	baseDir := getWorkingDir()
	resolvedDBPath := resolvePathRelativeToBase(baseDir, config.Database.Path)
	logger.Printf("Using audit database at %s", resolvedDBPath)
	st, err := store.NewStore(resolvedDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize audit store: %w", err)
	}
	defer st.Close()

	snapshots := store.NewSnapshotStore(config.Redis.URL, logger)
	defer snapshots.Close()

	client := api.NewClient(config.API.URL, api.Options{Logger: logger})
	if err := client.Health(ctx); err != nil {
		// The console still starts; caches will serve seeded snapshots and
		// retry in the background.
		logger.Printf("backend health check failed: %v", err)
	}

	queue := notify.NewQueue(notify.Options{
		DefaultTTL: config.Notify.TTL,
		ErrorTTL:   config.Notify.ErrorTTL,
		Logger:     logger,
	})

	caches := cache.NewSet(client, cache.Options{
		Window:     config.Cache.Refresh,
		RetryDelay: config.Cache.RetryDelay,
		Logger:     logger,
		Snapshots:  snapshots,
	})
	caches.StartRefresh(ctx)

	coord := coordinator.New(client, caches, queue, st, logger)

	app := ui.NewUI(ctx, client, caches, coord, queue, config.View.PageSize, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Println("Triage console stopped")
	return nil
}

// canInitializeTUI tests if tcell can actually be initialized
func canInitializeTUI() bool {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}
	if err := screen.Init(); err != nil {
		return false
	}
	screen.Fini()
	return true
}

// getTerminalInfo returns a one-line summary of the terminal environment,
// used in the error path when the TUI cannot start.
func getTerminalInfo() string {
	var info []string

	term := os.Getenv("TERM")
	if term == "" {
		info = append(info, "TERM=<not set>")
	} else {
		info = append(info, fmt.Sprintf("TERM=%s", term))
	}

	if width, height := getTerminalSize(); width > 0 && height > 0 {
		info = append(info, fmt.Sprintf("Size=%dx%d", width, height))
	}

	if isTerminal() {
		info = append(info, "TTY=yes")
	} else {
		info = append(info, "TTY=no")
	}

	return strings.Join(info, ", ")
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// setupFileLogger opens logs/triage-console.log for appending.
// Returns nil if the file cannot be created.
func setupFileLogger() *os.File {
	logDir := filepath.Join(getWorkingDir(), "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}
	logPath := filepath.Join(logDir, "triage-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	return logFile
}

// errorFilterWriter passes only error-looking log lines through to the
// wrapped writer so the terminal stays quiet while the TUI is active.
type errorFilterWriter struct {
	w io.Writer
}

func (f *errorFilterWriter) Write(p []byte) (int, error) {
	line := strings.ToLower(string(p))
	if strings.Contains(line, "error") || strings.Contains(line, "fatal") || strings.Contains(line, "panic") {
		return f.w.Write(p)
	}
	return len(p), nil
}

// getExecutableDir returns the directory of the running executable.
// Falls back to current directory on error.
func getExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// getWorkingDir returns the current working directory.
// Falls back to executable directory if os.Getwd fails.
func getWorkingDir() string {
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return wd
	}
	return getExecutableDir()
}

// resolvePathRelativeToBase resolves a possibly relative path against a base directory.
// Absolute paths are returned unchanged.
func resolvePathRelativeToBase(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	p = strings.TrimPrefix(p, "./")
	return filepath.Join(base, p)
}
