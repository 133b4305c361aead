// Package logging configures the process-wide logger. Diagnostics go to
// stderr so they never mix with diff output on stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// syncWriter is a thread-safe writer that prevents interleaved output
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

// Write implements io.Writer
func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// newSyncWriter creates a new synchronized writer
func newSyncWriter(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

// Setup installs a charmbracelet/log logger at the given level as the
// default for both charmlog and slog.
func Setup(level string) error {
	parsed, err := charmlog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	// Create a synchronized writer to prevent interleaved output
	syncWriter := newSyncWriter(os.Stderr)

	// Create a charmbracelet/log logger that writes to the synchronized writer
	charmLogger := charmlog.NewWithOptions(syncWriter, charmlog.Options{
		Level:           parsed,
		ReportCaller:    parsed == charmlog.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "tintdiff",
	})

	// Set the global logger for charmbracelet/log
	charmlog.SetDefault(charmLogger)

	// Create a slog handler that uses charmbracelet/log
	// This will forward all slog logs to charmbracelet/log
	slog.SetDefault(slog.New(charmLogger))

	return nil
}

// RecoverPanic is a common function to handle panics gracefully.
// It logs the error, creates a panic log file with stack trace,
// and executes an optional cleanup function.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("Panic in %s: %v", name, r)
		// Use slog directly here, as our service might be the one panicking.
		slog.Error(errorMsg)

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("tintdiff-panic-%s-%s.log", name, timestamp)

		file, err := os.Create(filename)
		if err != nil {
			slog.Error(fmt.Sprintf("Failed to create panic log file '%s': %v", filename, err))
		} else {
			defer file.Close()
			fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
			fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprintf(file, "Stack Trace:\n%s\n", string(debug.Stack()))
			slog.Info(fmt.Sprintf("Panic details written to %s", filename))
		}

		if cleanup != nil {
			cleanup()
		}
	}
}
