// Package runlog builds the structured loggers used by the command-line tools.
package runlog

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// New returns a text logger writing to w, tagged with a fresh run id.
// verbose enables debug output.
func New(w io.Writer, tool string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("tool", tool, "run_id", uuid.NewString())
}
