package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// New builds the process logger. Console output belongs to the transcript,
// so diagnostics go to w (stderr in the CLIs).
func New(w io.Writer, debug bool) *slog.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return slog.New(handler)
}
