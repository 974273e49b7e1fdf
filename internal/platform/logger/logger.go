// Package logger builds the process-wide structured logger. Library
// packages (pkg/validation, pkg/sanitize) never log; services receive a
// *slog.Logger through options and own all telemetry.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Development mode uses
// the text handler for readability.
func New(mode string) *slog.Logger {
	var handler slog.Handler
	if mode == "development" {
		handler = slog.NewTextHandler(os.Stdout, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
