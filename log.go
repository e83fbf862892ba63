package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped entries at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "flowedit",
	})
}

// openLogOutput returns where logs go. The terminal belongs to the editor, so
// without a log file everything is discarded.
func openLogOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
