// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Everything goes to stderr: stdout belongs to the msgpack IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup points the package level charm logger at stderr and sets its level.
// debug wins over level.
func Setup(debug bool, level log.Level) {
	setup(os.Stderr, debug, level)
}

func setup(w io.Writer, debug bool, level log.Level) {
	log.SetOutput(w)
	log.SetReportTimestamp(debug)
	log.SetReportCaller(debug)
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(level)
}

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
