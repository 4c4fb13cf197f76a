// Package logging builds the logrus logger shared by the CLI and the API.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Field names used across log entries.
const (
	FieldScenario   = "scenario"
	FieldMonths     = "months"
	FieldResolution = "resolution"
	FieldBackend    = "backend"
	FieldField      = "field"
	FieldAmbiguity  = "ambiguity"
	FieldAccount    = "account"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldAddr       = "addr"
)

// New returns a logger writing to out. Unknown levels fall back to info;
// format "json" selects the JSON formatter, anything else plain text.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() *logrus.Logger {
	return New("panic", "text", io.Discard)
}
