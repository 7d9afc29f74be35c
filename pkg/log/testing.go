// This file contains helpers for testing logging functionality in zfit.
// It provides a way to capture log output during tests without interfering
// with the normal execution flow.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// TestLogger captures structured log records in memory for later inspection.
type TestLogger struct {
	*slog.Logger
	buffer *bytes.Buffer
}

// NewTestLogger creates a logger whose JSON output is captured in the
// returned buffer.
//
// Example:
//
//	logger, buffer := log.NewTestLogger(slog.LevelDebug)
//	logger.Info("minimization finished", log.IterationsKey, 42)
//	output := buffer.String()
func NewTestLogger(level slog.Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return &TestLogger{
		Logger: slog.New(WrapByErrFmtHandler(handler)),
		buffer: buf,
	}, buf
}

// Records decodes every captured line as a JSON object.
func (l *TestLogger) Records() []map[string]any {
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(l.buffer.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// Contains reports whether any captured record's message contains s.
func (l *TestLogger) Contains(s string) bool {
	for _, record := range l.Records() {
		if msg, ok := record["msg"].(string); ok && strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
