// Package logger is a standardized event logging framework for the shell.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// LogEntry is one executed input line.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	Input           string `json:"input"`
	DurationMillis  int64  `json:"duration_millis"`
	Error           string `json:"error,omitempty"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction event logs for the shell.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewDiscardLogRecorder creates a Logger that drops all events.
func NewDiscardLogRecorder() *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			return nil
		},
	}
}

// RecordInput logs one executed line and its outcome.
func (l *Logger) RecordInput(input string, took time.Duration, runErr error) error {
	le := &LogEntry{
		TimestampMicros: time.Now().UnixNano() / int64(time.Microsecond),
		Input:           input,
		DurationMillis:  took.Milliseconds(),
	}
	if runErr != nil {
		le.Error = runErr.Error()
	}
	return l.Record(le)
}
