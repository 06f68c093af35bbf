// Package logging writes one JSON object per line, the format shared by request logs and
// application events.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger emits JSON-line events. The zero value is not usable; use New or Discard.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w with timestamps in loc (UTC when nil).
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Stdout is a Logger on os.Stdout.
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Discard drops every event.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

// Location returns the timestamp location.
func (l *Logger) Location() *time.Location { return l.loc }

func (l *Logger) Info(msg string, fields map[string]any) { l.log("info", msg, fields) }

func (l *Logger) Warn(msg string, fields map[string]any) { l.log("warn", msg, fields) }

func (l *Logger) Error(msg string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.log("error", msg, fields)
}

// Write encodes entry as-is after stamping ts. Used by the request logger, which owns its field set.
func (l *Logger) Write(entry map[string]any) {
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	l.mu.Lock()
	_ = l.enc.Encode(entry)
	l.mu.Unlock()
}

func (l *Logger) log(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["msg"] = msg
	l.Write(entry)
}
