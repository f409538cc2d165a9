// Package testutil provides shared helpers for unit tests.
package testutil

import (
	"sync"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// LogEntry is a single captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// CaptureLogger implements logging.Logger and records every entry so tests
// can assert on emitted log output.  Safe for concurrent use.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	context []logging.Field
}

// NewCaptureLogger returns an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) record(level, msg string, fields []logging.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := make([]logging.Field, 0, len(c.context)+len(fields))
	all = append(all, c.context...)
	all = append(all, fields...)
	c.entries = append(c.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

func (c *CaptureLogger) Debug(msg string, fields ...logging.Field) { c.record("debug", msg, fields) }
func (c *CaptureLogger) Info(msg string, fields ...logging.Field)  { c.record("info", msg, fields) }
func (c *CaptureLogger) Warn(msg string, fields ...logging.Field)  { c.record("warn", msg, fields) }
func (c *CaptureLogger) Error(msg string, fields ...logging.Field) { c.record("error", msg, fields) }
func (c *CaptureLogger) Fatal(msg string, fields ...logging.Field) { c.record("fatal", msg, fields) }

// With returns a child logger sharing the same entry store with the extra
// fields attached to every future entry.
func (c *CaptureLogger) With(fields ...logging.Field) logging.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := append(append([]logging.Field{}, c.context...), fields...)
	return &tee{parent: c, context: ctx}
}

// Named is a no-op for capture purposes.
func (c *CaptureLogger) Named(_ string) logging.Logger { return c }

// Entries returns a copy of all captured entries.
func (c *CaptureLogger) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Messages returns the captured messages at the given level, or all messages
// when level is empty.
func (c *CaptureLogger) Messages(level string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.entries {
		if level == "" || e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// tee forwards entries to a parent CaptureLogger with extra context fields.
type tee struct {
	parent  *CaptureLogger
	context []logging.Field
}

func (t *tee) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(t.context)+len(fields))
	all = append(all, t.context...)
	all = append(all, fields...)
	t.parent.mu.Lock()
	t.parent.entries = append(t.parent.entries, LogEntry{Level: level, Message: msg, Fields: all})
	t.parent.mu.Unlock()
}

func (t *tee) Debug(msg string, fields ...logging.Field) { t.log("debug", msg, fields) }
func (t *tee) Info(msg string, fields ...logging.Field)  { t.log("info", msg, fields) }
func (t *tee) Warn(msg string, fields ...logging.Field)  { t.log("warn", msg, fields) }
func (t *tee) Error(msg string, fields ...logging.Field) { t.log("error", msg, fields) }
func (t *tee) Fatal(msg string, fields ...logging.Field) { t.log("fatal", msg, fields) }
func (t *tee) With(fields ...logging.Field) logging.Logger {
	return &tee{parent: t.parent, context: append(append([]logging.Field{}, t.context...), fields...)}
}
func (t *tee) Named(_ string) logging.Logger { return t }
