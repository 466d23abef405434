// Package testutil provides testing utilities for weave.
package testutil

import (
	"context"
	"sync"
)

// MockLogger provides a mock logger for testing.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry represents a log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// NewMockLogger creates a new mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		entries: []LogEntry{},
	}
}

// Debug logs a debug message.
func (l *MockLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("debug", msg, keysAndValues...)
}

// Info logs an info message.
func (l *MockLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("info", msg, keysAndValues...)
}

// Error logs an error message.
func (l *MockLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.log("error", msg, keysAndValues...)
}

func (l *MockLogger) log(level, msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]any)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}

	l.entries = append(l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// GetEntries returns all log entries.
func (l *MockLogger) GetEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// HasEntry checks if a log entry exists.
func (l *MockLogger) HasEntry(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}

// MockTracer records span names in the order they were opened.
type MockTracer struct {
	mu       sync.Mutex
	spans    []string
	finished int
}

// NewMockTracer creates a new mock tracer.
func NewMockTracer() *MockTracer {
	return &MockTracer{}
}

// StartSpan starts a new span.
func (t *MockTracer) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, name)

	return ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.finished++
	}
}

// Spans returns the names of all started spans.
func (t *MockTracer) Spans() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	spans := make([]string, len(t.spans))
	copy(spans, t.spans)
	return spans
}

// Finished returns how many spans were finished.
func (t *MockTracer) Finished() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// WarningRecorder collects warnings passed to its Handle method.
type WarningRecorder struct {
	mu       sync.Mutex
	warnings []error
}

// Handle records w. Pass it to weave.WithWarningHandler.
func (r *WarningRecorder) Handle(w error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// Warnings returns the recorded warnings.
func (r *WarningRecorder) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]error, len(r.warnings))
	copy(out, r.warnings)
	return out
}
