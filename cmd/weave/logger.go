package main

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/agentstation/weave"
)

// logrusLogger adapts a logrus entry to weave.Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

var _ weave.Logger = (*logrusLogger)(nil)

// newLogger writes text logs to w. Debug messages are shown only when
// verbose is set.
func newLogger(w io.Writer, verbose bool) *logrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.with(ctx, keysAndValues).Debug(msg)
}

func (l *logrusLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.with(ctx, keysAndValues).Info(msg)
}

func (l *logrusLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.with(ctx, keysAndValues).Error(msg)
}

func (l *logrusLogger) with(ctx context.Context, keysAndValues []any) *logrus.Entry {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return l.entry.WithContext(ctx).WithFields(fields)
}
