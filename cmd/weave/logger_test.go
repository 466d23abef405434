package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLogrusLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("info and above by default", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, false)
		l.Debug(ctx, "hidden")
		l.Info(ctx, "shown", "node", "adder")
		l.Error(ctx, "failed", "error", "boom")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("debug message logged without verbose:\n%s", out)
		}
		for _, want := range []string{`msg=shown`, `node=adder`, `level=error`, `error=boom`} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := newLogger(&buf, true)
		l.Debug(ctx, "details", "odd")

		if out := buf.String(); !strings.Contains(out, "msg=details") {
			t.Errorf("expected debug message in:\n%s", out)
		}
	})
}
