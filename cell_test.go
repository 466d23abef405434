package weave_test

import (
	"errors"
	"testing"

	"github.com/agentstation/weave"
	"github.com/agentstation/weave/internal/testutil"
)

func TestCell(t *testing.T) {
	t.Run("zero value is uninitialized", func(t *testing.T) {
		var c weave.Cell
		if c.IsSet() {
			t.Fatal("zero cell should be unset")
		}
		_, err := c.Get()
		if !errors.Is(err, weave.ErrUninitialized) {
			t.Fatalf("expected ErrUninitialized, got %v", err)
		}
	})

	tests := []struct {
		name  string
		value any
	}{
		{name: "int", value: 42},
		{name: "string", value: "hello"},
		{name: "nil", value: nil},
		{name: "zero", value: 0},
		{name: "false", value: false},
	}

	for _, tt := range tests {
		t.Run("set "+tt.name, func(t *testing.T) {
			c := weave.NewCell()
			c.Set(tt.value)
			if !c.IsSet() {
				t.Fatal("cell should be set")
			}
			got, err := c.Get()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.value {
				t.Errorf("got %v, want %v", got, tt.value)
			}
		})
	}

	t.Run("reset", func(t *testing.T) {
		c := weave.NewCell()
		c.Set(1)
		c.Reset()
		if c.IsSet() {
			t.Fatal("cell should be unset after reset")
		}
		if _, err := c.Get(); !errors.Is(err, weave.ErrUninitialized) {
			t.Fatalf("expected ErrUninitialized, got %v", err)
		}
	})
}

func TestNestedReferenceWarning(t *testing.T) {
	rec := &testutil.WarningRecorder{}
	refs := weave.NewRefs("test", weave.WithWarningHandler(rec.Handle))
	if err := refs.Declare("a"); err != nil {
		t.Fatal(err)
	}

	inner := weave.NewCell()
	if err := refs.Set("a", inner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	warnings := rec.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	var w *weave.NestedReferenceWarning
	if !errors.As(warnings[0], &w) {
		t.Fatalf("expected NestedReferenceWarning, got %T", warnings[0])
	}
	if w.Refs != "test" || w.Name != "a" {
		t.Errorf("warning names %s.%s, want test.a", w.Refs, w.Name)
	}
	if !errors.Is(warnings[0], weave.ErrNestedReference) {
		t.Error("warning should match ErrNestedReference")
	}

	// The cell is still stored as given.
	got, err := refs.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if got != inner {
		t.Error("stored value should be the inner cell")
	}

	// Plain values raise nothing.
	if err := refs.Set("a", 1); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Warnings()); n != 1 {
		t.Errorf("expected no new warnings, got %d total", n)
	}
}

func TestNestedReferenceWarningDefaultHandler(t *testing.T) {
	defer weave.ResetDefaults()

	logger := testutil.NewMockLogger()
	weave.SetDefaults(weave.WithLogger(logger))

	c := weave.NewCell()
	c.Set(weave.NewCell())

	if !logger.HasEntry("info", "warning") {
		t.Error("expected the warning to be logged through the default logger")
	}
}
