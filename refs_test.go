package weave_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agentstation/weave"
)

func newRefs(t *testing.T, label string, names ...string) *weave.Refs {
	t.Helper()
	r := weave.NewRefs(label)
	if err := r.Declare(names...); err != nil {
		t.Fatalf("declare %v: %v", names, err)
	}
	return r
}

func TestRefsLifecycle(t *testing.T) {
	r := newRefs(t, "r", "a", "b", "c")

	for _, name := range r.Names() {
		if _, err := r.Get(name); !errors.Is(err, weave.ErrUninitialized) {
			t.Fatalf("%s before set: expected ErrUninitialized, got %v", name, err)
		}
	}

	if err := r.Set("b", "value"); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if got != "value" {
		t.Errorf("got %v, want value", got)
	}

	if err := r.Delete("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("b"); !errors.Is(err, weave.ErrUninitialized) {
		t.Fatalf("after delete: expected ErrUninitialized, got %v", err)
	}
	if !r.Has("b") {
		t.Error("deleted name should stay declared")
	}

	if err := r.Merge(weave.Values{"a": 1, "c": 3}); err != nil {
		t.Fatal(err)
	}
	r.Reset()
	for _, name := range r.Names() {
		if _, err := r.Get(name); !errors.Is(err, weave.ErrUninitialized) {
			t.Fatalf("%s after reset: expected ErrUninitialized, got %v", name, err)
		}
	}
	if r.Len() != 3 {
		t.Errorf("reset should keep names, got %d", r.Len())
	}
}

func TestRefsUnknownName(t *testing.T) {
	r := newRefs(t, "r", "a")

	tests := []struct {
		name string
		op   func() error
	}{
		{"get", func() error { _, err := r.Get("zz"); return err }},
		{"set", func() error { return r.Set("zz", 1) }},
		{"delete", func() error { return r.Delete("zz") }},
		{"merge", func() error { return r.Merge(weave.Values{"zz": 1}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, weave.ErrUnknownName) {
				t.Fatalf("expected ErrUnknownName, got %v", err)
			}
			var ne *weave.NameError
			if !errors.As(err, &ne) {
				t.Fatalf("expected *NameError, got %T", err)
			}
			if ne.Name != "zz" || ne.Refs != "r" {
				t.Errorf("error names %s.%s, want r.zz", ne.Refs, ne.Name)
			}
		})
	}
}

func TestRefsGetOr(t *testing.T) {
	r := newRefs(t, "r", "a")

	got, err := r.GetOr("missing", "default")
	if err != nil {
		t.Fatal(err)
	}
	if got != "default" {
		t.Errorf("got %v, want default", got)
	}

	// Declared but unset is still an error.
	if _, err := r.GetOr("a", "default"); !errors.Is(err, weave.ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}

	if err := r.Set("a", 7); err != nil {
		t.Fatal(err)
	}
	got, err = r.GetOr("a", "default")
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestRefsDeclare(t *testing.T) {
	r := newRefs(t, "r", "a")

	err := r.Declare("b", "a")
	if !errors.Is(err, weave.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if r.Has("b") {
		t.Error("failed declare should add nothing")
	}

	if err := r.Declare("c", "c"); !errors.Is(err, weave.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName for repeated name, got %v", err)
	}
}

func TestRefsSetMany(t *testing.T) {
	t.Run("rejects unknown before writing", func(t *testing.T) {
		r := newRefs(t, "r", "a", "b")
		err := r.SetMany(weave.Values{"a": 1, "zz": 2})
		if !errors.Is(err, weave.ErrUnknownName) {
			t.Fatalf("expected ErrUnknownName, got %v", err)
		}
		if _, err := r.Get("a"); !errors.Is(err, weave.ErrUninitialized) {
			t.Error("a should not have been written")
		}
	})

	t.Run("ignore missing", func(t *testing.T) {
		r := newRefs(t, "r", "a", "b")
		if err := r.SetMany(weave.Values{"a": 1, "zz": 2}, weave.IgnoreMissing()); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(weave.Values{"a": 1}, r.Map()); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single set ignore missing", func(t *testing.T) {
		r := newRefs(t, "r", "a")
		if err := r.Set("zz", 1, weave.IgnoreMissing()); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
	})
}

func TestRefsIteration(t *testing.T) {
	r := newRefs(t, "r", "c", "a", "b")
	if err := r.Merge(weave.Values{"b": 2, "c": 3}); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"c", "a", "b"}, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r.Names(), r.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{3, 2}, r.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	want := []weave.Item{{Name: "c", Value: 3}, {Name: "b", Value: 2}}
	if diff := cmp.Diff(want, r.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}
