package weave_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agentstation/weave"
)

type addIn struct {
	X, Y int
}

type addOut struct {
	Z int
}

type taggedIn struct {
	Text    string `weave:"text"`
	Repeat  int    `weave:"n"`
	Ignored string `weave:"-"`
	hidden  string
}

type taggedOut struct {
	Result string `weave:"result"`
}

func TestTypedNodePorts(t *testing.T) {
	n, err := weave.NewTypedNode("tagged", func(ctx context.Context, in taggedIn) (taggedOut, error) {
		return taggedOut{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"text", "n"}, n.Inputs().Names()); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"result"}, n.Outputs().Names()); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestTypedNodeCall(t *testing.T) {
	adder, err := weave.NewTypedNode("adder", func(ctx context.Context, in addIn) (addOut, error) {
		return addOut{Z: in.X + in.Y}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := adder.Inputs().Merge(weave.Values{"X": 4, "Y": 5}); err != nil {
		t.Fatal(err)
	}
	if err := adder.Call(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, err := adder.Outputs().Get("Z")
	if err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Errorf("got %v, want 9", got)
	}
}

func TestTypedNodeInvalidInput(t *testing.T) {
	called := false
	adder, err := weave.NewTypedNode("adder", func(ctx context.Context, in addIn) (addOut, error) {
		called = true
		return addOut{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := adder.Inputs().Merge(weave.Values{"X": "four", "Y": 5}); err != nil {
		t.Fatal(err)
	}
	err = adder.Call(context.Background())
	if !errors.Is(err, weave.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if called {
		t.Error("function should not run on invalid input")
	}
}

func TestTypedNodeNilInput(t *testing.T) {
	adder, err := weave.NewTypedNode("adder", func(ctx context.Context, in addIn) (addOut, error) {
		return addOut{Z: in.X + in.Y}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := adder.Inputs().Merge(weave.Values{"X": nil, "Y": 3}); err != nil {
		t.Fatal(err)
	}
	if err := adder.Call(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _ := adder.Outputs().Get("Z")
	if got != 3 {
		t.Errorf("got %v, want 3", got)
	}
}

func TestTypedNodeNonStruct(t *testing.T) {
	_, err := weave.NewTypedNode("bad", func(ctx context.Context, in int) (addOut, error) {
		return addOut{}, nil
	})
	if !errors.Is(err, weave.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
