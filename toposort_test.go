package weave_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agentstation/weave"
)

func TestTopoSort(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		edges []weave.Edge
		want  []string
	}{
		{
			name:  "chain reversed",
			items: []string{"item0", "item1", "item2"},
			edges: []weave.Edge{{From: 2, To: 1}, {From: 1, To: 0}},
			want:  []string{"item2", "item1", "item0"},
		},
		{
			name:  "no edges keeps input order",
			items: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "diamond prefers lowest index",
			items: []string{"0", "1", "2", "3"},
			edges: []weave.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 3}, {From: 2, To: 3}},
			want:  []string{"0", "1", "2", "3"},
		},
		{
			name:  "duplicate edges",
			items: []string{"a", "b"},
			edges: []weave.Edge{{From: 1, To: 0}, {From: 1, To: 0}},
			want:  []string{"b", "a"},
		},
		{
			name:  "empty",
			items: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := weave.TopoSort(tt.items, tt.edges)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopoOrderRespectsEdges(t *testing.T) {
	edges := []weave.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 3}, {From: 2, To: 3}}
	order, err := weave.TopoOrder(4, edges)
	if err != nil {
		t.Fatal(err)
	}

	pos := make(map[int]int, len(order))
	for i, idx := range order {
		pos[idx] = i
	}
	for _, e := range edges {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("edge (%d, %d) violated by order %v", e.From, e.To, order)
		}
	}

	sorted := slices.Clone(order)
	slices.Sort(sorted)
	if diff := cmp.Diff([]int{0, 1, 2, 3}, sorted); diff != "" {
		t.Errorf("order is not a permutation (-want +got):\n%s", diff)
	}
}

func TestTopoSortCycle(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		edges     []weave.Edge
		remaining []int
	}{
		{
			name:      "self edge",
			n:         1,
			edges:     []weave.Edge{{From: 0, To: 0}},
			remaining: []int{0},
		},
		{
			name:      "two cycle",
			n:         2,
			edges:     []weave.Edge{{From: 0, To: 1}, {From: 1, To: 0}},
			remaining: []int{0, 1},
		},
		{
			name:      "cycle behind a free item",
			n:         4,
			edges:     []weave.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 1}},
			remaining: []int{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			_, err := weave.TopoSort(items, tt.edges)
			if !errors.Is(err, weave.ErrCycle) {
				t.Fatalf("expected ErrCycle, got %v", err)
			}
			var ce *weave.CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CycleError, got %T", err)
			}
			if diff := cmp.Diff(tt.remaining, ce.Remaining); diff != "" {
				t.Errorf("remaining mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopoSortInvalidEdge(t *testing.T) {
	_, err := weave.TopoSort([]string{"a"}, []weave.Edge{{From: 0, To: 3}})
	if !errors.Is(err, weave.ErrInvalidEdge) {
		t.Fatalf("expected ErrInvalidEdge, got %v", err)
	}
}

func BenchmarkTopoOrder(b *testing.B) {
	const n = 1000
	edges := make([]weave.Edge, 0, n)
	for i := 1; i < n; i++ {
		edges = append(edges, weave.Edge{From: i, To: i - 1})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := weave.TopoOrder(n, edges); err != nil {
			b.Fatal(err)
		}
	}
}
