package weave

import (
	"container/heap"
	"fmt"
)

// Edge is a precedence constraint: the item at index From must come before
// the item at index To.
type Edge struct {
	From int
	To   int
}

// TopoSort returns items reordered so that every edge is respected.
// When several orders are valid the lowest ready index goes first.
func TopoSort[T any](items []T, edges []Edge) ([]T, error) {
	order, err := TopoOrder(len(items), edges)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(order))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return out, nil
}

// TopoOrder returns a permutation of 0..n-1 consistent with edges, using
// Kahn's algorithm. A self-edge or any longer cycle yields a CycleError.
func TopoOrder(n int, edges []Edge) ([]int, error) {
	indeg := make([]int, n)
	outgoing := make([][]int, n)
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, fmt.Errorf("%w: (%d, %d) with %d items", ErrInvalidEdge, e.From, e.To, n)
		}
		outgoing[e.From] = append(outgoing[e.From], e.To)
		indeg[e.To]++
	}

	ready := &intMinHeap{}
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, n)
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		out = append(out, u)
		for _, v := range outgoing[u] {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}

	if len(out) < n {
		remaining := make([]int, 0, n-len(out))
		for i := range indeg {
			if indeg[i] > 0 {
				remaining = append(remaining, i)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return out, nil
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
