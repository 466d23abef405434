package middleware

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/agentstation/weave"
)

// Stats accumulates evaluation timings per node name. It is safe for
// concurrent use.
type Stats struct {
	mu    sync.Mutex
	nodes map[string]*NodeStats
}

// NodeStats summarizes the evaluations of one node.
type NodeStats struct {
	Name     string        `json:"name" yaml:"name"`
	Calls    int           `json:"calls" yaml:"calls"`
	Failures int           `json:"failures" yaml:"failures"`
	Total    time.Duration `json:"total" yaml:"total"`
	Max      time.Duration `json:"max" yaml:"max"`
}

// Average returns the mean duration of a call.
func (s NodeStats) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// NewStats creates an empty collector.
func NewStats() *Stats {
	return &Stats{nodes: make(map[string]*NodeStats)}
}

func (s *Stats) record(name string, d time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.nodes[name]
	if !ok {
		ns = &NodeStats{Name: name}
		s.nodes[name] = ns
	}
	ns.Calls++
	ns.Total += d
	ns.Max = max(ns.Max, d)
	if failed {
		ns.Failures++
	}
}

// Get returns the stats for one node.
func (s *Stats) Get(name string) (NodeStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.nodes[name]
	if !ok {
		return NodeStats{}, false
	}
	return *ns, true
}

// All returns the stats of every node, sorted by name.
func (s *Stats) All() []NodeStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]NodeStats, 0, len(s.nodes))
	for _, ns := range s.nodes {
		all = append(all, *ns)
	}
	slices.SortFunc(all, func(a, b NodeStats) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return all
}

// Timing records the duration of every evaluation in stats.
func Timing(stats *Stats) Middleware {
	return func(n weave.Node) weave.Node {
		return Wrap(n, func(ctx context.Context, next CallFunc) error {
			start := time.Now()
			err := next(ctx)
			stats.record(n.Name(), time.Since(start), err != nil)
			return err
		})
	}
}
