package weave

import (
	"errors"
	"maps"
	"slices"
)

// Pair maps a local name to a remote name.
type Pair struct {
	Local  string
	Remote string
}

// Link is a propagation rule from cells of one collection to cells of Target.
type Link struct {
	Target *Refs
	Pairs  []Pair
}

// Mapping selects which names a link connects. A nil Mapping behaves like
// Intersect.
type Mapping interface {
	resolve(local, remote *Refs) ([]Pair, error)
}

// Intersect links every name declared on both sides, by identical name.
// Names present on only one side are skipped.
func Intersect() Mapping {
	return intersect{}
}

type intersect struct{}

func (intersect) resolve(local, remote *Refs) ([]Pair, error) {
	pairs := make([]Pair, 0, len(local.order))
	for _, name := range local.order {
		if remote.Has(name) {
			pairs = append(pairs, Pair{Local: name, Remote: name})
		}
	}
	return pairs, nil
}

// Name links a single name to the same name on the other side.
func Name(name string) Mapping {
	return nameList{name}
}

// Names links each name to the same name on the other side.
func Names(names ...string) Mapping {
	return nameList(names)
}

type nameList []string

func (ns nameList) resolve(local, remote *Refs) ([]Pair, error) {
	pairs := make([]Pair, 0, len(ns))
	for _, name := range ns {
		pairs = append(pairs, Pair{Local: name, Remote: name})
	}
	return checkPairs(local, remote, pairs)
}

// Map links each local name (key) to a remote name (value). Pairs are
// registered in the local collection's declaration order.
func Map(m map[string]string) Mapping {
	return portMap(m)
}

type portMap map[string]string

func (m portMap) resolve(local, remote *Refs) ([]Pair, error) {
	pairs := make([]Pair, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, Pair{Local: name, Remote: m[name]})
	}
	if _, err := checkPairs(local, remote, pairs); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(local.order))
	for i, name := range local.order {
		index[name] = i
	}
	slices.SortStableFunc(pairs, func(a, b Pair) int {
		return index[a.Local] - index[b.Local]
	})
	return pairs, nil
}

// Pairs links explicit local/remote pairs in the given order.
func Pairs(pairs ...Pair) Mapping {
	return pairList(pairs)
}

type pairList []Pair

func (ps pairList) resolve(local, remote *Refs) ([]Pair, error) {
	return checkPairs(local, remote, slices.Clone(ps))
}

func checkPairs(local, remote *Refs, pairs []Pair) ([]Pair, error) {
	for _, p := range pairs {
		if !local.Has(p.Local) {
			return nil, nameError(ErrUnknownName, local, p.Local)
		}
		if !remote.Has(p.Remote) {
			return nil, nameError(ErrUnknownName, remote, p.Remote)
		}
	}
	return pairs, nil
}

// Link registers a propagation rule from r to other. It copies no values:
// later writes on r are what propagate. Names are checked before anything is
// registered, so a failed Link leaves no partial link behind. A link that
// would let a write reach its own source cell is rejected with a
// LinkCycleError.
func (r *Refs) Link(other *Refs, m Mapping) error {
	if other == nil {
		return errors.New("weave: link target is nil")
	}
	if m == nil {
		m = Intersect()
	}

	pairs, err := m.resolve(r, other)
	if err != nil {
		return err
	}
	if err := r.checkLinkCycle(other, pairs); err != nil {
		return err
	}

	if len(pairs) == 0 {
		return nil
	}
	r.links = append(r.links, Link{Target: other, Pairs: pairs})
	return nil
}

// Links returns a copy of the outgoing links.
func (r *Refs) Links() []Link {
	out := make([]Link, len(r.links))
	for i, l := range r.links {
		out[i] = Link{Target: l.Target, Pairs: slices.Clone(l.Pairs)}
	}
	return out
}

// cellKey identifies a cell by its collection and name.
type cellKey struct {
	refs *Refs
	name string
}

func (k cellKey) String() string {
	return k.refs.label + "." + k.name
}

type cellEdge struct {
	from, to cellKey
}

// checkLinkCycle rejects pairs for which the remote cell can already reach
// the local cell, counting pairs accepted earlier in the same call.
func (r *Refs) checkLinkCycle(target *Refs, pairs []Pair) error {
	pending := make([]cellEdge, 0, len(pairs))
	for _, p := range pairs {
		from := cellKey{refs: r, name: p.Local}
		to := cellKey{refs: target, name: p.Remote}
		if reaches(to, from, pending) {
			return &LinkCycleError{From: from.String(), To: to.String()}
		}
		pending = append(pending, cellEdge{from: from, to: to})
	}
	return nil
}

// reaches reports whether a write on start propagates to goal.
func reaches(start, goal cellKey, extra []cellEdge) bool {
	seen := map[cellKey]bool{start: true}
	stack := []cellKey{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == goal {
			return true
		}

		visit := func(next cellKey) {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
		for _, l := range cur.refs.links {
			for _, p := range l.Pairs {
				if p.Local == cur.name {
					visit(cellKey{refs: l.Target, name: p.Remote})
				}
			}
		}
		for _, e := range extra {
			if e.from == cur {
				visit(e.to)
			}
		}
	}
	return false
}
