package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// BuildOrder is a leveled build ordering. BuildOrder[i] holds the sorted names
// of the packages at level i. Every in-graph build dependency of a package sits
// at a strictly lower level than the package itself.
type BuildOrder [][]string

// LevelOf returns the level assigned to the named package.
func (o BuildOrder) LevelOf(name string) (int, bool) {
	for level, names := range o {
		i := sort.SearchStrings(names, name)
		if i < len(names) && names[i] == name {
			return level, true
		}
	}
	return 0, false
}

// Packages returns the number of packages in the ordering.
func (o BuildOrder) Packages() int {
	n := 0
	for _, names := range o {
		n += len(names)
	}
	return n
}

// ErrUnresolved is matched by errors.Is for every *UnresolvedError.
var ErrUnresolved = errors.New("build order could not be resolved")

// UnresolvedError reports packages that could not be given a level.
type UnresolvedError struct {
	// Pending lists every package left without a level, sorted.
	Pending []string

	// Cycles lists the dependency cycles found among the pending packages.
	// Each cycle is sorted; a single-member cycle is a package that requires
	// itself.
	Cycles [][]string

	// CeilingReached is set when Resolve ran out of levels rather than out of
	// progress.
	CeilingReached bool
	MaxLevels      int
}

func (e *UnresolvedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to order %d package(s)", len(e.Pending))
	if e.CeilingReached {
		fmt.Fprintf(&b, " within %d levels", e.MaxLevels)
	}
	fmt.Fprintf(&b, ": %s", strings.Join(e.Pending, ", "))
	for _, c := range e.Cycles {
		path := append(append([]string{}, c...), c[0])
		fmt.Fprintf(&b, "; cycle: %s", strings.Join(path, " -> "))
	}
	return b.String()
}

func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved
}

// Resolve assigns every package in g the lowest level consistent with its
// build dependencies. Level 0 holds the packages with no build dependency in
// g; each following level holds the pending packages whose build dependencies
// have all been placed already.
//
// A graph with a dependency cycle, a self dependency, or more levels than
// allowed yields a nil BuildOrder and an *UnresolvedError.
func Resolve(g *Graph, opts ...ResolveOption) (BuildOrder, error) {
	o := resolveOptions{maxLevels: DefaultMaxLevels}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	order := BuildOrder{}
	pending := make(map[string]struct{}, g.Len())
	for _, name := range g.Nodes() {
		pending[name] = struct{}{}
	}

	for len(pending) > 0 {
		if len(order) > o.maxLevels {
			return nil, g.unresolved(pending, o.maxLevels, true)
		}

		var level []string
		for _, name := range sortedKeys(pending) {
			p := g.packages[name]
			ready := true
			for _, dep := range p.BuildRequires {
				if _, waiting := pending[dep]; waiting {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, name)
			}
		}

		if len(level) == 0 {
			return nil, g.unresolved(pending, o.maxLevels, false)
		}

		for _, name := range level {
			delete(pending, name)
		}
		order = append(order, level)
	}

	return order, nil
}

func (g *Graph) unresolved(pending map[string]struct{}, maxLevels int, ceiling bool) error {
	names := sortedKeys(pending)
	cycles, err := g.cyclesAmong(names, pending)
	if err != nil {
		return fmt.Errorf("finding dependency cycles among %s: %w", strings.Join(names, ", "), err)
	}

	return &UnresolvedError{
		Pending:        names,
		Cycles:         cycles,
		CeilingReached: ceiling,
		MaxLevels:      maxLevels,
	}
}

// cyclesAmong returns the strongly connected components of the build
// dependency graph restricted to the given packages, keeping only real cycles.
func (g *Graph) cyclesAmong(names []string, set map[string]struct{}) ([][]string, error) {
	sub := graph.New(graph.StringHash, graph.Directed())
	for _, name := range names {
		if err := sub.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}

	var cycles [][]string
	for _, name := range names {
		for _, dep := range g.packages[name].BuildRequires {
			if dep == name {
				cycles = append(cycles, []string{name})
				continue
			}
			if _, ok := set[dep]; !ok {
				continue
			}
			if err := sub.AddEdge(name, dep); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("unable to add edge for %q dependency %q: %w", name, dep, err)
			}
		}
	}

	components, err := graph.StronglyConnectedComponents(sub)
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		if len(c) > 1 {
			sort.Strings(c)
			cycles = append(cycles, c)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
