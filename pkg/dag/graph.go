package dag

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Package is a support package along with the dependencies declared in its
// spec file. Only BuildRequires affects the build order.
type Package struct {
	Name          string
	Requires      []string
	BuildRequires []string
}

// NewPackage returns a Package whose dependency sets are deduplicated and
// sorted.
func NewPackage(name string, requires, buildRequires []string) Package {
	return Package{
		Name:          name,
		Requires:      normalize(requires),
		BuildRequires: normalize(buildRequires),
	}
}

func normalize(names []string) []string {
	out := lo.Uniq(lo.Compact(names))
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// A Graph is the set of support packages being ordered, indexed by name.
// Dependencies on names that are not in the Graph are considered external and
// already satisfied.
type Graph struct {
	packages map[string]Package
}

var ErrDuplicatePackage = fmt.Errorf("package defined more than once")

// NewGraph returns a new Graph holding the given packages.
func NewGraph(pkgs ...Package) (*Graph, error) {
	g := &Graph{packages: make(map[string]Package, len(pkgs))}
	for _, p := range pkgs {
		if err := g.Add(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add inserts a package into the Graph.
func (g *Graph) Add(p Package) error {
	if p.Name == "" {
		return fmt.Errorf("package has no name")
	}
	if g.packages == nil {
		g.packages = make(map[string]Package)
	}
	if _, exists := g.packages[p.Name]; exists {
		return fmt.Errorf("%s: %w", p.Name, ErrDuplicatePackage)
	}
	g.packages[p.Name] = NewPackage(p.Name, p.Requires, p.BuildRequires)
	return nil
}

// Len returns the number of packages in the Graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.packages)
}

// Has reports whether the named package is part of the Graph.
func (g *Graph) Has(name string) bool {
	if g == nil {
		return false
	}
	_, ok := g.packages[name]
	return ok
}

// Package returns the named package, if it is present in the Graph.
func (g *Graph) Package(name string) (Package, bool) {
	if g == nil {
		return Package{}, false
	}
	p, ok := g.packages[name]
	return p, ok
}

// Nodes returns a slice of the names of all packages in the Graph, sorted alphabetically.
func (g *Graph) Nodes() []string {
	if g == nil {
		return nil
	}
	nodes := lo.Keys(g.packages)

	// sort for deterministic output
	sort.Strings(nodes)
	return nodes
}

// DependenciesOf returns the build dependencies of the given package that are
// part of the Graph, sorted alphabetically.
func (g *Graph) DependenciesOf(name string) []string {
	p, ok := g.Package(name)
	if !ok {
		return nil
	}
	deps := lo.Filter(p.BuildRequires, func(dep string, _ int) bool {
		return g.Has(dep)
	})
	if len(deps) == 0 {
		return nil
	}
	return deps
}

// External returns the sorted names of every build or runtime dependency that
// is referenced by a package in the Graph but is not itself in the Graph.
func (g *Graph) External() []string {
	var external []string
	for _, name := range g.Nodes() {
		p := g.packages[name]
		for _, dep := range append(append([]string{}, p.Requires...), p.BuildRequires...) {
			if !g.Has(dep) {
				external = append(external, dep)
			}
		}
	}
	return normalize(external)
}
