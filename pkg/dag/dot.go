package dag

import "github.com/tmc/dot"

// Dot renders the build dependencies of g as a graphviz digraph. Every build
// dependency becomes an edge, including dependencies on external packages.
// Packages without build dependencies appear as lone nodes.
func Dot(g *Graph) string {
	out := dot.NewGraph("dependencies")
	out.SetType(dot.DIGRAPH)

	for _, name := range g.Nodes() {
		n := dot.NewNode(name)
		out.AddNode(n)

		for _, dependency := range g.packages[name].BuildRequires {
			d := dot.NewNode(dependency)
			out.AddNode(d)
			out.AddEdge(dot.NewEdge(n, d))
		}
	}

	return out.String()
}
