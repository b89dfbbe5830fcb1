package kg

import (
	"fmt"

	"healthmate-be/internal/entity"
)

// Edge is one relation-labeled arc subject -> object.
type Edge struct {
	Subject  string
	Relation string
	Object   string
}

// Graph is a directed multigraph built from a matched-triple set. Duplicate
// subject/object pairs with different relations are both retained. Iteration
// order is insertion order; the graph is a rendering structure, not a
// queryable index.
type Graph struct {
	nodeOrder []string
	nodes     map[string]bool
	edges     []Edge
}

// BuildGraph converts triples into a graph, one edge per triple.
func BuildGraph(triples []entity.Triple) *Graph {
	g := &Graph{nodes: make(map[string]bool)}
	for _, t := range triples {
		g.addNode(t.Subject)
		g.addNode(t.Object)
		g.edges = append(g.edges, Edge{Subject: t.Subject, Relation: t.Relation, Object: t.Object})
	}
	return g
}

func (g *Graph) addNode(name string) {
	if !g.nodes[name] {
		g.nodes[name] = true
		g.nodeOrder = append(g.nodeOrder, name)
	}
}

// Nodes returns the node names in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodeOrder
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// RenderEdgeList flattens the graph into "subject -[relation]-> object"
// lines, used as a bounded textual context block for answer composition.
func RenderEdgeList(g *Graph) []string {
	lines := make([]string, 0, len(g.edges))
	for _, e := range g.edges {
		lines = append(lines, fmt.Sprintf("%s -[%s]-> %s", e.Subject, e.Relation, e.Object))
	}
	return lines
}
