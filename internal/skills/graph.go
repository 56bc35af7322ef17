// Package skills implements the skill co-occurrence graph and the
// job-transition matcher built on top of it.
package skills

import "labor-platform/internal/models"

// Graph is an undirected weighted graph of skill IDs. Two skills are
// connected when they co-occur in the required-skill set of the same job;
// the edge weight is the co-occurrence count across all profile adds.
// The graph only grows: there is no node or edge removal.
type Graph struct {
	nodes map[string]models.Skill
	edges map[string]map[string]int
}

// NewGraph creates an empty skill graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]models.Skill),
		edges: make(map[string]map[string]int),
	}
}

// AddNode inserts a skill node if absent, copying the skill attributes at
// insertion time. Later updates to the Skill are not reflected in the
// stored attributes.
func (g *Graph) AddNode(skill models.Skill) {
	if g.HasNode(skill.ID) {
		return
	}
	g.nodes[skill.ID] = skill
}

// HasNode reports whether the skill ID is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the attributes copied when the skill was first inserted.
func (g *Graph) Node(id string) (models.Skill, bool) {
	s, ok := g.nodes[id]
	return s, ok
}

// IncrementEdge bumps the undirected edge weight between two skills by
// one, creating the edge at weight 1 if absent. Self loops are ignored.
func (g *Graph) IncrementEdge(a, b string) {
	if a == b {
		return
	}
	g.bump(a, b)
	g.bump(b, a)
}

func (g *Graph) bump(from, to string) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]int)
	}
	g.edges[from][to]++
}

// Weight returns the co-occurrence count between two skills, 0 if they
// have never co-occurred.
func (g *Graph) Weight(a, b string) int {
	return g.edges[a][b]
}

// Neighbors returns the skills adjacent to id with their edge weights.
func (g *Graph) Neighbors(id string) map[string]int {
	adj := g.edges[id]
	out := make(map[string]int, len(adj))
	for k, v := range adj {
		out[k] = v
	}
	return out
}

// NodeCount returns the number of skill nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, adj := range g.edges {
		total += len(adj)
	}
	return total / 2
}
