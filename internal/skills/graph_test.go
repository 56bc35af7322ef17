package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labor-platform/internal/models"
)

func TestGraph_AddNodeKeepsFirstAttributes(t *testing.T) {
	g := NewGraph()

	g.AddNode(models.Skill{ID: "sql", Name: "SQL", Category: "data"})
	g.AddNode(models.Skill{ID: "sql", Name: "Structured Query Language"})

	node, ok := g.Node("sql")
	assert.True(t, ok)
	assert.Equal(t, "SQL", node.Name)
	assert.Equal(t, "data", node.Category)
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraph_IncrementEdge(t *testing.T) {
	g := NewGraph()

	g.IncrementEdge("sql", "python")
	assert.Equal(t, 1, g.Weight("sql", "python"))
	assert.Equal(t, 1, g.Weight("python", "sql"))
	assert.Equal(t, 1, g.EdgeCount())

	g.IncrementEdge("python", "sql")
	assert.Equal(t, 2, g.Weight("sql", "python"))
	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraph_SelfLoopIgnored(t *testing.T) {
	g := NewGraph()

	g.IncrementEdge("sql", "sql")

	assert.Equal(t, 0, g.Weight("sql", "sql"))
	assert.Equal(t, 0, g.EdgeCount())
}

func TestGraph_Neighbors(t *testing.T) {
	g := NewGraph()

	g.IncrementEdge("sql", "python")
	g.IncrementEdge("sql", "excel")
	g.IncrementEdge("sql", "python")

	assert.Equal(t, map[string]int{"python": 2, "excel": 1}, g.Neighbors("sql"))
	assert.Empty(t, g.Neighbors("spark"))
}
