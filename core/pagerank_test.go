package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/schema"
)

// chainGraph builds a.go -> b.go -> c.go with uniform import edges.
func chainGraph() *CodeGraph {
	g := NewCodeGraph()
	for _, p := range []string{"a.go", "b.go", "c.go"} {
		g.AddNode(p, &schema.CodeNode{ID: schema.NodeID(p), Type: schema.FileNode})
	}
	g.AddEdge(schema.NodeID("a.go"), schema.NodeID("b.go"), schema.ImportsRel, 0.8)
	g.AddEdge(schema.NodeID("b.go"), schema.NodeID("c.go"), schema.ImportsRel, 0.8)
	return g
}

func TestPageRankConverges(t *testing.T) {
	g := chainGraph()

	scores, err := pageRank(g, schema.PageRankDamping, schema.PageRankMaxIter, schema.PageRankTolerance)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	var sum float64
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-3, "Rank mass is conserved")

	// Link targets accumulate rank: c receives from b, b from a, a only the
	// teleport share.
	assert.Greater(t, scores[schema.NodeID("c.go")], scores[schema.NodeID("a.go")])
	assert.Greater(t, scores[schema.NodeID("b.go")], scores[schema.NodeID("a.go")])
}

func TestPageRankEmptyGraph(t *testing.T) {
	scores, err := pageRank(NewCodeGraph(), schema.PageRankDamping, schema.PageRankMaxIter, schema.PageRankTolerance)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestPageRankIterationCap(t *testing.T) {
	g := chainGraph()

	// A zero-iteration budget can never converge.
	_, err := pageRank(g, schema.PageRankDamping, 0, schema.PageRankTolerance)
	assert.ErrorIs(t, err, errNoConvergence)
}

func TestDegreeCentrality(t *testing.T) {
	g := NewCodeGraph()
	g.AddNode("only.go", &schema.CodeNode{ID: schema.NodeID("only.go"), Type: schema.FileNode})
	scores := degreeCentrality(g)
	assert.InDelta(t, 1.0, scores[schema.NodeID("only.go")], 1e-9, "Single node gets importance 1")

	// Star: hub connects to three leaves, degree 3 over n-1 = 3.
	g = NewCodeGraph()
	hub := schema.NodeID("hub.go")
	g.AddNode("hub.go", &schema.CodeNode{ID: hub, Type: schema.FileNode})
	for i := 0; i < 3; i++ {
		p := fmt.Sprintf("leaf%d.go", i)
		g.AddNode(p, &schema.CodeNode{ID: schema.NodeID(p), Type: schema.FileNode})
		g.AddEdge(hub, schema.NodeID(p), schema.ImportsRel, 0.8)
	}
	scores = degreeCentrality(g)
	assert.InDelta(t, 1.0, scores[hub], 1e-9)
	assert.InDelta(t, 1.0/3.0, scores[schema.NodeID("leaf0.go")], 1e-9)
}

func TestComputeImportanceClampsToUnitRange(t *testing.T) {
	g := BuildGraph(testSnapshot())
	for _, id := range g.NodeIDs() {
		imp := g.Node(id).Importance
		assert.GreaterOrEqual(t, imp, 0.0)
		assert.LessOrEqual(t, imp, 1.0)
	}
}
