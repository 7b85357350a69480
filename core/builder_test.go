package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/schema"
)

// testSnapshot returns a small codebase with one function, one declared
// dependency, one dangling dependency and a co-modified file pair.
func testSnapshot() *schema.CodebaseSnapshot {
	return &schema.CodebaseSnapshot{
		Files: map[string]schema.FileEntry{
			"internal/worker.go": {
				Content:  "package worker\n\nfunc Run() { mutex.Lock() }\n",
				LOC:      3,
				Language: "go",
				Functions: map[string]schema.FunctionEntry{
					"Run": {Content: "func Run() { mutex.Lock() }", Complexity: 2},
				},
			},
			"internal/pool.go": {
				Content:  "package pool\n\nvar queue chan int\n",
				LOC:      3,
				Language: "go",
			},
			"internal/api.go": {
				Content:  "package api\n",
				LOC:      1,
				Language: "go",
			},
		},
		Dependencies: map[string]map[string]schema.Relationship{
			"internal/worker.go": {
				"internal/pool.go": schema.ImportsRel,
				"missing.go":       schema.ImportsRel,
			},
		},
		History: schema.CommitHistory{Commits: []schema.Commit{
			{Hash: "c1", Files: []string{"internal/worker.go", "internal/pool.go"}},
			{Hash: "c2", Files: []string{"internal/worker.go", "internal/pool.go"}},
			{Hash: "c3", Files: []string{"internal/worker.go"}},
		}},
	}
}

func TestBuildGraphNodesAndEdges(t *testing.T) {
	g := BuildGraph(testSnapshot())

	stats := g.Stats()
	assert.Equal(t, 4, stats.Nodes, "Three files plus one function")
	assert.Equal(t, 3, stats.FileNodes)
	assert.Equal(t, 1, stats.FuncNodes)

	// contains + imports + one deduplicated co_modified; the dangling
	// dependency on missing.go drops silently.
	assert.Equal(t, 3, stats.Edges)

	workerID, ok := g.ResolvePath("internal/worker.go")
	require.True(t, ok)
	runID, ok := g.ResolvePath("internal/worker.go::Run")
	require.True(t, ok)
	_, ok = g.ResolvePath("missing.go")
	assert.False(t, ok)

	worker := g.Node(workerID)
	require.NotNil(t, worker)
	assert.Equal(t, schema.FileNode, worker.Type)
	assert.Equal(t, "internal/worker.go", worker.Metadata["path"])

	run := g.Node(runID)
	require.NotNil(t, run)
	assert.Equal(t, schema.FunctionNode, run.Type)
	assert.Equal(t, "Run", run.Metadata["name"])
}

func TestBuildGraphCoModifiedDedup(t *testing.T) {
	g := BuildGraph(testSnapshot())

	workerID, _ := g.ResolvePath("internal/worker.go")
	poolID, _ := g.ResolvePath("internal/pool.go")

	// Two commits touch the worker/pool pair; only one co_modified edge
	// survives dedup.
	count := 0
	for _, nb := range g.Neighbors(workerID) {
		if nb.ID == poolID && nb.Relationship == schema.CoModifiedRel {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildGraphTemporalWeights(t *testing.T) {
	g := BuildGraph(testSnapshot())

	workerID, _ := g.ResolvePath("internal/worker.go")
	poolID, _ := g.ResolvePath("internal/pool.go")
	apiID, _ := g.ResolvePath("internal/api.go")

	assert.InDelta(t, 1.0, g.Node(workerID).TemporalWeight, 1e-9, "Most touched file normalizes to 1")
	assert.InDelta(t, 2.0/3.0, g.Node(poolID).TemporalWeight, 1e-9)
	assert.Zero(t, g.Node(apiID).TemporalWeight, "File absent from history gets zero")
}

func TestBuildGraphDeterministic(t *testing.T) {
	first := BuildGraph(testSnapshot())
	second := BuildGraph(testSnapshot())

	require.Equal(t, first.NodeIDs(), second.NodeIDs())
	assert.Equal(t, first.Stats(), second.Stats())
	for _, id := range first.NodeIDs() {
		assert.InDelta(t, first.Node(id).Importance, second.Node(id).Importance, 1e-12,
			"Rebuilding from identical input must yield identical importance")
	}
}

func TestTemporalWeight(t *testing.T) {
	assert.Zero(t, temporalWeight(0, 10))
	assert.Zero(t, temporalWeight(5, 0))
	assert.InDelta(t, 0.5, temporalWeight(5, 10), 1e-9)
	assert.InDelta(t, 1.0, temporalWeight(10, 10), 1e-9)
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	g := NewCodeGraph()
	g.AddNode("a.go", &schema.CodeNode{ID: schema.NodeID("a.go"), Type: schema.FileNode})

	ok := g.AddEdge(schema.NodeID("a.go"), schema.NodeID("b.go"), schema.ImportsRel, 0.8)
	assert.False(t, ok, "Dangling target must be dropped")
	assert.Zero(t, g.EdgeCount())
}
