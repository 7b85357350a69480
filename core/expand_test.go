package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/schema"
)

func TestAdmissionLimit(t *testing.T) {
	assert.Zero(t, admissionLimit(0))
	assert.Zero(t, admissionLimit(-1))
	assert.Equal(t, 10, admissionLimit(1), "ceil(log2(2) * 10)")
	assert.Equal(t, 20, admissionLimit(3), "ceil(log2(4) * 10)")
	assert.Equal(t, 30, admissionLimit(7), "ceil(log2(8) * 10)")
}

func TestExpandOneHop(t *testing.T) {
	e := newTestEngine()
	workerID, _ := e.graph.ResolvePath("internal/worker.go")
	runID, _ := e.graph.ResolvePath("internal/worker.go::Run")
	poolID, _ := e.graph.ResolvePath("internal/pool.go")
	apiID, _ := e.graph.ResolvePath("internal/api.go")

	visited := e.expand(&schema.Query{}, []string{workerID}, 1)

	require.NotEmpty(t, visited)
	assert.Equal(t, workerID, visited[0], "Seeds come first in visit order")
	assert.Contains(t, visited, runID)
	assert.Contains(t, visited, poolID)
	assert.NotContains(t, visited, apiID, "Disconnected node stays unexplored")
}

func TestExpandZeroHopsKeepsSeedsOnly(t *testing.T) {
	e := newTestEngine()
	workerID, _ := e.graph.ResolvePath("internal/worker.go")

	visited := e.expand(&schema.Query{}, []string{workerID, workerID}, 0)
	assert.Equal(t, []string{workerID}, visited, "Duplicate seeds collapse, no hops taken")
}

func TestExpandNeverRevisits(t *testing.T) {
	e := newTestEngine()
	workerID, _ := e.graph.ResolvePath("internal/worker.go")

	visited := e.expand(&schema.Query{}, []string{workerID}, 3)
	seen := make(map[string]int)
	for _, id := range visited {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "node %s visited more than once", id)
	}
}
