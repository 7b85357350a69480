package core

import (
	"errors"
	"math"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// ComputeImportance assigns each node an importance score via weighted
// PageRank power iteration. If the iteration cap is exhausted without
// convergence, or the graph shape defeats PageRank, it falls back to
// normalized degree centrality and logs the transition. Callers still get
// importance values either way.
func ComputeImportance(g *CodeGraph) {
	scores, err := pageRank(g, schema.PageRankDamping, schema.PageRankMaxIter, schema.PageRankTolerance)
	if err != nil {
		contract.LogWarn("PageRank did not converge, using degree centrality", err)
		scores = degreeCentrality(g)
	}
	for id, s := range scores {
		// Parallel edges can push degree centrality past 1; importance is
		// contractually within [0,1].
		g.nodes[id].Importance = math.Min(math.Max(s, 0), 1)
	}
}

// errNoConvergence signals iteration cap exhaustion.
var errNoConvergence = errors.New("iteration cap exhausted")

// pageRank runs weighted power iteration over the directed graph. Dangling
// node mass is redistributed uniformly each step.
func pageRank(g *CodeGraph, damping float64, maxIter int, tol float64) (map[string]float64, error) {
	n := g.NodeCount()
	if n == 0 {
		return map[string]float64{}, nil
	}

	ids := g.NodeIDs()
	rank := make(map[string]float64, n)
	for _, id := range ids {
		rank[id] = 1.0 / float64(n)
	}

	// Precompute total outgoing weight per node.
	outWeight := make(map[string]float64, n)
	for _, id := range ids {
		var total float64
		for _, e := range g.out[id] {
			total += e.Weight
		}
		outWeight[id] = total
	}

	base := (1.0 - damping) / float64(n)
	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, n)

		// Mass from dangling nodes is shared evenly.
		var danglingMass float64
		for _, id := range ids {
			if outWeight[id] == 0 {
				danglingMass += rank[id]
			}
		}

		for _, id := range ids {
			next[id] = base + damping*danglingMass/float64(n)
		}
		for _, id := range ids {
			if outWeight[id] == 0 {
				continue
			}
			share := damping * rank[id] / outWeight[id]
			for _, e := range g.out[id] {
				next[e.Target] += share * e.Weight
			}
		}

		var delta float64
		for _, id := range ids {
			delta += math.Abs(next[id] - rank[id])
			if math.IsNaN(next[id]) || math.IsInf(next[id], 0) {
				return nil, errors.New("numeric instability in power iteration")
			}
		}
		rank = next
		if delta < tol {
			return rank, nil
		}
	}
	return nil, errNoConvergence
}

// degreeCentrality computes degree/(n-1) per node, the standard normalized
// form. A single-node graph gets importance 1.
func degreeCentrality(g *CodeGraph) map[string]float64 {
	n := g.NodeCount()
	scores := make(map[string]float64, n)
	if n == 0 {
		return scores
	}
	if n == 1 {
		for _, id := range g.NodeIDs() {
			scores[id] = 1.0
		}
		return scores
	}
	for _, id := range g.NodeIDs() {
		degree := len(g.out[id]) + len(g.in[id])
		scores[id] = float64(degree) / float64(n-1)
	}
	return scores
}
