// Package core holds the code graph builder and the adaptive retrieval engine.
package core

import (
	"sort"

	"github.com/bugtrail/bugtrail/schema"
)

// CodeGraph is a directed graph of code entities with typed, weighted edges.
// A build replaces the whole graph; there is no incremental update path.
type CodeGraph struct {
	nodes map[string]*schema.CodeNode
	out   map[string][]schema.Edge
	in    map[string][]schema.Edge

	// pathIndex maps logical paths (file paths, "path::func") to node IDs so
	// queries can resolve seeds without hashing on the caller side.
	pathIndex map[string]string

	edgeCount int
}

// NewCodeGraph returns an empty graph.
func NewCodeGraph() *CodeGraph {
	return &CodeGraph{
		nodes:     make(map[string]*schema.CodeNode),
		out:       make(map[string][]schema.Edge),
		in:        make(map[string][]schema.Edge),
		pathIndex: make(map[string]string),
	}
}

// AddNode inserts a node and registers its logical path for seed resolution.
func (g *CodeGraph) AddNode(logicalPath string, node *schema.CodeNode) {
	g.nodes[node.ID] = node
	g.pathIndex[logicalPath] = node.ID
}

// AddEdge inserts an edge only when both endpoints already exist as nodes.
// Dangling references are silently dropped; callers get no signal because the
// ingestion contract treats them as soft data loss.
func (g *CodeGraph) AddEdge(source, target string, rel schema.Relationship, weight float64) bool {
	if _, ok := g.nodes[source]; !ok {
		return false
	}
	if _, ok := g.nodes[target]; !ok {
		return false
	}
	e := schema.Edge{Source: source, Target: target, Relationship: rel, Weight: weight}
	g.out[source] = append(g.out[source], e)
	g.in[target] = append(g.in[target], e)
	g.edgeCount++
	return true
}

// Node returns the node with the given ID, or nil.
func (g *CodeGraph) Node(id string) *schema.CodeNode {
	return g.nodes[id]
}

// ResolvePath maps a logical path to a node ID.
func (g *CodeGraph) ResolvePath(logicalPath string) (string, bool) {
	id, ok := g.pathIndex[logicalPath]
	return id, ok
}

// NodeCount returns the number of nodes.
func (g *CodeGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *CodeGraph) EdgeCount() int {
	return g.edgeCount
}

// NodeIDs returns all node IDs in sorted order for deterministic iteration.
func (g *CodeGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Neighbors returns each adjacent node paired with the connecting edge weight,
// treating edges as traversable in both directions. Expansion follows callers
// and callees alike: a bug in a caller is as likely to surface in its callee.
func (g *CodeGraph) Neighbors(id string) []Neighbor {
	edges := g.out[id]
	back := g.in[id]
	out := make([]Neighbor, 0, len(edges)+len(back))
	for _, e := range edges {
		out = append(out, Neighbor{ID: e.Target, Weight: e.Weight, Relationship: e.Relationship})
	}
	for _, e := range back {
		out = append(out, Neighbor{ID: e.Source, Weight: e.Weight, Relationship: e.Relationship})
	}
	return out
}

// Neighbor pairs an adjacent node ID with the weight of the connecting edge.
type Neighbor struct {
	ID           string
	Weight       float64
	Relationship schema.Relationship
}

// Stats summarizes the graph for status output.
func (g *CodeGraph) Stats() schema.GraphStats {
	s := schema.GraphStats{Nodes: len(g.nodes), Edges: g.edgeCount}
	for _, n := range g.nodes {
		switch n.Type {
		case schema.FileNode:
			s.FileNodes++
		case schema.FunctionNode:
			s.FuncNodes++
		}
	}
	return s
}
