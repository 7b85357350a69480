package core

import "strings"

// shortestSeedPath returns the shortest path from any seed to the target
// node, memoized per (seed set, target). A missing path is a soft miss and
// yields nil; retrieval never fails over it.
func (e *Engine) shortestSeedPath(seeds []string, target string) []string {
	key := strings.Join(sortedCopy(seeds), ",") + "->" + target
	if path, ok := e.pathCache.Get(key); ok {
		return path
	}
	path := e.bfsFromSeeds(seeds, target)
	e.pathCache.Put(key, path)
	return path
}

// bfsFromSeeds runs a multi-source BFS over undirected adjacency and
// reconstructs the node ID path from the first seed that reaches the target.
func (e *Engine) bfsFromSeeds(seeds []string, target string) []string {
	if len(seeds) == 0 {
		return nil
	}
	for _, s := range seeds {
		if s == target {
			return []string{target}
		}
	}

	parent := make(map[string]string, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := parent[s]; ok {
			continue
		}
		parent[s] = "" // root marker
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, nb := range e.graph.Neighbors(current) {
			if _, seen := parent[nb.ID]; seen {
				continue
			}
			parent[nb.ID] = current
			if nb.ID == target {
				return reconstructPath(parent, target)
			}
			queue = append(queue, nb.ID)
		}
	}
	return nil
}

// reconstructPath walks parent pointers from target back to its seed root.
func reconstructPath(parent map[string]string, target string) []string {
	var reversed []string
	for at := target; at != ""; at = parent[at] {
		reversed = append(reversed, at)
	}
	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}
