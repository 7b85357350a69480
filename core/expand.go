package core

import (
	"container/heap"
	"math"

	"github.com/bugtrail/bugtrail/schema"
)

// candidate is a scored node awaiting admission to the next frontier.
type candidate struct {
	id    string
	score float64
}

// candidateHeap is a max-heap over candidate scores with a deterministic
// ID tie-break.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].id < h[j].id
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// admissionLimit bounds each hop's admitted frontier to
// ceil(log2(candidates+1) * AdmissionFactor). This logarithmic admission rule
// is what keeps exploration growth sub-linear in graph size.
func admissionLimit(candidates int) int {
	if candidates <= 0 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(candidates)+1) * schema.AdmissionFactor))
}

// expand performs bounded k-hop frontier expansion from the seed nodes and
// returns the union of all visited node IDs. Each hop scores every unvisited
// neighbor of the frontier by edge weight, importance, keyword matches and
// temporal recency, decayed by hop distance, then admits only the best
// candidates under the logarithmic limit.
func (e *Engine) expand(query *schema.Query, seeds []string, k int) []string {
	keywords := query.Keywords()

	visited := make(map[string]struct{}, len(seeds))
	var order []string
	for _, s := range seeds {
		if _, ok := visited[s]; ok {
			continue
		}
		visited[s] = struct{}{}
		order = append(order, s)
	}

	frontier := append([]string(nil), order...)
	for hop := 1; hop <= k && len(frontier) > 0; hop++ {
		decay := math.Pow(schema.HopDecay, float64(hop))

		h := &candidateHeap{}
		staged := make(map[string]struct{})
		for _, id := range frontier {
			for _, nb := range e.graph.Neighbors(id) {
				if _, ok := visited[nb.ID]; ok {
					continue
				}
				if _, ok := staged[nb.ID]; ok {
					continue
				}
				staged[nb.ID] = struct{}{}
				node := e.graph.Node(nb.ID)
				score := nb.Weight +
					2*node.Importance +
					3*float64(keywordMatches(keywords, node.Content)) +
					node.TemporalWeight
				heap.Push(h, candidate{id: nb.ID, score: score * decay})
			}
		}

		limit := admissionLimit(h.Len())
		next := make([]string, 0, limit)
		for i := 0; i < limit && h.Len() > 0; i++ {
			c := heap.Pop(h).(candidate)
			visited[c.id] = struct{}{}
			order = append(order, c.id)
			next = append(next, c.id)
		}
		frontier = next
	}

	return order
}
