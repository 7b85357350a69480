package core

import (
	"sort"
	"strings"
	"time"

	"github.com/bugtrail/bugtrail/internal/lru"
	"github.com/bugtrail/bugtrail/schema"
)

// EngineOptions tunes the retrieval engine.
type EngineOptions struct {
	MaxK         int // Upper bound on adaptive expansion depth
	MaxTokens    int // Default context token budget
	CacheEntries int // Capacity of the shortest-path memo cache
}

// DefaultEngineOptions returns the stock tunables.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		MaxK:         schema.DefaultMaxK,
		MaxTokens:    schema.DefaultMaxTokens,
		CacheEntries: 1024,
	}
}

// Engine performs adaptive graph-guided retrieval over a built code graph.
//
// The engine is synchronous and single-threaded: a retrieval call runs
// entirely on the calling goroutine. Concurrent callers must serialize
// externally (one engine per goroutine, or a mutex around calls) because the
// internal path cache is not synchronized.
type Engine struct {
	graph     *CodeGraph
	opts      EngineOptions
	pathCache *lru.Cache[string, []string]
}

// NewEngine wraps a built graph with retrieval state.
func NewEngine(graph *CodeGraph, opts EngineOptions) *Engine {
	if opts.MaxK <= 0 {
		opts.MaxK = schema.DefaultMaxK
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = schema.DefaultMaxTokens
	}
	return &Engine{
		graph:     graph,
		opts:      opts,
		pathCache: lru.New[string, []string](opts.CacheEntries),
	}
}

// ReplaceGraph swaps in a freshly built graph and drops memoized paths.
func (e *Engine) ReplaceGraph(graph *CodeGraph) {
	e.graph = graph
	e.pathCache.Purge()
}

// RetrieveContext runs the full retrieval pipeline for a query. kOverride > 0
// bypasses adaptive depth selection. A query that resolves no seed nodes
// yields StatusNoStartNodes with an empty context; that is a normal outcome,
// never an error.
func (e *Engine) RetrieveContext(query *schema.Query, kOverride int) *schema.RetrievalResult {
	start := time.Now()

	seeds := e.identifySeeds(query)
	if len(seeds) == 0 {
		return &schema.RetrievalResult{
			Status:        schema.StatusNoStartNodes,
			Context:       []schema.ContextItem{},
			RetrievalTime: time.Since(start),
		}
	}

	k := kOverride
	if k <= 0 {
		k = e.adaptiveDepth(query, len(seeds))
	}

	visited := e.expand(query, seeds, k)
	ranked := e.rank(query, visited)
	context := e.extractContext(query, seeds, ranked)

	precision, recall := estimateQuality(query, context)

	return &schema.RetrievalResult{
		Status:            schema.StatusSuccess,
		Context:           context,
		NodesExplored:     len(visited),
		KValue:            k,
		RetrievalTime:     time.Since(start),
		PrecisionEstimate: precision,
		RecallEstimate:    recall,
	}
}

// identifySeeds resolves the query's error location hints to node IDs.
// The preferred path maps error_file and stack_trace_files through the path
// index. When nothing resolves, it falls back to an O(|V|) keyword scan over
// node content capped at MaxKeywordSeeds matches -- the rare, expensive path,
// only taken for queries with no usable location hints.
func (e *Engine) identifySeeds(query *schema.Query) []string {
	var seeds []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		seeds = append(seeds, id)
	}

	if query.ErrorFile != "" {
		if id, ok := e.graph.ResolvePath(query.ErrorFile); ok {
			add(id)
		}
	}
	for _, f := range query.StackTraceFiles {
		if id, ok := e.graph.ResolvePath(f); ok {
			add(id)
		}
	}
	if len(seeds) > 0 {
		return seeds
	}

	keywords := query.Keywords()
	if len(keywords) == 0 {
		return nil
	}
	for _, id := range e.graph.NodeIDs() {
		node := e.graph.Node(id)
		content := strings.ToLower(node.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				add(id)
				break
			}
		}
		if len(seeds) >= schema.MaxKeywordSeeds {
			break
		}
	}
	return seeds
}

// adaptiveDepth picks the expansion depth k from query characteristics.
// It is a deterministic function, not learned.
func (e *Engine) adaptiveDepth(query *schema.Query, seedCount int) int {
	k := schema.BaseDepth
	switch query.Category {
	case schema.ConcurrencyIssues, schema.CrossCategory:
		k += 2
	case schema.MemoryIssues, schema.PerformanceBugs:
		k++
	}
	if seedCount > 3 {
		k++
	}
	if query.TemporalSpreadDays > 30 {
		k++
	}
	if k > e.opts.MaxK {
		k = e.opts.MaxK
	}
	return k
}

// keywordMatches counts how many distinct query keywords occur in content.
func keywordMatches(keywords []string, content string) int {
	if len(keywords) == 0 || content == "" {
		return 0
	}
	lower := strings.ToLower(content)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// categoryTokens derives matchable words from a category tag, dropping the
// generic suffixes ("issues", "bugs", "errors").
func categoryTokens(category schema.BugCategory) []string {
	if category == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(string(category), "_") {
		switch tok {
		case "issues", "bugs", "errors", "":
			continue
		}
		out = append(out, tok)
	}
	return out
}

// sortedCopy returns a sorted copy used for deterministic cache keys.
func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
