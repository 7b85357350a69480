package core

import (
	"sort"
	"strings"

	"github.com/bugtrail/bugtrail/schema"
)

// scoredNode pairs a visited node with its final relevance score.
type scoredNode struct {
	id    string
	score float64
}

// rank rescales the explored set for final ordering: node type weight,
// importance, an exact error-message substring match, and a category-tag
// match. Sorted descending with a deterministic ID tie-break.
func (e *Engine) rank(query *schema.Query, visited []string) []scoredNode {
	errMsg := strings.ToLower(query.ErrorMessage)
	catTokens := categoryTokens(query.Category)

	ranked := make([]scoredNode, 0, len(visited))
	for _, id := range visited {
		node := e.graph.Node(id)
		content := strings.ToLower(node.Content)

		score := schema.TypeWeight(node.Type) + 2*node.Importance
		if errMsg != "" && strings.Contains(content, errMsg) {
			score += 5
		}
		if len(catTokens) > 0 && keywordMatches(catTokens, node.Content) > 0 {
			score += 3
		}
		ranked = append(ranked, scoredNode{id: id, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	return ranked
}

// extractContext greedily packs ranked nodes into the token budget using the
// len(content)/4 token heuristic, attaching the memoized shortest seed path
// to each admitted node. Packing stops at the first node that does not fit.
func (e *Engine) extractContext(query *schema.Query, seeds []string, ranked []scoredNode) []schema.ContextItem {
	budget := query.MaxTokens
	if budget <= 0 {
		budget = e.opts.MaxTokens
	}

	items := make([]schema.ContextItem, 0, len(ranked))
	used := 0
	for _, sn := range ranked {
		node := e.graph.Node(sn.id)
		tokens := len(node.Content) / schema.CharsPerToken
		if used+tokens > budget {
			break
		}
		used += tokens

		items = append(items, schema.ContextItem{
			NodeID:         node.ID,
			Type:           node.Type,
			Content:        node.Content,
			RelevanceScore: sn.score,
			Metadata:       node.Metadata,
			RetrievalPath:  e.shortestSeedPath(seeds, node.ID),
		})
	}
	return items
}

// precisionScoreThreshold marks context items counted as "relevant" by the
// precision heuristic. Chosen so that importance alone does not cross it; an
// error-message or category match does.
const precisionScoreThreshold = 3.0

// expectedFileCounts is the category-keyed expected-file-count table backing
// the recall heuristic.
var expectedFileCounts = map[schema.BugCategory]int{
	schema.ConcurrencyIssues: 6,
	schema.CrossCategory:     8,
	schema.MemoryIssues:      5,
	schema.PerformanceBugs:   5,
	schema.LogicErrors:       4,
	schema.APIMisuse:         4,
}

// defaultExpectedFiles applies when the category is absent from the table.
const defaultExpectedFiles = 5

// estimateQuality computes precision and recall estimates for a retrieval.
// Both are heuristics, not ground truth: precision counts items above a score
// threshold; recall compares context size to an expected file count, taken
// from the query's expected_files when present, else the category table.
func estimateQuality(query *schema.Query, context []schema.ContextItem) (precision, recall float64) {
	if len(context) == 0 {
		return 0, 0
	}

	relevant := 0
	for _, item := range context {
		if item.RelevanceScore >= precisionScoreThreshold {
			relevant++
		}
	}
	precision = float64(relevant) / float64(len(context))

	expected := defaultExpectedFiles
	if len(query.ExpectedFiles) > 0 {
		expected = len(query.ExpectedFiles)
	} else if n, ok := expectedFileCounts[query.Category]; ok {
		expected = n
	}
	recall = float64(len(context)) / float64(expected)
	if recall > 1 {
		recall = 1
	}
	return precision, recall
}
