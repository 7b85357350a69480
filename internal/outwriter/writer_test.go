package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

func sampleResult() *schema.RetrievalResult {
	return &schema.RetrievalResult{
		Status: schema.StatusSuccess,
		Context: []schema.ContextItem{
			{
				NodeID:         "abcd1234",
				Type:           schema.FileNode,
				Content:        strings.Repeat("x", 400),
				RelevanceScore: 3.2,
				Metadata:       map[string]any{"path": "internal/worker.go"},
				RetrievalPath:  []string{"seed", "abcd1234"},
			},
			{
				NodeID:         "ef567890",
				Type:           schema.FunctionNode,
				Content:        strings.Repeat("y", 100),
				RelevanceScore: 2.1,
			},
		},
		NodesExplored:     12,
		KValue:            3,
		PrecisionEstimate: 0.5,
		RecallEstimate:    0.4,
	}
}

func sampleMatches() []schema.PatternMatch {
	return []schema.PatternMatch{
		{
			Pattern: schema.BugPattern{
				PatternID:   "p1",
				Category:    schema.ConcurrencyIssues,
				Fixes:       []string{"release mutex in worker.go"},
				Frequency:   4,
				SuccessRate: 0.9,
				AvgFixTime:  120,
				LastSeen:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			},
			Similarity: 0.82,
		},
	}
}

func testConfig() *contract.Config {
	return &contract.Config{Precision: 2, Width: 120, Output: schema.TextOut}
}

func TestWriteRetrievalTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	err := writeRetrievalTable(sampleResult(), testConfig(), fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "internal/worker.go")
	assert.Contains(t, out, "ef567890") // No path metadata, falls back to ID
	assert.Contains(t, out, "Retrieved 2 items")
	assert.Contains(t, out, "k=3")
}

func TestWriteRetrievalTableNoStartNodes(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	result := &schema.RetrievalResult{Status: schema.StatusNoStartNodes}
	err := writeRetrievalTable(result, testConfig(), fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No start nodes")
}

func TestWriteRetrievalCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)

	err := writeRetrievalCSV(&buf, sampleResult(), fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows
	assert.Contains(t, lines[0], "node_id")
	assert.Contains(t, lines[1], "internal/worker.go")
	assert.Contains(t, lines[1], "100") // 400 chars -> 100 tokens
}

func TestWriteMatchesJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeMatchesJSON(&buf, sampleMatches())
	require.NoError(t, err)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 1)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, contract.GoodValue, result[0]["label"])
	assert.Equal(t, 0.82, result[0]["similarity"])
}

func TestWriteMatchesTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	err := writeMatchesTable(sampleMatches(), testConfig(), fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "concurrency_issues")
	assert.Contains(t, out, contract.GoodValue)
	assert.Contains(t, out, "Showing 1 matches")
}

func TestWriteMatchesTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	err := writeMatchesTable(nil, testConfig(), fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No similar patterns")
}

func TestWriteInsightsText(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	insights := &schema.RepositoryInsights{
		Memory: &schema.RepositoryMemory{
			RepoID: "acme/payments",
			CommonBugs: map[schema.BugCategory]int{
				schema.ConcurrencyIssues: 3,
				schema.LogicErrors:       1,
			},
			LastUpdated: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Rolling: schema.RollingMetrics{SessionCount: 4, SuccessRate: 0.75, AvgDuration: 150, AvgIterations: 2.5},
		Patterns: []schema.BugPattern{
			{PatternID: "p1", Category: schema.ConcurrencyIssues, Frequency: 3, SuccessRate: 1, AvgFixTime: 200},
		},
	}

	err := writeInsightsText("acme/payments", insights, fmtFloat, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Repository: acme/payments")
	assert.Contains(t, out, "4 sessions")
	// Highest count first.
	assert.Less(t, strings.Index(out, "concurrency_issues"), strings.Index(out, "logic_errors"))
	assert.Contains(t, out, "p1")
}

func TestWriteInsightsTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	err := writeInsightsText("ghost/repo", &schema.RepositoryInsights{}, fmtFloat, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No debugging history")
}

func TestGetMaxTablePathWidth(t *testing.T) {
	wide := &contract.Config{Width: 200}
	assert.Equal(t, 70, GetMaxTablePathWidth(wide))

	narrow := &contract.Config{Width: 40}
	assert.Equal(t, 15, GetMaxTablePathWidth(narrow))

	mid := &contract.Config{Width: 100}
	assert.Equal(t, 50, GetMaxTablePathWidth(mid))
}
