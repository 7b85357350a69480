package memdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/schema"
)

// newTestStore opens a SQLite store backed by a temp file.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "memory.db")
	store, err := NewStore(schema.SQLiteBackend, dbPath, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// successSession builds a successful concurrency session with the shared
// signature used across tests.
func successSession(id string, duration float64) *schema.DebugSession {
	return &schema.DebugSession{
		SessionID:       id,
		Repository:      "acme/payments",
		BugID:           "BUG-42",
		Category:        schema.ConcurrencyIssues,
		Timestamp:       time.Now(),
		DurationSeconds: duration,
		Iterations:      2,
		Success:         true,
		FilesExamined:   []string{"internal/worker.go", "internal/pool.go"},
		FixApplied:      "release the mutex in worker.go before returning",
		Symptoms:        []string{"deadlock", "mutex", "timeout"},
		RootCause:       "lock held across channel send",
		Confidence:      0.9,
	}
}

// TestRecordSessionUpsert checks that re-recording a session id overwrites the
// row instead of duplicating it.
func TestRecordSessionUpsert(t *testing.T) {
	store := newTestStore(t)

	session := successSession("sess-1", 120)
	require.NoError(t, store.RecordSession(session))

	session.Iterations = 5
	require.NoError(t, store.RecordSession(session))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TableCounts[sessionsTable])
	assert.Equal(t, int64(1), status.TableCounts[patternsTable])
}

// TestPatternRunningAverages checks the weighted update math across three
// same-signature sessions.
func TestPatternRunningAverages(t *testing.T) {
	store := newTestStore(t)

	for i, duration := range []float64{100, 200, 300} {
		session := successSession(string(rune('a'+i))+"-sess", duration)
		require.NoError(t, store.RecordSession(session))
	}

	patternID := schema.PatternSignature(
		schema.ConcurrencyIssues,
		[]string{"internal/worker.go", "internal/pool.go"},
		"release the mutex in worker.go before returning")

	pattern, err := store.GetPattern(patternID)
	require.NoError(t, err)
	require.NotNil(t, pattern)

	assert.Equal(t, 3, pattern.Frequency)
	assert.InDelta(t, 1.0, pattern.SuccessRate, 1e-9)
	assert.InDelta(t, 200.0, pattern.AvgFixTime, 1e-9)
	assert.Equal(t, []string{"acme/payments"}, pattern.Repositories)
	assert.Contains(t, pattern.Symptoms, "deadlock")
	assert.Contains(t, pattern.RootCauses, "lock held across channel send")
}

// TestFailedSessionLeavesNoPattern checks that unsuccessful sessions are
// persisted but never create patterns.
func TestFailedSessionLeavesNoPattern(t *testing.T) {
	store := newTestStore(t)

	session := successSession("sess-fail", 60)
	session.Success = false
	require.NoError(t, store.RecordSession(session))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TableCounts[sessionsTable])
	assert.Equal(t, int64(0), status.TableCounts[patternsTable])

	// Category counts still move on failures.
	insights, err := store.GetRepositoryInsights("acme/payments")
	require.NoError(t, err)
	require.NotNil(t, insights.Memory)
	assert.Equal(t, 1, insights.Memory.CommonBugs[schema.ConcurrencyIssues])
	assert.Empty(t, insights.Memory.FixTemplates[schema.ConcurrencyIssues])
}

// TestFixlessSuccessCreatesPattern checks that a successful session without a
// fix description still folds into a pattern; the empty fix text is part of
// the signature, not a precondition.
func TestFixlessSuccessCreatesPattern(t *testing.T) {
	store := newTestStore(t)

	session := successSession("sess-nofix", 90)
	session.FixApplied = ""
	require.NoError(t, store.RecordSession(session))

	patternID := schema.PatternSignature(
		schema.ConcurrencyIssues,
		[]string{"internal/worker.go", "internal/pool.go"},
		"")
	pattern, err := store.GetPattern(patternID)
	require.NoError(t, err)
	require.NotNil(t, pattern)

	assert.Equal(t, 1, pattern.Frequency)
	assert.InDelta(t, 1.0, pattern.SuccessRate, 1e-9)
	assert.Empty(t, pattern.Fixes)

	// No empty string leaks into the repository fix templates.
	insights, err := store.GetRepositoryInsights("acme/payments")
	require.NoError(t, err)
	require.NotNil(t, insights.Memory)
	assert.Empty(t, insights.Memory.FixTemplates[schema.ConcurrencyIssues])
	assert.Contains(t, insights.Memory.Patterns, patternID)
}

// TestRetrieveSimilarPatterns checks matcher scoring against a stored pattern.
func TestRetrieveSimilarPatterns(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordSession(successSession("sess-1", 120)))

	query := &schema.Query{
		Category:      schema.ConcurrencyIssues,
		ErrorFile:     "internal/worker.go",
		ErrorKeywords: []string{"deadlock", "mutex", "timeout"},
	}

	matches, err := store.RetrieveSimilarPatterns(query, "acme/payments", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Category (0.3) + full symptom overlap (0.3) + file overlap (0.2), fresh
	// pattern so decay is ~1 and success rate is 1.
	assert.InDelta(t, 0.8, matches[0].Similarity, 0.01)
	assert.GreaterOrEqual(t, matches[0].Similarity, schema.DefaultConfidenceThreshold)
}

// TestRetrieveSimilarPatternsUnknownCategory checks the soft-miss path.
func TestRetrieveSimilarPatternsUnknownCategory(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordSession(successSession("sess-1", 120)))

	matches, err := store.RetrieveSimilarPatterns(&schema.Query{Category: schema.APIMisuse}, "", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestRetrieveSimilarPatternsThreshold checks that weak matches are dropped.
func TestRetrieveSimilarPatternsThreshold(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordSession(successSession("sess-1", 120)))

	// Same category but no symptom or file overlap: 0.3 < 0.7.
	matches, err := store.RetrieveSimilarPatterns(&schema.Query{
		Category:      schema.ConcurrencyIssues,
		ErrorKeywords: []string{"segfault"},
	}, "", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestRepositoryInsights checks rolling metrics and materialized patterns.
func TestRepositoryInsights(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSession(successSession("sess-1", 100)))
	failed := successSession("sess-2", 300)
	failed.Success = false
	require.NoError(t, store.RecordSession(failed))

	insights, err := store.GetRepositoryInsights("acme/payments")
	require.NoError(t, err)

	assert.Equal(t, 2, insights.Rolling.SessionCount)
	assert.InDelta(t, 0.5, insights.Rolling.SuccessRate, 1e-9)
	assert.InDelta(t, 200.0, insights.Rolling.AvgDuration, 1e-9)
	assert.Len(t, insights.Patterns, 1)
	assert.Equal(t, 2, insights.Memory.CommonBugs[schema.ConcurrencyIssues])
}

// TestRepositoryInsightsEmpty checks that an unknown repository yields an
// empty report rather than an error.
func TestRepositoryInsightsEmpty(t *testing.T) {
	store := newTestStore(t)

	insights, err := store.GetRepositoryInsights("nobody/nothing")
	require.NoError(t, err)
	assert.Nil(t, insights.Memory)
	assert.Zero(t, insights.Rolling.SessionCount)
	assert.Empty(t, insights.Patterns)
}

// TestLearnFromBatch checks that batch learning records everything and that
// recurring signatures end up persisted.
func TestLearnFromBatch(t *testing.T) {
	store := newTestStore(t)

	sessions := []*schema.DebugSession{
		successSession("batch-1", 100),
		successSession("batch-2", 200),
		successSession("batch-3", 300),
	}
	promoted, err := store.LearnFromBatch(sessions)
	require.NoError(t, err)

	// Recording already created the pattern, so nothing is left to promote.
	assert.Equal(t, 0, promoted)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.TableCounts[sessionsTable])
	assert.Equal(t, int64(1), status.TableCounts[patternsTable])
}

// TestExportPatternsRoundTrip checks JSON export fidelity.
func TestExportPatternsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordSession(successSession("sess-1", 120)))

	exportPath := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, store.ExportPatterns(exportPath))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var exported []schema.BugPattern
	require.NoError(t, json.Unmarshal(data, &exported))

	stored, err := store.ListPatterns()
	require.NoError(t, err)
	require.Len(t, exported, 1)
	assert.Equal(t, stored[0].PatternID, exported[0].PatternID)
	assert.Equal(t, stored[0].Frequency, exported[0].Frequency)
	assert.Equal(t, stored[0].Fixes, exported[0].Fixes)
}

// TestGetPatternMissing checks the nil contract for absent patterns.
func TestGetPatternMissing(t *testing.T) {
	store := newTestStore(t)

	pattern, err := store.GetPattern("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, pattern)
}

// TestNoneBackendNoOps checks that a disabled store accepts every operation.
func TestNoneBackendNoOps(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "", DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.RecordSession(successSession("sess-1", 120)))

	matches, err := store.RetrieveSimilarPatterns(&schema.Query{}, "", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
