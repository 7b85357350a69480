package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/schema"
)

func samplePatterns() []schema.BugPattern {
	return []schema.BugPattern{
		{
			PatternID:    "abc123",
			Category:     schema.ConcurrencyIssues,
			Symptoms:     []string{"deadlock", "timeout"},
			RootCauses:   []string{"lock ordering"},
			Fixes:        []string{"reorder locks in pool.go"},
			Frequency:    4,
			SuccessRate:  0.75,
			AvgFixTime:   180,
			LastSeen:     time.Now(),
			Repositories: []string{"acme/payments"},
		},
	}
}

func TestBugPatternRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(BugPatternRecord))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"pattern_id",
		"category",
		"symptoms",
		"root_causes",
		"fixes",
		"frequency",
		"success_rate",
		"avg_fix_time",
		"last_seen",
		"repositories",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestDebugSessionRecordStructTags(t *testing.T) {
	pqSchema := parquet.SchemaOf(new(DebugSessionRecord))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"session_id",
		"repository",
		"bug_id",
		"category",
		"timestamp",
		"duration_seconds",
		"iterations",
		"success",
		"files_examined",
		"fix_applied",
		"confidence",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertBugPatterns(t *testing.T) {
	records := ConvertBugPatterns(samplePatterns())
	require.Len(t, records, 1)

	assert.Equal(t, "abc123", records[0].PatternID)
	assert.Equal(t, "concurrency_issues", records[0].Category)
	assert.Equal(t, "deadlock;timeout", records[0].Symptoms)
	assert.Equal(t, int32(4), records[0].Frequency)
}

func TestConvertDebugSessions(t *testing.T) {
	sessions := []schema.DebugSession{
		{
			SessionID:     "sess-1",
			Repository:    "acme/payments",
			Category:      schema.LogicErrors,
			Timestamp:     time.Now(),
			Success:       true,
			FilesExamined: []string{"a.go", "b.go"},
			FixApplied:    "guard nil receiver",
		},
		{SessionID: "sess-2", BugID: "BUG-7"},
	}

	records := ConvertDebugSessions(sessions)
	require.Len(t, records, 2)

	assert.Equal(t, "a.go;b.go", records[0].FilesExamined)
	assert.Nil(t, records[0].BugID, "Empty bug id should map to null")
	require.NotNil(t, records[1].BugID)
	assert.Equal(t, "BUG-7", *records[1].BugID)
}

func TestWriteBugPatternsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "bug_patterns.parquet")

	err := WriteBugPatternsParquet(ConvertBugPatterns(samplePatterns()), outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Read the file back and verify the record survived
	rows, err := parquet.ReadFile[BugPatternRecord](outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "abc123", rows[0].PatternID)
	assert.Equal(t, 0.75, rows[0].SuccessRate)
}

func TestWriteDebugSessionsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "debug_sessions.parquet")

	records := ConvertDebugSessions([]schema.DebugSession{
		{SessionID: "sess-1", Repository: "acme/payments", Timestamp: time.Now(), Success: true},
	})
	err := WriteDebugSessionsParquet(records, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	rows, err := parquet.ReadFile[DebugSessionRecord](outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sess-1", rows[0].SessionID)
	assert.True(t, rows[0].Success)
}
