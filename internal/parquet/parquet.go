// Package parquet provides data structures and functions for exporting debug
// memory data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/bugtrail/bugtrail/schema"
)

// BugPatternRecord represents a single mined bug pattern.
// This struct maps to the bug_patterns database table; the list columns are
// flattened to semicolon-joined strings for analytics friendliness.
type BugPatternRecord struct {
	// PatternID is the deterministic signature of the pattern
	PatternID string `parquet:"pattern_id,snappy"`

	// Category is the bug category the pattern belongs to
	Category string `parquet:"category,snappy"`

	// Symptoms is the semicolon-joined symptom list
	Symptoms string `parquet:"symptoms,snappy"`

	// RootCauses is the semicolon-joined root cause list
	RootCauses string `parquet:"root_causes,snappy"`

	// Fixes is the semicolon-joined fix description list
	Fixes string `parquet:"fixes,snappy"`

	// Frequency is how many sessions folded into this pattern
	Frequency int32 `parquet:"frequency,snappy"`

	// SuccessRate is the running weighted success average in [0,1]
	SuccessRate float64 `parquet:"success_rate,snappy"`

	// AvgFixTime is the running weighted fix duration in seconds
	AvgFixTime float64 `parquet:"avg_fix_time,snappy"`

	// LastSeen is when the pattern last matched a session
	LastSeen time.Time `parquet:"last_seen,snappy"`

	// Repositories is the semicolon-joined repository list
	Repositories string `parquet:"repositories,snappy"`
}

// DebugSessionRecord represents a single recorded debugging session.
// This struct maps to the debug_sessions database table.
type DebugSessionRecord struct {
	// SessionID is the unique identifier for the session
	SessionID string `parquet:"session_id,snappy"`

	// Repository is the repository the session debugged
	Repository string `parquet:"repository,snappy"`

	// BugID is the external bug identifier (nullable)
	BugID *string `parquet:"bug_id,optional,snappy"`

	// Category is the bug category reported for the session
	Category string `parquet:"category,snappy"`

	// Timestamp is when the session was recorded
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// DurationSeconds is the session duration in seconds
	DurationSeconds float64 `parquet:"duration_seconds,snappy"`

	// Iterations is the number of debugging iterations taken
	Iterations int32 `parquet:"iterations,snappy"`

	// Success reports whether the session resolved the bug
	Success bool `parquet:"success,snappy"`

	// FilesExamined is the semicolon-joined list of files touched
	FilesExamined string `parquet:"files_examined,snappy"`

	// FixApplied is the free-text fix description
	FixApplied string `parquet:"fix_applied,snappy"`

	// Confidence is the session's self-reported confidence in [0,1]
	Confidence float64 `parquet:"confidence,snappy"`
}

// listSeparator joins list columns in flattened records.
const listSeparator = ";"

// ConvertBugPatterns converts store patterns to flattened Parquet records.
func ConvertBugPatterns(patterns []schema.BugPattern) []BugPatternRecord {
	records := make([]BugPatternRecord, 0, len(patterns))
	for _, p := range patterns {
		records = append(records, BugPatternRecord{
			PatternID:    p.PatternID,
			Category:     string(p.Category),
			Symptoms:     strings.Join(p.Symptoms, listSeparator),
			RootCauses:   strings.Join(p.RootCauses, listSeparator),
			Fixes:        strings.Join(p.Fixes, listSeparator),
			Frequency:    int32(p.Frequency),
			SuccessRate:  p.SuccessRate,
			AvgFixTime:   p.AvgFixTime,
			LastSeen:     p.LastSeen,
			Repositories: strings.Join(p.Repositories, listSeparator),
		})
	}
	return records
}

// ConvertDebugSessions converts store sessions to flattened Parquet records.
func ConvertDebugSessions(sessions []schema.DebugSession) []DebugSessionRecord {
	records := make([]DebugSessionRecord, 0, len(sessions))
	for _, s := range sessions {
		record := DebugSessionRecord{
			SessionID:       s.SessionID,
			Repository:      s.Repository,
			Category:        string(s.Category),
			Timestamp:       s.Timestamp,
			DurationSeconds: s.DurationSeconds,
			Iterations:      int32(s.Iterations),
			Success:         s.Success,
			FilesExamined:   strings.Join(s.FilesExamined, listSeparator),
			FixApplied:      s.FixApplied,
			Confidence:      s.Confidence,
		}
		if s.BugID != "" {
			bugID := s.BugID
			record.BugID = &bugID
		}
		records = append(records, record)
	}
	return records
}

// MockFetchBugPatterns generates sample BugPatternRecord data for demonstration.
func MockFetchBugPatterns() []BugPatternRecord {
	now := time.Now()

	return []BugPatternRecord{
		{
			PatternID:    "1a2b3c4d5e6f7a8b",
			Category:     "concurrency_issues",
			Symptoms:     "deadlock;timeout;hung worker",
			RootCauses:   "lock held across channel send",
			Fixes:        "release the mutex in worker.go before returning",
			Frequency:    7,
			SuccessRate:  0.86,
			AvgFixTime:   412.5,
			LastSeen:     now.Add(-48 * time.Hour),
			Repositories: "acme/payments;acme/ledger",
		},
		{
			PatternID:    "9f8e7d6c5b4a3f2e",
			Category:     "memory_issues",
			Symptoms:     "oom;rss growth",
			RootCauses:   "unbounded response cache",
			Fixes:        "cap the cache in handler.go with an LRU",
			Frequency:    3,
			SuccessRate:  1.0,
			AvgFixTime:   950.0,
			LastSeen:     now.Add(-30 * 24 * time.Hour),
			Repositories: "acme/payments",
		},
	}
}

// MockFetchDebugSessions generates sample DebugSessionRecord data for demonstration.
func MockFetchDebugSessions() []DebugSessionRecord {
	now := time.Now()
	bugID := "JIRA-4821"

	return []DebugSessionRecord{
		{
			SessionID:       "sess-001",
			Repository:      "acme/payments",
			BugID:           &bugID,
			Category:        "concurrency_issues",
			Timestamp:       now.Add(-48 * time.Hour),
			DurationSeconds: 380.0,
			Iterations:      4,
			Success:         true,
			FilesExamined:   "internal/worker.go;internal/pool.go",
			FixApplied:      "release the mutex in worker.go before returning",
			Confidence:      0.9,
		},
		{
			SessionID:       "sess-002",
			Repository:      "acme/payments",
			BugID:           nil, // No external tracker reference - nullable field
			Category:        "logic_errors",
			Timestamp:       now.Add(-12 * time.Hour),
			DurationSeconds: 1240.0,
			Iterations:      9,
			Success:         false,
			FilesExamined:   "internal/ledger.go",
			FixApplied:      "",
			Confidence:      0.2,
		},
	}
}

// WriteBugPatternsParquet writes a slice of BugPatternRecord structs to a Parquet file.
func WriteBugPatternsParquet(data []BugPatternRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the BugPatternRecord struct tags
	writer := parquet.NewGenericWriter[BugPatternRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteDebugSessionsParquet writes a slice of DebugSessionRecord structs to a Parquet file.
func WriteDebugSessionsParquet(data []DebugSessionRecord, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the DebugSessionRecord struct tags
	writer := parquet.NewGenericWriter[DebugSessionRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
