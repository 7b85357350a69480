package schema

import "time"

// BugPattern is a recurring bug/fix signature mined from successful debugging
// sessions. At most one live record exists per deterministic signature; records
// are never deleted, only updated.
type BugPattern struct {
	PatternID    string      `json:"pattern_id"`
	Category     BugCategory `json:"category"`
	Symptoms     []string    `json:"symptoms"`
	RootCauses   []string    `json:"root_causes"`
	Fixes        []string    `json:"fixes"`
	Frequency    int         `json:"frequency"`    // Monotonically increasing
	SuccessRate  float64     `json:"success_rate"` // Running weighted average in [0,1]
	AvgFixTime   float64     `json:"avg_fix_time"` // Seconds, running weighted average
	LastSeen     time.Time   `json:"last_seen"`
	Repositories []string    `json:"repositories"` // Union-updated set, kept sorted
}

// DebugSession is one recorded debugging session. SessionID is the upsert key:
// re-recording with the same id overwrites the previous row.
type DebugSession struct {
	SessionID       string         `json:"session_id"`
	Repository      string         `json:"repository"`
	BugID           string         `json:"bug_id"`
	Category        BugCategory    `json:"category"`
	Timestamp       time.Time      `json:"timestamp"`
	DurationSeconds float64        `json:"duration_seconds"`
	Iterations      int            `json:"iterations"`
	Success         bool           `json:"success"`
	FilesExamined   []string       `json:"files_examined"`
	FixApplied      string         `json:"fix_applied"`
	TestResults     map[string]any `json:"test_results,omitempty"`
	Confidence      float64        `json:"confidence"`

	// Optional observations carried by the orchestrator. Not persisted in the
	// debug_sessions table; they seed the symptom/root-cause lists of the bug
	// pattern a successful session folds into.
	Symptoms  []string `json:"symptoms,omitempty"`
	RootCause string   `json:"root_cause,omitempty"`
}

// RepositoryMemory is the per-repository aggregate, updated on every recorded
// session regardless of success.
type RepositoryMemory struct {
	RepoID              string                   `json:"repo_id"`
	Patterns            []string                 `json:"patterns"` // Pattern IDs
	CommonBugs          map[BugCategory]int      `json:"common_bugs"`
	FixTemplates        map[BugCategory][]string `json:"fix_templates"` // Deduplicated, success-only appends
	DependencyIssues    map[string]any           `json:"dependency_issues,omitempty"`
	PerformanceHotspots []string                 `json:"performance_hotspots,omitempty"`
	TestCoverageGaps    []string                 `json:"test_coverage_gaps,omitempty"`
	LastUpdated         time.Time                `json:"last_updated"`
}

// PatternMatch is a bug pattern paired with its computed similarity to a query.
type PatternMatch struct {
	Pattern    BugPattern `json:"pattern"`
	Similarity float64    `json:"similarity"`
}

// RollingMetrics holds the 30-day window aggregates for a repository.
type RollingMetrics struct {
	SessionCount  int     `json:"session_count"`
	SuccessRate   float64 `json:"success_rate"`
	AvgDuration   float64 `json:"avg_duration"`
	AvgIterations float64 `json:"avg_iterations"`
}

// RepositoryInsights combines the stored repository memory with freshly
// computed rolling metrics and up to ten materialized patterns.
type RepositoryInsights struct {
	Memory   *RepositoryMemory `json:"memory,omitempty"`
	Rolling  RollingMetrics    `json:"rolling"`
	Patterns []BugPattern      `json:"patterns"`
}

// StoreStatus reports the state of the pattern store backend.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TableCounts    map[string]int64 `json:"table_counts"`
	LastSessionAt  time.Time        `json:"last_session_at,omitzero"`
	FirstSessionAt time.Time        `json:"first_session_at,omitzero"`
	SizeBytes      int64            `json:"size_bytes,omitempty"`
}
