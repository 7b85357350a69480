// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"errors"

	"github.com/bugtrail/bugtrail/schema"
)

// ErrStorageUnavailable marks hard store connectivity failures. Query-shaped
// operations recover locally with empty/default results; storage and IO
// failures wrap this sentinel and propagate to the caller.
var ErrStorageUnavailable = errors.New("storage unavailable")

// PatternStore defines the persistent debug-memory operations.
// This allows the store layer to be mocked for testing.
//
// Implementations own one database connection and are not safe for concurrent
// callers without external serialization: use one store per goroutine or wrap
// calls in a mutex.
type PatternStore interface {
	// RecordSession upserts a session by session_id and, on success, folds it
	// into its bug pattern and the repository memory.
	RecordSession(session *schema.DebugSession) error

	// RetrieveSimilarPatterns returns up to topK patterns similar to the
	// query, all with similarity above the confidence threshold. repository
	// narrows candidates to patterns seen in that repository.
	RetrieveSimilarPatterns(query *schema.Query, repository string, topK int) ([]schema.PatternMatch, error)

	// GetRepositoryInsights returns the stored aggregates plus 30-day rolling
	// metrics and up to ten materialized patterns.
	GetRepositoryInsights(repo string) (*schema.RepositoryInsights, error)

	// LearnFromBatch records every session, then promotes signatures recurring
	// among the batch's successful sessions. Returns the number promoted.
	LearnFromBatch(sessions []*schema.DebugSession) (int, error)

	// GetPattern fetches one pattern by ID, nil when absent.
	GetPattern(patternID string) (*schema.BugPattern, error)

	// ListPatterns returns every stored pattern in deterministic ID order.
	ListPatterns() ([]schema.BugPattern, error)

	// ListSessions returns every stored session in deterministic ID order.
	ListSessions() ([]schema.DebugSession, error)

	// ExportPatterns writes all patterns as a JSON array to path.
	ExportPatterns(path string) error

	// GetStatus reports backend health and table counts.
	GetStatus() (schema.StoreStatus, error)

	// Close releases the underlying connection.
	Close() error
}
