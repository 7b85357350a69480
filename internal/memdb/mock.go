package memdb

import (
	"github.com/stretchr/testify/mock"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// MockPatternStore is a mock implementation of PatternStore for testing.
type MockPatternStore struct {
	mock.Mock
}

var _ contract.PatternStore = &MockPatternStore{} // Compile-time check

// RecordSession implements the PatternStore interface.
func (m *MockPatternStore) RecordSession(session *schema.DebugSession) error {
	args := m.Called(session)
	return args.Error(0)
}

// RetrieveSimilarPatterns implements the PatternStore interface.
func (m *MockPatternStore) RetrieveSimilarPatterns(query *schema.Query, repository string, topK int) ([]schema.PatternMatch, error) {
	args := m.Called(query, repository, topK)
	matches, _ := args.Get(0).([]schema.PatternMatch)
	return matches, args.Error(1)
}

// GetRepositoryInsights implements the PatternStore interface.
func (m *MockPatternStore) GetRepositoryInsights(repo string) (*schema.RepositoryInsights, error) {
	args := m.Called(repo)
	insights, _ := args.Get(0).(*schema.RepositoryInsights)
	return insights, args.Error(1)
}

// LearnFromBatch implements the PatternStore interface.
func (m *MockPatternStore) LearnFromBatch(sessions []*schema.DebugSession) (int, error) {
	args := m.Called(sessions)
	return args.Int(0), args.Error(1)
}

// GetPattern implements the PatternStore interface.
func (m *MockPatternStore) GetPattern(patternID string) (*schema.BugPattern, error) {
	args := m.Called(patternID)
	pattern, _ := args.Get(0).(*schema.BugPattern)
	return pattern, args.Error(1)
}

// ListPatterns implements the PatternStore interface.
func (m *MockPatternStore) ListPatterns() ([]schema.BugPattern, error) {
	args := m.Called()
	patterns, _ := args.Get(0).([]schema.BugPattern)
	return patterns, args.Error(1)
}

// ListSessions implements the PatternStore interface.
func (m *MockPatternStore) ListSessions() ([]schema.DebugSession, error) {
	args := m.Called()
	sessions, _ := args.Get(0).([]schema.DebugSession)
	return sessions, args.Error(1)
}

// ExportPatterns implements the PatternStore interface.
func (m *MockPatternStore) ExportPatterns(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// GetStatus implements the PatternStore interface.
func (m *MockPatternStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the PatternStore interface.
func (m *MockPatternStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
