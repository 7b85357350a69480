package memdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bugtrail/bugtrail/schema"
)

// RecordSession upserts a session by session_id. Successful sessions are
// folded into their bug pattern (an empty fix description is a valid
// signature input), and the repository memory is refreshed on every call. The
// pattern and memory updates are separate statements, not a transaction.
func (s *Store) RecordSession(session *schema.DebugSession) error {
	if s.disabled() {
		return nil
	}
	if session.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	if err := s.upsertSession(session); err != nil {
		return err
	}

	var patternID string
	if session.Success {
		var err error
		patternID, err = s.foldIntoPattern(session)
		if err != nil {
			return err
		}
	}

	if err := s.updateRepositoryMemory(session, patternID); err != nil {
		return err
	}

	s.invalidateCaches()
	return nil
}

// upsertSession writes the session row, overwriting any prior row with the
// same session_id.
func (s *Store) upsertSession(session *schema.DebugSession) error {
	filesJSON, err := encodeJSON(session.FilesExamined)
	if err != nil {
		return err
	}
	resultsJSON, err := encodeJSON(session.TestResults)
	if err != nil {
		return err
	}

	cols := "session_id, repository, bug_id, category, timestamp, duration_seconds, iterations, success, files_examined, fix_applied, test_results, confidence"
	args := []any{
		session.SessionID, session.Repository, session.BugID, string(session.Category),
		encodeTime(session.Timestamp), session.DurationSeconds, session.Iterations, session.Success,
		filesJSON, session.FixApplied, resultsJSON, session.Confidence,
	}

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE repository = new.repository, bug_id = new.bug_id, category = new.category,
			timestamp = new.timestamp, duration_seconds = new.duration_seconds, iterations = new.iterations,
			success = new.success, files_examined = new.files_examined, fix_applied = new.fix_applied,
			test_results = new.test_results, confidence = new.confidence`,
			sessionsTable, cols, s.placeholders(len(args), 0))

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (session_id) DO UPDATE SET repository = EXCLUDED.repository, bug_id = EXCLUDED.bug_id,
			category = EXCLUDED.category, timestamp = EXCLUDED.timestamp, duration_seconds = EXCLUDED.duration_seconds,
			iterations = EXCLUDED.iterations, success = EXCLUDED.success, files_examined = EXCLUDED.files_examined,
			fix_applied = EXCLUDED.fix_applied, test_results = EXCLUDED.test_results, confidence = EXCLUDED.confidence`,
			sessionsTable, cols, s.placeholders(len(args), 0))

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`,
			sessionsTable, cols, s.placeholders(len(args), 0))
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", session.SessionID, err)
	}
	return nil
}

// foldIntoPattern creates or updates the bug pattern this session belongs to
// and returns the pattern ID. Existing patterns take a running weighted
// average of success rate and fix time; a fresh pattern starts with frequency
// 1 and success rate 1.0 (only successful sessions reach this point).
func (s *Store) foldIntoPattern(session *schema.DebugSession) (string, error) {
	patternID := schema.PatternSignature(session.Category, session.FilesExamined, session.FixApplied)

	pattern, err := s.loadPattern(patternID)
	if err != nil {
		return "", err
	}

	if pattern == nil {
		pattern = &schema.BugPattern{
			PatternID:    patternID,
			Category:     session.Category,
			Symptoms:     schema.UnionSorted(nil, session.Symptoms),
			Frequency:    1,
			SuccessRate:  1.0,
			AvgFixTime:   session.DurationSeconds,
			LastSeen:     session.Timestamp,
			Repositories: []string{session.Repository},
		}
		if session.FixApplied != "" {
			pattern.Fixes = []string{session.FixApplied}
		}
		if session.RootCause != "" {
			pattern.RootCauses = []string{session.RootCause}
		}
	} else {
		prev := float64(pattern.Frequency)
		next := prev + 1
		pattern.Frequency++
		pattern.SuccessRate = (pattern.SuccessRate*prev + 1) / next
		pattern.AvgFixTime = (pattern.AvgFixTime*prev + session.DurationSeconds) / next
		pattern.Symptoms = schema.UnionSorted(pattern.Symptoms, session.Symptoms)
		if session.FixApplied != "" {
			pattern.Fixes = schema.UnionSorted(pattern.Fixes, []string{session.FixApplied})
		}
		if session.RootCause != "" {
			pattern.RootCauses = schema.UnionSorted(pattern.RootCauses, []string{session.RootCause})
		}
		pattern.Repositories = schema.UnionSorted(pattern.Repositories, []string{session.Repository})
		if session.Timestamp.After(pattern.LastSeen) {
			pattern.LastSeen = session.Timestamp
		}
	}

	if err := s.upsertPattern(pattern); err != nil {
		return "", err
	}
	return patternID, nil
}

// ListSessions returns every stored session in deterministic ID order.
func (s *Store) ListSessions() ([]schema.DebugSession, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT session_id, repository, bug_id, category, timestamp, duration_seconds,
		iterations, success, files_examined, fix_applied, test_results, confidence
		FROM %s ORDER BY session_id`, sessionsTable)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []schema.DebugSession
	for rows.Next() {
		var session schema.DebugSession
		var bugID sql.NullString
		var category, timestampStr, filesJSON, resultsJSON string

		err := rows.Scan(&session.SessionID, &session.Repository, &bugID, &category,
			&timestampStr, &session.DurationSeconds, &session.Iterations, &session.Success,
			&filesJSON, &session.FixApplied, &resultsJSON, &session.Confidence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		session.BugID = bugID.String
		session.Category = schema.BugCategory(category)
		if session.Timestamp, err = decodeTime(timestampStr); err != nil {
			return nil, err
		}
		if err := decodeJSON(filesJSON, &session.FilesExamined); err != nil {
			return nil, err
		}
		if err := decodeJSON(resultsJSON, &session.TestResults); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}

// updateRepositoryMemory refreshes the per-repository aggregate. Bug category
// counts move on every session; fix templates and the pattern list only grow
// from successful sessions.
func (s *Store) updateRepositoryMemory(session *schema.DebugSession, patternID string) error {
	if session.Repository == "" {
		return nil
	}

	memory, err := s.loadRepositoryMemory(session.Repository)
	if err != nil {
		return err
	}
	if memory == nil {
		memory = &schema.RepositoryMemory{
			RepoID:       session.Repository,
			CommonBugs:   make(map[schema.BugCategory]int),
			FixTemplates: make(map[schema.BugCategory][]string),
		}
	}
	if memory.CommonBugs == nil {
		memory.CommonBugs = make(map[schema.BugCategory]int)
	}
	if memory.FixTemplates == nil {
		memory.FixTemplates = make(map[schema.BugCategory][]string)
	}

	memory.CommonBugs[session.Category]++
	if session.Success && session.FixApplied != "" {
		memory.FixTemplates[session.Category] = schema.UnionSorted(
			memory.FixTemplates[session.Category], []string{session.FixApplied})
	}
	if patternID != "" {
		memory.Patterns = schema.UnionSorted(memory.Patterns, []string{patternID})
	}
	memory.LastUpdated = session.Timestamp

	return s.upsertRepositoryMemory(memory)
}

// loadRepositoryMemory fetches one repository aggregate, nil when absent.
func (s *Store) loadRepositoryMemory(repo string) (*schema.RepositoryMemory, error) {
	query := fmt.Sprintf(`SELECT repo_id, patterns, common_bugs, fix_templates, dependency_issues,
		performance_hotspots, test_coverage_gaps, last_updated
		FROM %s WHERE repo_id = %s`, repoMemoryTable, s.placeholder(1))

	var memory schema.RepositoryMemory
	var patternsJSON, bugsJSON, templatesJSON, depsJSON, hotspotsJSON, gapsJSON, updatedStr string

	row := s.db.QueryRow(query, repo)
	err := row.Scan(&memory.RepoID, &patternsJSON, &bugsJSON, &templatesJSON,
		&depsJSON, &hotspotsJSON, &gapsJSON, &updatedStr)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load repository memory for %s: %w", repo, err)
	}

	for _, pair := range []struct {
		raw string
		out any
	}{
		{patternsJSON, &memory.Patterns},
		{bugsJSON, &memory.CommonBugs},
		{templatesJSON, &memory.FixTemplates},
		{depsJSON, &memory.DependencyIssues},
		{hotspotsJSON, &memory.PerformanceHotspots},
		{gapsJSON, &memory.TestCoverageGaps},
	} {
		if err := decodeJSON(pair.raw, pair.out); err != nil {
			return nil, err
		}
	}
	if memory.LastUpdated, err = decodeTime(updatedStr); err != nil {
		return nil, err
	}
	return &memory, nil
}

// upsertRepositoryMemory writes the aggregate row keyed by repo_id.
func (s *Store) upsertRepositoryMemory(memory *schema.RepositoryMemory) error {
	patternsJSON, err := encodeJSON(memory.Patterns)
	if err != nil {
		return err
	}
	bugsJSON, err := encodeJSON(memory.CommonBugs)
	if err != nil {
		return err
	}
	templatesJSON, err := encodeJSON(memory.FixTemplates)
	if err != nil {
		return err
	}
	depsJSON, err := encodeJSON(memory.DependencyIssues)
	if err != nil {
		return err
	}
	hotspotsJSON, err := encodeJSON(memory.PerformanceHotspots)
	if err != nil {
		return err
	}
	gapsJSON, err := encodeJSON(memory.TestCoverageGaps)
	if err != nil {
		return err
	}

	cols := "repo_id, patterns, common_bugs, fix_templates, dependency_issues, performance_hotspots, test_coverage_gaps, last_updated"
	args := []any{
		memory.RepoID, patternsJSON, bugsJSON, templatesJSON,
		depsJSON, hotspotsJSON, gapsJSON, encodeTime(memory.LastUpdated),
	}

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE patterns = new.patterns, common_bugs = new.common_bugs,
			fix_templates = new.fix_templates, dependency_issues = new.dependency_issues,
			performance_hotspots = new.performance_hotspots, test_coverage_gaps = new.test_coverage_gaps,
			last_updated = new.last_updated`,
			repoMemoryTable, cols, s.placeholders(len(args), 0))

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (repo_id) DO UPDATE SET patterns = EXCLUDED.patterns, common_bugs = EXCLUDED.common_bugs,
			fix_templates = EXCLUDED.fix_templates, dependency_issues = EXCLUDED.dependency_issues,
			performance_hotspots = EXCLUDED.performance_hotspots, test_coverage_gaps = EXCLUDED.test_coverage_gaps,
			last_updated = EXCLUDED.last_updated`,
			repoMemoryTable, cols, s.placeholders(len(args), 0))

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`,
			repoMemoryTable, cols, s.placeholders(len(args), 0))
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to upsert repository memory for %s: %w", memory.RepoID, err)
	}
	return nil
}
