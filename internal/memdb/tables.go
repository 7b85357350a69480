package memdb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bugtrail/bugtrail/schema"
)

// createTables creates the four persisted tables. pattern_relationships is
// created for schema compatibility but no current logic reads or writes it.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{patternsTable, getCreatePatternsQuery(backend)},
		{sessionsTable, getCreateSessionsQuery(backend)},
		{repoMemoryTable, getCreateRepoMemoryQuery(backend)},
		{relationshipsTable, getCreateRelationshipsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreatePatternsQuery returns the CREATE TABLE query for bug_patterns.
// List and map fields are stored as JSON text; timestamps as fixed-width UTC
// text so scanning is uniform across backends. embedding is reserved and
// unused.
func getCreatePatternsQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern_id VARCHAR(64) PRIMARY KEY,
				category VARCHAR(64) NOT NULL,
				symptoms TEXT NOT NULL,
				root_causes TEXT NOT NULL,
				fixes TEXT NOT NULL,
				frequency INT NOT NULL,
				success_rate DOUBLE NOT NULL,
				avg_fix_time DOUBLE NOT NULL,
				last_seen VARCHAR(64) NOT NULL,
				repositories TEXT NOT NULL,
				embedding BLOB
			);
		`, patternsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern_id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				symptoms TEXT NOT NULL,
				root_causes TEXT NOT NULL,
				fixes TEXT NOT NULL,
				frequency INTEGER NOT NULL,
				success_rate DOUBLE PRECISION NOT NULL,
				avg_fix_time DOUBLE PRECISION NOT NULL,
				last_seen TEXT NOT NULL,
				repositories TEXT NOT NULL,
				embedding BYTEA
			);
		`, patternsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern_id TEXT PRIMARY KEY,
				category TEXT NOT NULL,
				symptoms TEXT NOT NULL,
				root_causes TEXT NOT NULL,
				fixes TEXT NOT NULL,
				frequency INTEGER NOT NULL,
				success_rate REAL NOT NULL,
				avg_fix_time REAL NOT NULL,
				last_seen TEXT NOT NULL,
				repositories TEXT NOT NULL,
				embedding BLOB
			);
		`, patternsTable)
	}
}

// getCreateSessionsQuery returns the CREATE TABLE query for debug_sessions.
func getCreateSessionsQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id VARCHAR(128) PRIMARY KEY,
				repository VARCHAR(255) NOT NULL,
				bug_id VARCHAR(128),
				category VARCHAR(64) NOT NULL,
				timestamp VARCHAR(64) NOT NULL,
				duration_seconds DOUBLE NOT NULL,
				iterations INT NOT NULL,
				success BOOLEAN NOT NULL,
				files_examined TEXT NOT NULL,
				fix_applied TEXT NOT NULL,
				test_results TEXT NOT NULL,
				confidence DOUBLE NOT NULL
			);
		`, sessionsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT PRIMARY KEY,
				repository TEXT NOT NULL,
				bug_id TEXT,
				category TEXT NOT NULL,
				timestamp TEXT NOT NULL,
				duration_seconds DOUBLE PRECISION NOT NULL,
				iterations INTEGER NOT NULL,
				success BOOLEAN NOT NULL,
				files_examined TEXT NOT NULL,
				fix_applied TEXT NOT NULL,
				test_results TEXT NOT NULL,
				confidence DOUBLE PRECISION NOT NULL
			);
		`, sessionsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				session_id TEXT PRIMARY KEY,
				repository TEXT NOT NULL,
				bug_id TEXT,
				category TEXT NOT NULL,
				timestamp TEXT NOT NULL,
				duration_seconds REAL NOT NULL,
				iterations INTEGER NOT NULL,
				success INTEGER NOT NULL,
				files_examined TEXT NOT NULL,
				fix_applied TEXT NOT NULL,
				test_results TEXT NOT NULL,
				confidence REAL NOT NULL
			);
		`, sessionsTable)
	}
}

// getCreateRepoMemoryQuery returns the CREATE TABLE query for repository_memory.
func getCreateRepoMemoryQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repo_id VARCHAR(255) PRIMARY KEY,
				patterns TEXT NOT NULL,
				common_bugs TEXT NOT NULL,
				fix_templates TEXT NOT NULL,
				dependency_issues TEXT NOT NULL,
				performance_hotspots TEXT NOT NULL,
				test_coverage_gaps TEXT NOT NULL,
				last_updated VARCHAR(64) NOT NULL
			);
		`, repoMemoryTable)

	case schema.PostgreSQLBackend, schema.SQLiteBackend:
		fallthrough
	default:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repo_id TEXT PRIMARY KEY,
				patterns TEXT NOT NULL,
				common_bugs TEXT NOT NULL,
				fix_templates TEXT NOT NULL,
				dependency_issues TEXT NOT NULL,
				performance_hotspots TEXT NOT NULL,
				test_coverage_gaps TEXT NOT NULL,
				last_updated TEXT NOT NULL
			);
		`, repoMemoryTable)
	}
}

// getCreateRelationshipsQuery returns the CREATE TABLE query for
// pattern_relationships. Shape preserved; no behavior is defined over it.
func getCreateRelationshipsQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern1_id VARCHAR(64) NOT NULL,
				pattern2_id VARCHAR(64) NOT NULL,
				relationship_type VARCHAR(64),
				strength DOUBLE,
				co_occurrence_count INT
			);
		`, relationshipsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern1_id TEXT NOT NULL,
				pattern2_id TEXT NOT NULL,
				relationship_type TEXT,
				strength DOUBLE PRECISION,
				co_occurrence_count INTEGER
			);
		`, relationshipsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pattern1_id TEXT NOT NULL,
				pattern2_id TEXT NOT NULL,
				relationship_type TEXT,
				strength REAL,
				co_occurrence_count INTEGER
			);
		`, relationshipsTable)
	}
}

// placeholders returns the backend-appropriate parameter list "(?, ?, ...)"
// or "($1, $2, ...)" for n parameters, starting at offset+1 for PostgreSQL.
func (s *Store) placeholders(n, offset int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		if s.backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", offset+i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// placeholder returns the single-parameter placeholder for the backend.
func (s *Store) placeholder(pos int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}
