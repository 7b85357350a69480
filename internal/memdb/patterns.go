package memdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bugtrail/bugtrail/schema"
)

// patternColumns is the SELECT list shared by all pattern reads. The unused
// embedding column is never fetched.
const patternColumns = "pattern_id, category, symptoms, root_causes, fixes, frequency, success_rate, avg_fix_time, last_seen, repositories"

// isNoRows reports a soft query miss.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetPattern fetches one pattern by ID, nil when absent. Reads are memoized
// until the next write.
func (s *Store) GetPattern(patternID string) (*schema.BugPattern, error) {
	if s.disabled() {
		return nil, nil
	}
	if cached, ok := s.patternCache.Get(patternID); ok {
		return cached, nil
	}
	pattern, err := s.loadPattern(patternID)
	if err != nil {
		return nil, err
	}
	if pattern != nil {
		s.patternCache.Put(patternID, pattern)
	}
	return pattern, nil
}

// loadPattern fetches one pattern row, bypassing the cache.
func (s *Store) loadPattern(patternID string) (*schema.BugPattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE pattern_id = %s`,
		patternColumns, patternsTable, s.placeholder(1))

	row := s.db.QueryRow(query, patternID)
	pattern, err := scanPattern(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pattern %s: %w", patternID, err)
	}
	return pattern, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPattern decodes one pattern row.
func scanPattern(row rowScanner) (*schema.BugPattern, error) {
	var p schema.BugPattern
	var category, symptomsJSON, causesJSON, fixesJSON, reposJSON, lastSeenStr string

	err := row.Scan(&p.PatternID, &category, &symptomsJSON, &causesJSON, &fixesJSON,
		&p.Frequency, &p.SuccessRate, &p.AvgFixTime, &lastSeenStr, &reposJSON)
	if err != nil {
		return nil, err
	}

	p.Category = schema.BugCategory(category)
	for _, pair := range []struct {
		raw string
		out any
	}{
		{symptomsJSON, &p.Symptoms},
		{causesJSON, &p.RootCauses},
		{fixesJSON, &p.Fixes},
		{reposJSON, &p.Repositories},
	} {
		if err := decodeJSON(pair.raw, pair.out); err != nil {
			return nil, err
		}
	}
	if p.LastSeen, err = decodeTime(lastSeenStr); err != nil {
		return nil, err
	}
	return &p, nil
}

// queryPatterns runs a pattern SELECT and decodes every row.
func (s *Store) queryPatterns(query string, args ...any) ([]schema.BugPattern, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []schema.BugPattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}
	return patterns, nil
}

// ListPatterns returns every stored pattern in deterministic ID order.
func (s *Store) ListPatterns() ([]schema.BugPattern, error) {
	if s.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY pattern_id`, patternColumns, patternsTable)
	return s.queryPatterns(query)
}

// upsertPattern writes a pattern row keyed by pattern_id.
func (s *Store) upsertPattern(p *schema.BugPattern) error {
	symptomsJSON, err := encodeJSON(p.Symptoms)
	if err != nil {
		return err
	}
	causesJSON, err := encodeJSON(p.RootCauses)
	if err != nil {
		return err
	}
	fixesJSON, err := encodeJSON(p.Fixes)
	if err != nil {
		return err
	}
	reposJSON, err := encodeJSON(p.Repositories)
	if err != nil {
		return err
	}

	cols := "pattern_id, category, symptoms, root_causes, fixes, frequency, success_rate, avg_fix_time, last_seen, repositories"
	args := []any{
		p.PatternID, string(p.Category), symptomsJSON, causesJSON, fixesJSON,
		p.Frequency, p.SuccessRate, p.AvgFixTime, encodeTime(p.LastSeen), reposJSON,
	}

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE category = new.category, symptoms = new.symptoms,
			root_causes = new.root_causes, fixes = new.fixes, frequency = new.frequency,
			success_rate = new.success_rate, avg_fix_time = new.avg_fix_time,
			last_seen = new.last_seen, repositories = new.repositories`,
			patternsTable, cols, s.placeholders(len(args), 0))

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (pattern_id) DO UPDATE SET category = EXCLUDED.category, symptoms = EXCLUDED.symptoms,
			root_causes = EXCLUDED.root_causes, fixes = EXCLUDED.fixes, frequency = EXCLUDED.frequency,
			success_rate = EXCLUDED.success_rate, avg_fix_time = EXCLUDED.avg_fix_time,
			last_seen = EXCLUDED.last_seen, repositories = EXCLUDED.repositories`,
			patternsTable, cols, s.placeholders(len(args), 0))

	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`,
			patternsTable, cols, s.placeholders(len(args), 0))
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to upsert pattern %s: %w", p.PatternID, err)
	}
	return nil
}
