package memdb

import (
	"fmt"
	"time"

	"github.com/bugtrail/bugtrail/schema"
)

// insightsPatternLimit caps the materialized patterns in an insights report.
const insightsPatternLimit = 10

// GetRepositoryInsights returns the stored aggregate for a repository plus
// 30-day rolling session metrics and its strongest patterns. A repository
// with no recorded history yields an empty report, not an error.
func (s *Store) GetRepositoryInsights(repo string) (*schema.RepositoryInsights, error) {
	if s.disabled() {
		return &schema.RepositoryInsights{}, nil
	}

	memory, err := s.loadRepositoryMemory(repo)
	if err != nil {
		return nil, err
	}

	rolling, err := s.rollingMetrics(repo, time.Now().AddDate(0, 0, -schema.DecayWindowDays))
	if err != nil {
		return nil, err
	}

	var patterns []schema.BugPattern
	if memory != nil && len(memory.Patterns) > 0 {
		ids := memory.Patterns
		if len(ids) > insightsPatternLimit {
			ids = ids[:insightsPatternLimit]
		}
		for _, id := range ids {
			p, err := s.GetPattern(id)
			if err != nil {
				return nil, err
			}
			if p != nil {
				patterns = append(patterns, *p)
			}
		}
	}

	return &schema.RepositoryInsights{
		Memory:   memory,
		Rolling:  rolling,
		Patterns: patterns,
	}, nil
}

// rollingMetrics aggregates the repository's sessions since the cutoff.
// Timestamps are fixed-width UTC text, so string comparison orders correctly.
func (s *Store) rollingMetrics(repo string, since time.Time) (schema.RollingMetrics, error) {
	var metrics schema.RollingMetrics

	query := fmt.Sprintf(`SELECT success, duration_seconds, iterations FROM %s
		WHERE repository = %s AND timestamp >= %s`,
		sessionsTable, s.placeholder(1), s.placeholder(2))

	rows, err := s.db.Query(query, repo, encodeTime(since))
	if err != nil {
		return metrics, fmt.Errorf("failed to query rolling sessions for %s: %w", repo, err)
	}
	defer func() { _ = rows.Close() }()

	var successes int
	var totalDuration, totalIterations float64
	for rows.Next() {
		var success bool
		var duration float64
		var iterations int
		if err := rows.Scan(&success, &duration, &iterations); err != nil {
			return metrics, fmt.Errorf("failed to scan rolling session: %w", err)
		}
		metrics.SessionCount++
		if success {
			successes++
		}
		totalDuration += duration
		totalIterations += float64(iterations)
	}
	if err := rows.Err(); err != nil {
		return metrics, fmt.Errorf("error iterating rolling sessions: %w", err)
	}

	if metrics.SessionCount > 0 {
		n := float64(metrics.SessionCount)
		metrics.SuccessRate = float64(successes) / n
		metrics.AvgDuration = totalDuration / n
		metrics.AvgIterations = totalIterations / n
	}
	return metrics, nil
}
