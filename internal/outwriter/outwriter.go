// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRetrieval prints a context retrieval result using the configured output format.
func (ow *OutWriter) WriteRetrieval(result *schema.RetrievalResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRetrievalResult(result, cfg, duration)
}

// WriteMatches prints similar-pattern matches using the configured output format.
func (ow *OutWriter) WriteMatches(matches []schema.PatternMatch, cfg *contract.Config, duration time.Duration) error {
	return WritePatternMatches(matches, cfg, duration)
}

// WriteInsights prints repository insights using the configured output format.
func (ow *OutWriter) WriteInsights(repo string, insights *schema.RepositoryInsights, cfg *contract.Config) error {
	return WriteRepositoryInsights(repo, insights, cfg)
}
