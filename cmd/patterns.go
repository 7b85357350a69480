package cmd

import (
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/spf13/cobra"
)

// patternsCmd focused on stored bug patterns.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Query the learned bug patterns",
	Long: `Query the bug patterns learned from recorded debugging sessions.

A pattern aggregates sessions that fixed the same kind of bug: same category,
same files, same fix. Each pattern carries observed symptoms, known fixes,
frequency, success rate and average fix time.

Subcommands:
  find - Find patterns similar to a bug report
  show - Show one pattern by ID

Examples:
  # Find patterns matching a new bug
  bugtrail patterns find --category concurrency_issues --error-file internal/worker.go

  # Inspect a specific pattern
  bugtrail patterns show 1a2b3c4d5e6f7a8b`,
}

// patternsFindCmd matches stored patterns against a bug report.
var patternsFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find stored patterns similar to a bug report, with suggested fixes.",
	Long: `Match a bug report against the pattern store and rank results by similarity.

Similarity combines category agreement, symptom keyword overlap and file
overlap, discounted by how long ago the pattern was last seen and by its
success rate. Matches below the confidence threshold are dropped.

Examples:
  # Match by category and location
  bugtrail patterns find --category concurrency_issues \
    --error-file internal/worker.go --error-message "deadlock"

  # Narrow to one repository, return more matches
  bugtrail patterns find --category memory_issues --repository acme/payments --top-k 10`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := memdb.ExecuteFindPatterns(cfg, queryFromFlags()); err != nil {
			contract.LogFatal("Cannot find similar patterns", err)
		}
	},
}

// patternsShowCmd prints a single pattern by ID.
var patternsShowCmd = &cobra.Command{
	Use:     "show <pattern-id>",
	Short:   "Show one stored pattern as JSON.",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := memdb.ExecuteShowPattern(args[0]); err != nil {
			contract.LogFatal("Cannot show pattern", err)
		}
	},
}
