package cmd

import (
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// learnCmd ingests a batch of sessions and mines recurring patterns.
var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn patterns from a batch of recorded sessions.",
	Long: `Ingest a JSON file of debugging sessions and mine recurring fix patterns.

Every session in the batch is recorded as if passed to 'bugtrail record'.
Fix signatures that recur across enough successful sessions are then promoted
to bug patterns, so a history export from another tool can bootstrap the
pattern store in one pass.

The input file holds a JSON array of session objects:
  [{"session_id": "s1", "repository": "acme/payments", "category": "concurrency_issues",
    "success": true, "fix_applied": "release the mutex", ...}, ...]

Examples:
  # Bootstrap memory from an exported session history
  bugtrail learn --input sessions.json

  # Lower the promotion threshold for a small history
  bugtrail learn --input sessions.json --min-pattern-frequency 2`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := memdb.ExecuteLearnBatch(viper.GetString("input")); err != nil {
			contract.LogFatal("Cannot learn from batch", err)
		}
	},
}
