package cmd

import (
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/bugtrail/bugtrail/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recordCmd persists a completed debugging session.
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed debugging session in persistent memory.",
	Long: `Store the outcome of a debugging session so future sessions can learn from it.

Sessions are keyed by --session-id; recording the same ID again overwrites
the previous record. Successful sessions fold into a recurring bug pattern,
updating its frequency, success rate and average fix time. Every session
updates the repository's aggregate memory.

Examples:
  # Record a successful session
  bugtrail record --session-id sess-42 --repository acme/payments \
    --category concurrency_issues --success --duration-seconds 340 \
    --files-examined "internal/worker.go,internal/pool.go" \
    --fix-applied "release the mutex before returning"

  # Record a failed attempt (still counts toward category statistics)
  bugtrail record --session-id sess-43 --repository acme/payments \
    --category memory_issues --duration-seconds 900`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		session := &schema.DebugSession{
			SessionID:       viper.GetString("session-id"),
			Repository:      cfg.Repository,
			BugID:           viper.GetString("bug-id"),
			Category:        schema.BugCategory(viper.GetString("category")),
			DurationSeconds: viper.GetFloat64("duration-seconds"),
			Iterations:      viper.GetInt("iterations"),
			Success:         viper.GetBool("success"),
			FilesExamined:   splitCommaList(viper.GetString("files-examined")),
			Symptoms:        splitCommaList(viper.GetString("symptoms")),
			RootCause:       viper.GetString("root-cause"),
			FixApplied:      viper.GetString("fix-applied"),
			Confidence:      viper.GetFloat64("fix-confidence"),
		}
		if err := memdb.ExecuteRecordSession(session); err != nil {
			contract.LogFatal("Cannot record session", err)
		}
	},
}
