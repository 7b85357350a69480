package cmd

import (
	"strings"

	"github.com/bugtrail/bugtrail/core"
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// splitCommaList parses a comma-separated flag value into trimmed entries.
func splitCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// queryFromFlags builds the bug report shared by retrieval and pattern matching.
func queryFromFlags() *schema.Query {
	return &schema.Query{
		Category:           schema.BugCategory(viper.GetString("category")),
		ErrorFile:          viper.GetString("error-file"),
		ErrorMessage:       viper.GetString("error-message"),
		ErrorKeywords:      splitCommaList(viper.GetString("keywords")),
		StackTraceFiles:    splitCommaList(viper.GetString("stack-trace-files")),
		ExpectedFiles:      splitCommaList(viper.GetString("expected-files")),
		TemporalSpreadDays: viper.GetFloat64("temporal-spread-days"),
	}
}

// retrieveCmd performs graph-guided context retrieval for a bug report.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve [codebase-path]",
	Short: "Retrieve the code context most relevant to a bug report.",
	Long: `Build a code graph from a codebase snapshot and walk it to find the
context most relevant to a bug report.

Starting from the files named in the bug report (error file, stack trace),
the walk expands outward along structural and co-change edges. The expansion
depth adapts to the bug: concurrency and cross-cutting bugs reach further
than local logic errors. Results are ranked by node importance and query
relevance, then trimmed to a token budget.

Examples:
  # Retrieve context for a concurrency bug
  bugtrail retrieve snapshot.json --category concurrency_issues \
    --error-file internal/worker.go --error-message "deadlock on shutdown"

  # Pin the expansion depth and widen the budget
  bugtrail retrieve snapshot.json --error-file internal/worker.go --k 3 --max-tokens 8000

  # Export the retrieved context as JSON
  bugtrail retrieve snapshot.json --error-file internal/worker.go --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRetrieve(cfg, queryFromFlags(), viper.GetInt("k")); err != nil {
			contract.LogFatal("Cannot run context retrieval", err)
		}
	},
}
