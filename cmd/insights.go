package cmd

import (
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/spf13/cobra"
)

// insightsCmd summarizes a repository's debugging history.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize a repository's debugging history.",
	Long: `Report what persistent memory knows about one repository.

Displays:
- Total recorded sessions and aggregate success rate
- Rolling success rate and average fix time over the last 30 days
- Most common bug categories
- The repository's known bug patterns

Examples:
  # Summarize a repository
  bugtrail insights --repository acme/payments

  # Export the report as JSON
  bugtrail insights --repository acme/payments --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := memdb.ExecuteInsights(cfg); err != nil {
			contract.LogFatal("Cannot summarize repository", err)
		}
	},
}
