// Package cmd defines the command-line interface for bugtrail.
package cmd

import (
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the patterns subcommands to the parent patterns command
	patternsCmd.AddCommand(patternsFindCmd)
	patternsCmd.AddCommand(patternsShowCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("codebase", "", "Path to the codebase snapshot JSON file")
	rootCmd.PersistentFlags().StringP("repository", "r", "", "Repository scope for pattern operations")
	rootCmd.PersistentFlags().String("category", "", "Bug category: concurrency_issues, memory_issues, logic_errors, ...")
	rootCmd.PersistentFlags().String("error-file", "", "File path where the error surfaced")
	rootCmd.PersistentFlags().String("error-message", "", "Free-text error message to mine for keywords")
	rootCmd.PersistentFlags().String("keywords", "", "Comma-separated extra search keywords")
	rootCmd.PersistentFlags().String("stack-trace-files", "", "Comma-separated file paths from the stack trace")
	rootCmd.PersistentFlags().Int("max-k", schema.DefaultMaxK, "Upper bound on adaptive expansion depth")
	rootCmd.PersistentFlags().Int("max-tokens", schema.DefaultMaxTokens, "Context token budget for retrieval")
	rootCmd.PersistentFlags().Int("top-k", schema.DefaultTopK, "Number of similar patterns to return")
	rootCmd.PersistentFlags().Float64("confidence-threshold", schema.DefaultConfidenceThreshold, "Minimum similarity kept by the matcher")
	rootCmd.PersistentFlags().Float64("decay-factor", schema.DefaultDecayFactor, "Recency decay base applied per 30 days")
	rootCmd.PersistentFlags().Int("min-pattern-frequency", schema.DefaultMinPatternFrequency, "Batch-mining promotion threshold")
	rootCmd.PersistentFlags().Float64("mined-success-rate", schema.DefaultMinedSuccessRate, "Assumed success rate for mined patterns")
	rootCmd.PersistentFlags().Int("cache-entries", contract.DefaultCacheEntries, "LRU capacity for path and similarity caches")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emojis", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of retrieveCmd to Viper
	retrieveCmd.Flags().Int("k", 0, "Fixed expansion depth (0 = adaptive)")
	retrieveCmd.Flags().Float64("temporal-spread-days", 0, "Days spanned by the suspect commits")
	retrieveCmd.Flags().String("expected-files", "", "Comma-separated files expected in the context, for recall estimation")
	if err := viper.BindPFlags(retrieveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding retrieve flags", err)
	}

	// Bind all flags of recordCmd to Viper
	recordCmd.Flags().String("session-id", "", "Unique session identifier (required)")
	recordCmd.Flags().String("bug-id", "", "External bug identifier")
	recordCmd.Flags().Float64("duration-seconds", 0, "Session duration in seconds")
	recordCmd.Flags().Int("iterations", 0, "Number of debugging iterations taken")
	recordCmd.Flags().Bool("success", false, "Whether the session resolved the bug")
	recordCmd.Flags().String("files-examined", "", "Comma-separated files touched during the session")
	recordCmd.Flags().String("symptoms", "", "Comma-separated observed symptoms")
	recordCmd.Flags().String("root-cause", "", "Identified root cause")
	recordCmd.Flags().String("fix-applied", "", "Free-text description of the applied fix")
	recordCmd.Flags().Float64("fix-confidence", 0, "Confidence in the fix, 0 to 1")
	if err := viper.BindPFlags(recordCmd.Flags()); err != nil {
		contract.LogFatal("Error binding record flags", err)
	}

	// Bind all flags of learnCmd to Viper
	learnCmd.Flags().String("input", "", "Path to a JSON file holding an array of sessions (required)")
	if err := viper.BindPFlags(learnCmd.Flags()); err != nil {
		contract.LogFatal("Error binding learn flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
