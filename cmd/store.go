package cmd

import (
	"errors"
	"fmt"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/bugtrail/bugtrail/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize persistence with the loaded config
	if err := memdb.InitMemory(backend, connStr, memdb.DefaultOptions()); err != nil {
		return fmt.Errorf("failed to initialize debug memory: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on debug memory management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by retrieval commands. This avoids snapshot
// loading and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persistent debug memory store",
	Long: `Manage the database that holds recorded sessions and learned patterns.

Bugtrail persists every recorded debugging session and the bug patterns
mined from them, enabling cross-session learning and repository insights.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  export  - Export patterns and sessions for analytics
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  bugtrail store status

  # Export for analysis in pandas/DuckDB
  bugtrail store export --output parquet --output-file memory-data`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the debug memory store.

Displays:
- Backend type and connection status
- Row counts for every table
- First and last recorded session timestamps
- Database size (SQLite)

Use this to:
- Verify persistence is enabled and working
- Monitor memory growth over time
- Check database connection health

Examples:
  # Check store status
  bugtrail store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := memdb.Manager.GetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		memdb.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded sessions and learned patterns",
	Long: `Delete all stored debug memory from the configured backend.

This removes:
- All recorded debugging sessions
- All learned bug patterns and their relationships
- Repository aggregates

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the memory tables

Examples:
  # Export before clearing
  bugtrail store export --output-file backup.json
  bugtrail store clear

  # Clear a MySQL store (set connection string via env variable)
  BUGTRAIL_STORE_BACKEND=mysql BUGTRAIL_STORE_DB_CONNECT="..." bugtrail store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := memdb.ClearMemory(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear debug memory", err)
		}
		fmt.Println("Debug memory cleared successfully.")
	},
}

// storeExportCmd exports the store for analytics or backup.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored patterns and sessions for analytics",
	Long: `Export debug memory for use with analytics tools or as a backup.

Two formats are supported, selected by --output:
- json (default): all bug patterns as a JSON array, round-trippable
- parquet: bug patterns and sessions as two Parquet datasets for
  DuckDB, Apache Spark and pandas

Requires: --output-file parameter

Examples:
  # Back up the learned patterns
  bugtrail store export --output-file patterns.json

  # Export to Parquet and query with DuckDB
  bugtrail store export --output parquet --output-file memory
  duckdb -c "SELECT * FROM read_parquet('memory.bug_patterns.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Output == schema.ParquetOut {
			if err := memdb.ExecuteMemoryExport(cfg.OutputFile); err != nil {
				contract.LogFatal("Failed to export debug memory", err)
			}
			return
		}
		if cfg.OutputFile == "" {
			contract.LogFatal("Failed to export debug memory", errors.New("--output-file is required for export command"))
		}
		if err := memdb.Manager.GetStore().ExportPatterns(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export debug memory", err)
		}
		fmt.Printf("Exported patterns to: %s\n", cfg.OutputFile)
	},
}

// storeMigrateCmd runs database migrations for the pattern store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the debug memory store.

Migrations allow:
- Upgrading to new schema versions when Bugtrail is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bugtrail store migrate

  # Migrate to specific version
  bugtrail store migrate --target-version 2

  # Rollback to previous version
  bugtrail store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := memdb.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
