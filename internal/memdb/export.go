package memdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bugtrail/bugtrail/internal/parquet"
	"github.com/bugtrail/bugtrail/schema"
)

// ExportPatterns writes every stored pattern as a JSON array to path. The
// output round-trips: importing the file and re-exporting produces identical
// records. An empty store writes an empty array.
func (s *Store) ExportPatterns(path string) error {
	if path == "" {
		return fmt.Errorf("export path is required")
	}

	patterns, err := s.ListPatterns()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if patterns == nil {
		patterns = []schema.BugPattern{}
	}
	if err := enc.Encode(patterns); err != nil {
		return fmt.Errorf("failed to write export file %q: %w", path, err)
	}
	return nil
}

// ExecuteMemoryExport exports the pattern store to Parquet files for offline
// analytics. Both tables land next to outputFile with fixed suffixes.
func ExecuteMemoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TableCounts[sessionsTable] == 0 && status.TableCounts[patternsTable] == 0 {
		return errors.New("no debug memory found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total patterns: %d\n", status.TableCounts[patternsTable])
	fmt.Printf("Total sessions: %d\n", status.TableCounts[sessionsTable])

	patterns, err := store.ListPatterns()
	if err != nil {
		return fmt.Errorf("failed to retrieve patterns: %w", err)
	}
	sessions, err := store.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to retrieve sessions: %w", err)
	}

	// Convert to Parquet format
	patternRecords := parquet.ConvertBugPatterns(patterns)
	sessionRecords := parquet.ConvertDebugSessions(sessions)

	patternsFile := outputFile + ".bug_patterns.parquet"
	if err := parquet.WriteBugPatternsParquet(patternRecords, patternsFile); err != nil {
		return fmt.Errorf("failed to write bug patterns: %w", err)
	}
	fmt.Printf("Exported %d patterns to: %s\n", len(patternRecords), patternsFile)

	sessionsFile := outputFile + ".debug_sessions.parquet"
	if err := parquet.WriteDebugSessionsParquet(sessionRecords, sessionsFile); err != nil {
		return fmt.Errorf("failed to write debug sessions: %w", err)
	}
	fmt.Printf("Exported %d sessions to: %s\n", len(sessionRecords), sessionsFile)

	return nil
}
