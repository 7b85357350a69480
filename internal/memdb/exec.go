package memdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/outwriter"
	"github.com/bugtrail/bugtrail/schema"
)

// ExecuteRecordSession persists a single debugging session through the global
// store and confirms on stdout.
func ExecuteRecordSession(session *schema.DebugSession) error {
	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}
	if err := store.RecordSession(session); err != nil {
		return err
	}
	fmt.Printf("Recorded session %s\n", session.SessionID)
	return nil
}

// ExecuteFindPatterns looks up stored patterns similar to the query and prints
// matches. It serves as the main entry point for the 'patterns find' command.
func ExecuteFindPatterns(cfg *contract.Config, query *schema.Query) error {
	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}

	start := time.Now()
	matches, err := store.RetrieveSimilarPatterns(query, cfg.Repository, cfg.TopK)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteMatches(matches, cfg, duration)
}

// ExecuteShowPattern prints one stored pattern by ID as indented JSON.
func ExecuteShowPattern(patternID string) error {
	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}

	pattern, err := store.GetPattern(patternID)
	if err != nil {
		return err
	}
	if pattern == nil {
		return fmt.Errorf("no pattern found with ID %q", patternID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pattern)
}

// ExecuteInsights summarizes the configured repository's debugging history and
// prints the report.
func ExecuteInsights(cfg *contract.Config) error {
	if cfg.Repository == "" {
		return errors.New("--repository is required")
	}
	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}

	insights, err := store.GetRepositoryInsights(cfg.Repository)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteInsights(cfg.Repository, insights, cfg)
}

// ExecuteLearnBatch records a JSON file of sessions and promotes recurring
// fix patterns among them. The file holds an array of session objects.
func ExecuteLearnBatch(inputPath string) error {
	if inputPath == "" {
		return errors.New("--input is required")
	}
	store := Manager.GetStore()
	if store == nil {
		return errors.New("pattern store is not initialized")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read batch file %q: %w", inputPath, err)
	}
	var sessions []*schema.DebugSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return fmt.Errorf("failed to parse batch file %q: %w", inputPath, err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("batch file %q contains no sessions", inputPath)
	}

	promoted, err := store.LearnFromBatch(sessions)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %d sessions, promoted %d new patterns\n", len(sessions), promoted)
	return nil
}
