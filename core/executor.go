package core

import (
	"time"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/internal/outwriter"
	"github.com/bugtrail/bugtrail/schema"
)

// ExecuteRetrieve builds the code graph from the configured snapshot, runs
// adaptive retrieval for the query, and prints results. It serves as the main
// entry point for the 'retrieve' command. kOverride > 0 pins the expansion
// depth instead of the adaptive heuristic.
func ExecuteRetrieve(cfg *contract.Config, query *schema.Query, kOverride int) error {
	start := time.Now()

	engine, err := LoadEngine(cfg.CodebasePath, EngineOptions{
		MaxK:         cfg.MaxK,
		MaxTokens:    cfg.MaxTokens,
		CacheEntries: cfg.CacheEntries,
	})
	if err != nil {
		return err
	}

	result := engine.RetrieveContext(query, kOverride)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRetrieval(result, cfg, duration)
}
