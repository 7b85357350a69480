package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bugtrail/bugtrail/schema"
)

// LoadSnapshot reads a codebase snapshot from a JSON file. The snapshot is
// the graph ingestion contract: files with optional functions, declared
// dependencies and commit history.
func LoadSnapshot(path string) (*schema.CodebaseSnapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("codebase path is required. Pass --codebase or set it in the config file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read codebase snapshot %q: %w", path, err)
	}

	var snapshot schema.CodebaseSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse codebase snapshot %q: %w", path, err)
	}
	if len(snapshot.Files) == 0 {
		return nil, fmt.Errorf("codebase snapshot %q contains no files", path)
	}
	return &snapshot, nil
}

// LoadEngine builds a retrieval engine from a snapshot file in one step.
func LoadEngine(path string, opts EngineOptions) (*Engine, error) {
	snapshot, err := LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return NewEngine(BuildGraph(snapshot), opts), nil
}
