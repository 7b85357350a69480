// Package schema has configs, models and global variables for all parts of bugtrail.
package schema

import "time"

// CodeNode represents a single code entity in the dependency graph.
// Nodes are created when the graph is built and carry a computed importance
// score plus an optional temporal weight derived from commit recency.
type CodeNode struct {
	ID             string            // Deterministic hash of the logical path
	Type           NodeType          // file, function, class or module
	Content        string            // Source text associated with the entity
	Metadata       map[string]any    // Free-form attributes (path, language, loc, ...)
	Importance     float64           // PageRank-derived importance (0-1)
	TemporalWeight float64           // Recency weight from commit history
}

// Edge represents a typed, weighted relationship between two code nodes.
type Edge struct {
	Source       string       // Node ID of the edge origin
	Target       string       // Node ID of the edge destination
	Relationship Relationship // contains, imports, calls, ...
	Weight       float64      // Fixed weight from the relationship table
}

// FunctionEntry describes a single function inside a file of a codebase snapshot.
type FunctionEntry struct {
	Content    string `json:"content"`
	Complexity int    `json:"complexity"`
}

// FileEntry describes a single file of a codebase snapshot.
type FileEntry struct {
	Content   string                   `json:"content"`
	LOC       int                      `json:"loc"`
	Language  string                   `json:"language"`
	Functions map[string]FunctionEntry `json:"functions"`
}

// Commit is one historical commit in a codebase snapshot.
type Commit struct {
	Hash    string   `json:"hash"`
	Files   []string `json:"files"`
	Message string   `json:"message"`
}

// CommitHistory holds the commit log of a codebase snapshot.
type CommitHistory struct {
	Commits []Commit `json:"commits"`
}

// CodebaseSnapshot is the graph ingestion contract: a point-in-time view of a
// codebase with declared dependencies and commit history. Dependencies map a
// source path to target paths with their relationship type.
type CodebaseSnapshot struct {
	Files        map[string]FileEntry                `json:"files"`
	Dependencies map[string]map[string]Relationship  `json:"dependencies"`
	History      CommitHistory                       `json:"history"`
}

// ContextItem is a single retrieved code artifact with its relevance score and
// the shortest path from a seed node, when one exists.
type ContextItem struct {
	NodeID         string         `json:"node_id"`
	Type           NodeType       `json:"type"`
	Content        string         `json:"content"`
	RelevanceScore float64        `json:"relevance_score"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	RetrievalPath  []string       `json:"retrieval_path,omitempty"`
}

// RetrievalResult is the full output of a context retrieval call.
// A result with StatusNoStartNodes and an empty context is a normal outcome,
// not an error: it means no seed node could be resolved from the query.
type RetrievalResult struct {
	Status            RetrievalStatus `json:"status"`
	Context           []ContextItem   `json:"context"`
	NodesExplored     int             `json:"nodes_explored"`
	KValue            int             `json:"k_value"`
	RetrievalTime     time.Duration   `json:"retrieval_time"`
	PrecisionEstimate float64         `json:"precision_estimate"`
	RecallEstimate    float64         `json:"recall_estimate"`
}

// GraphStats summarizes a built code graph.
type GraphStats struct {
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
	FileNodes int `json:"file_nodes"`
	FuncNodes int `json:"func_nodes"`
}
