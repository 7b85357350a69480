// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bugtrail/bugtrail/internal/contract"
)

// NewMCPServer initializes and configures the Bugtrail MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.PatternStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Bugtrail Debug Memory Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: retrieve_context ---
	s.AddTool(mcp.NewTool("retrieve_context",
		mcp.WithDescription("Retrieve the most relevant code context for a bug report via adaptive graph expansion."),
		mcp.WithString("codebase", mcp.Description("Path to the codebase snapshot JSON (defaults to the configured snapshot).")),
		mcp.WithString("category", mcp.Description("Bug category (concurrency_issues, memory_issues, logic_errors, ...).")),
		mcp.WithString("error_file", mcp.Description("File path where the error surfaced.")),
		mcp.WithString("error_message", mcp.Description("Free-text error message to mine for keywords.")),
		mcp.WithString("stack_trace_files", mcp.Description("Comma-separated file paths from the stack trace.")),
		mcp.WithNumber("k", mcp.Description("Fixed expansion depth. Overrides adaptive depth selection when > 0.")),
		mcp.WithNumber("max_tokens", mcp.Description("Context token budget. Defaults to the configured budget.")),
	), h.handleRetrieveContext)

	// --- 2. Tool: record_session ---
	s.AddTool(mcp.NewTool("record_session",
		mcp.WithDescription("Record a completed debugging session in persistent memory."),
		mcp.WithString("session_id", mcp.Description("Unique session identifier. Re-recording overwrites."), mcp.Required()),
		mcp.WithString("repository", mcp.Description("Repository the session debugged.")),
		mcp.WithString("bug_id", mcp.Description("External bug identifier.")),
		mcp.WithString("category", mcp.Description("Bug category of the session.")),
		mcp.WithNumber("duration_seconds", mcp.Description("Session duration in seconds.")),
		mcp.WithNumber("iterations", mcp.Description("Number of debugging iterations taken.")),
		mcp.WithBoolean("success", mcp.Description("Whether the session resolved the bug.")),
		mcp.WithString("files_examined", mcp.Description("Comma-separated files touched during the session.")),
		mcp.WithString("fix_applied", mcp.Description("Free-text description of the applied fix.")),
		mcp.WithString("symptoms", mcp.Description("Comma-separated observed symptoms.")),
		mcp.WithString("root_cause", mcp.Description("Identified root cause.")),
		mcp.WithNumber("confidence", mcp.Description("Confidence in the fix, 0 to 1.")),
	), h.handleRecordSession)

	// --- 3. Tool: find_similar_patterns ---
	s.AddTool(mcp.NewTool("find_similar_patterns",
		mcp.WithDescription("Find stored bug patterns similar to a bug report, with suggested fixes."),
		mcp.WithString("category", mcp.Description("Bug category to match.")),
		mcp.WithString("error_file", mcp.Description("File path where the error surfaced.")),
		mcp.WithString("error_message", mcp.Description("Free-text error message to mine for keywords.")),
		mcp.WithString("stack_trace_files", mcp.Description("Comma-separated file paths from the stack trace.")),
		mcp.WithString("repository", mcp.Description("Narrow matches to patterns seen in this repository.")),
		mcp.WithNumber("top_k", mcp.Description("Maximum number of matches returned. Defaults to 5.")),
	), h.handleFindSimilarPatterns)

	// --- 4. Tool: get_repository_insights ---
	s.AddTool(mcp.NewTool("get_repository_insights",
		mcp.WithDescription("Summarize a repository's debugging history: rolling metrics, common bug categories and patterns."),
		mcp.WithString("repository", mcp.Description("Repository identifier."), mcp.Required()),
	), h.handleGetRepositoryInsights)

	return s
}

// StartMCPServer starts the Bugtrail MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.PatternStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
