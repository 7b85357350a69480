package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bugtrail/bugtrail/core"
	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.PatternStore

	mu         sync.Mutex
	engine     *core.Engine
	enginePath string
}

// engineFor returns a retrieval engine for the snapshot path, rebuilding only
// when the path changes between calls.
func (h *toolHandler) engineFor(path string) (*core.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine != nil && h.enginePath == path {
		return h.engine, nil
	}
	engine, err := core.LoadEngine(path, core.EngineOptions{
		MaxK:         h.baseCfg.MaxK,
		MaxTokens:    h.baseCfg.MaxTokens,
		CacheEntries: h.baseCfg.CacheEntries,
	})
	if err != nil {
		return nil, err
	}
	h.engine = engine
	h.enginePath = path
	return engine, nil
}

// splitList parses a comma-separated request argument into trimmed entries.
func splitList(raw string) []string {
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

// queryFromRequest builds the shared query shape used by retrieval and matching.
func queryFromRequest(request mcp.CallToolRequest) *schema.Query {
	return &schema.Query{
		Category:        schema.BugCategory(request.GetString("category", "")),
		ErrorFile:       request.GetString("error_file", ""),
		ErrorMessage:    request.GetString("error_message", ""),
		StackTraceFiles: splitList(request.GetString("stack_trace_files", "")),
	}
}

func (h *toolHandler) handleRetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("codebase", ""); p != "" {
		cfg.CodebasePath = p
	}

	engine, err := h.engineFor(cfg.CodebasePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load codebase: %v", err)), nil
	}

	query := queryFromRequest(request)
	if m := request.GetInt("max_tokens", 0); m > 0 {
		query.MaxTokens = m
	}

	result := engine.RetrieveContext(query, request.GetInt("k", 0))
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecordSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := &schema.DebugSession{
		SessionID:       request.GetString("session_id", ""),
		Repository:      request.GetString("repository", ""),
		BugID:           request.GetString("bug_id", ""),
		Category:        schema.BugCategory(request.GetString("category", "")),
		DurationSeconds: request.GetFloat("duration_seconds", 0),
		Iterations:      request.GetInt("iterations", 0),
		Success:         request.GetBool("success", false),
		FilesExamined:   splitList(request.GetString("files_examined", "")),
		FixApplied:      request.GetString("fix_applied", ""),
		Symptoms:        splitList(request.GetString("symptoms", "")),
		RootCause:       request.GetString("root_cause", ""),
		Confidence:      request.GetFloat("confidence", 0),
	}

	if err := h.store.RecordSession(session); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded session %s", session.SessionID)), nil
}

func (h *toolHandler) handleFindSimilarPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := queryFromRequest(request)
	repository := request.GetString("repository", "")

	topK := request.GetInt("top_k", 0)
	if topK <= 0 {
		topK = h.baseCfg.TopK
	}

	matches, err := h.store.RetrieveSimilarPatterns(query, repository, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pattern lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRepositoryInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := request.GetString("repository", "")
	if repo == "" {
		return mcp.NewToolResultError("repository is required"), nil
	}

	insights, err := h.store.GetRepositoryInsights(repo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insights lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(insights, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
