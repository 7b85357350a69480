package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bugtrail/bugtrail/internal/contract"
	mcp_internal "github.com/bugtrail/bugtrail/internal/mcp"
	"github.com/bugtrail/bugtrail/internal/memdb"
	"github.com/bugtrail/bugtrail/schema"
)

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{
		MaxK:      schema.DefaultMaxK,
		MaxTokens: schema.DefaultMaxTokens,
		TopK:      schema.DefaultTopK,
	}

	store := &memdb.MockPatternStore{}
	s := mcp_internal.NewMCPServer(baseCfg, store)

	ctx := context.Background()

	t.Run("retrieve_context missing codebase", func(t *testing.T) {
		tool := s.GetTool("retrieve_context")
		require.NotNil(t, tool, "Tool retrieve_context should exist")

		res, err := tool.Handler(ctx, callReq("retrieve_context", map[string]any{
			"error_file": "internal/worker.go",
		}))
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "codebase path is required")
	})

	t.Run("record_session forwards to store", func(t *testing.T) {
		tool := s.GetTool("record_session")
		require.NotNil(t, tool)

		store.On("RecordSession", mock.MatchedBy(func(session *schema.DebugSession) bool {
			return session.SessionID == "sess-1" &&
				session.Success &&
				len(session.FilesExamined) == 2
		})).Return(nil).Once()

		res, err := tool.Handler(ctx, callReq("record_session", map[string]any{
			"session_id":     "sess-1",
			"repository":     "acme/payments",
			"category":       "concurrency_issues",
			"success":        true,
			"files_examined": "a.go, b.go",
			"fix_applied":    "release mutex",
		}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "sess-1")
		store.AssertExpectations(t)
	})

	t.Run("find_similar_patterns uses configured top_k", func(t *testing.T) {
		tool := s.GetTool("find_similar_patterns")
		require.NotNil(t, tool)

		store.On("RetrieveSimilarPatterns", mock.Anything, "acme/payments", schema.DefaultTopK).
			Return([]schema.PatternMatch{}, nil).Once()

		res, err := tool.Handler(ctx, callReq("find_similar_patterns", map[string]any{
			"category":   "concurrency_issues",
			"repository": "acme/payments",
		}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		store.AssertExpectations(t)
	})

	t.Run("get_repository_insights missing repository", func(t *testing.T) {
		tool := s.GetTool("get_repository_insights")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callReq("get_repository_insights", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repository is required")
	})
}
