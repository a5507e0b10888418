package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/gateway"
)

// mockGateway implements gateway.Gateway for testing.
type mockGateway struct {
	section  string
	context  string
	message  string
	image    []byte
	mimeType string
}

func (m *mockGateway) Search(_ context.Context, query string, dataset []gateway.Record, section string) gateway.SearchResult {
	m.section = section
	return gateway.SearchResult{Results: dataset[:1], Insight: "matched " + query, Source: gateway.SourceUpstream}
}

func (m *mockGateway) VaultSearch(_ context.Context, _ string, files []gateway.Record) gateway.VaultResult {
	return gateway.VaultResult{Results: files[:1], Comment: "CLEARANCE OK", Source: gateway.SourceUpstream}
}

func (m *mockGateway) Chat(_ context.Context, contextText, message string) string {
	m.context, m.message = contextText, message
	return "answer"
}

func (m *mockGateway) AnalyzeVisual(_ context.Context, image []byte, mimeType string) string {
	m.image, m.mimeType = image, mimeType
	return "described"
}

func newTestServer(t *testing.T) (*Server, *mockGateway) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	gw := &mockGateway{}
	return NewServer(gw, cat), gw
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_archive", searchArchiveTool, "search_archive"},
		{"search_vault", searchVaultTool, "search_vault"},
		{"chat", chatTool, "chat"},
		{"analyze_visual", analyzeVisualTool, "analyze_visual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, gw := newTestServer(t)
	require.NotNil(t, srv.mcp)
	assert.Same(t, gw, srv.gateway)
}

func TestHandleSearchArchive(t *testing.T) {
	srv, gw := newTestServer(t)
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		result, err := srv.handleSearchArchive(ctx, call(map[string]any{"query": "mars", "section": "visual"}))
		require.NoError(t, err)
		require.False(t, result.IsError, "tool error: %v", result.Content)

		var res gateway.SearchResult
		require.NoError(t, json.Unmarshal([]byte(extractText(result)), &res))
		assert.Equal(t, "matched mars", res.Insight)
		assert.Len(t, res.Results, 1)
		assert.Equal(t, "Visual Archive", gw.section)
	})

	t.Run("unknown section", func(t *testing.T) {
		for _, section := range []string{"podcasts", "vault"} {
			result, _ := srv.handleSearchArchive(ctx, call(map[string]any{"query": "x", "section": section}))
			assert.True(t, result.IsError, "section %q", section)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		result, _ := srv.handleSearchArchive(ctx, call(map[string]any{"section": "visual"}))
		assert.True(t, result.IsError)
	})
}

func TestHandleSearchVault(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.handleSearchVault(context.Background(), call(map[string]any{"query": "draft"}))
	require.NoError(t, err)
	assert.Contains(t, extractText(result), "CLEARANCE OK")

	result, _ = srv.handleSearchVault(context.Background(), call(map[string]any{}))
	assert.True(t, result.IsError, "missing query")
}

func TestHandleChat(t *testing.T) {
	srv, gw := newTestServer(t)
	ctx := context.Background()

	result, _ := srv.handleChat(ctx, call(map[string]any{"book_id": float64(303)}))
	require.False(t, result.IsError)
	require.Equal(t, "answer", extractText(result))
	assert.Equal(t, gateway.DefaultBookQuestion, gw.message)
	assert.NotEmpty(t, gw.context, "book context resolved")

	result, _ = srv.handleChat(ctx, call(map[string]any{"context": "c", "message": "why?"}))
	assert.False(t, result.IsError)
	assert.Equal(t, "c", gw.context)
	assert.Equal(t, "why?", gw.message)

	result, _ = srv.handleChat(ctx, call(map[string]any{"book_id": float64(9)}))
	assert.True(t, result.IsError, "unknown book")

	result, _ = srv.handleChat(ctx, call(map[string]any{"context": "c"}))
	assert.True(t, result.IsError, "missing message")
}

func TestHandleAnalyzeVisual(t *testing.T) {
	srv, gw := newTestServer(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "shot.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0644))

	result, _ := srv.handleAnalyzeVisual(ctx, call(map[string]any{"path": path}))
	require.False(t, result.IsError)
	require.Equal(t, "described", extractText(result))
	assert.Equal(t, "GIF89a", string(gw.image))

	encoded := base64.StdEncoding.EncodeToString([]byte("PNGDATA"))
	result, _ = srv.handleAnalyzeVisual(ctx, call(map[string]any{"image_base64": encoded, "mime_type": "image/png"}))
	assert.False(t, result.IsError)
	assert.Equal(t, "PNGDATA", string(gw.image))
	assert.Equal(t, "image/png", gw.mimeType)

	for name, args := range map[string]map[string]any{
		"no input":     {},
		"bad base64":   {"image_base64": "%%%"},
		"missing file": {"path": filepath.Join(t.TempDir(), "nope.png")},
	} {
		result, _ := srv.handleAnalyzeVisual(ctx, call(args))
		assert.True(t, result.IsError, name)
	}
}
