package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/enfoco/enfoco/internal/gateway"
)

// maxImageBytes matches the HTTP upload limit.
const maxImageBytes = gateway.MaxImageBytes

// handleSearchArchive runs a gateway search over one catalog section.
func (s *Server) handleSearchArchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	key, err := request.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section"), nil
	}

	section, ok := s.catalog.Section(key)
	if !ok || key == "vault" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", key)), nil
	}

	res := s.gateway.Search(ctx, query, section.Dataset(), section.Label)
	return jsonResult(res)
}

// handleSearchVault runs a gateway vault search over the file manifest.
func (s *Server) handleSearchVault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	vault, ok := s.catalog.Section("vault")
	if !ok {
		return mcp.NewToolResultError("vault is not configured"), nil
	}

	res := s.gateway.VaultSearch(ctx, query, vault.Dataset())
	return jsonResult(res)
}

// handleChat answers a question about free context or a book.
func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := request.GetString("message", "")
	contextText := request.GetString("context", "")

	if bookID := request.GetInt("book_id", 0); bookID != 0 {
		desc, ok := s.catalog.BookContext(bookID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no book with id %d", bookID)), nil
		}
		contextText = desc
		if strings.TrimSpace(message) == "" {
			message = gateway.DefaultBookQuestion
		}
	}
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	return mcp.NewToolResultText(s.gateway.Chat(ctx, contextText, message)), nil
}

// handleAnalyzeVisual describes an image given by path or inline base64.
func (s *Server) handleAnalyzeVisual(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		data []byte
		err  error
	)
	if path := request.GetString("path", ""); path != "" {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading image: %v", statErr)), nil
		}
		if info.Size() > maxImageBytes {
			return mcp.NewToolResultError("image exceeds 10 MiB"), nil
		}
		if data, err = os.ReadFile(path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading image: %v", err)), nil
		}
	} else if encoded := request.GetString("image_base64", ""); encoded != "" {
		if data, err = base64.StdEncoding.DecodeString(encoded); err != nil {
			return mcp.NewToolResultError("image_base64 is not valid base64"), nil
		}
		if len(data) > maxImageBytes {
			return mcp.NewToolResultError("image exceeds 10 MiB"), nil
		}
	} else {
		return mcp.NewToolResultError("one of path or image_base64 is required"), nil
	}

	desc := s.gateway.AnalyzeVisual(ctx, data, request.GetString("mime_type", ""))
	return mcp.NewToolResultText(desc), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
