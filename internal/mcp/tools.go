package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchArchiveTool defines the search_archive MCP tool.
var searchArchiveTool = mcp.NewTool("search_archive",
	mcp.WithDescription("Search one ENFOCO archive section. Returns the matching records and a one-line insight. An empty query returns the whole section."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text query"),
	),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Archive section to search"),
		mcp.Enum("visual", "sonic", "video", "articles", "books"),
	),
)

// searchVaultTool defines the search_vault MCP tool.
var searchVaultTool = mcp.NewTool("search_vault",
	mcp.WithDescription("Filter the encrypted drive's file manifest. Falls back to a file name match when the model is unavailable."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text query"),
	),
)

// chatTool defines the chat MCP tool.
var chatTool = mcp.NewTool("chat",
	mcp.WithDescription("Ask a short question about a piece of context, or about a library book by id."),
	mcp.WithString("message",
		mcp.Description("Question to ask (defaults to the book theme question when book_id is set)"),
	),
	mcp.WithString("context",
		mcp.Description("Context text the answer should draw on"),
	),
	mcp.WithNumber("book_id",
		mcp.Description("Library book whose description becomes the context"),
	),
)

// analyzeVisualTool defines the analyze_visual MCP tool.
var analyzeVisualTool = mcp.NewTool("analyze_visual",
	mcp.WithDescription("Describe an image for the visual archive in under 50 words."),
	mcp.WithString("path",
		mcp.Description("Path of an image file to read"),
	),
	mcp.WithString("image_base64",
		mcp.Description("Base64 image bytes, used when path is not given"),
	),
	mcp.WithString("mime_type",
		mcp.Description("Image MIME type; detected from the bytes when omitted"),
	),
)
