// Package utility implements the URL content fetching tool. Fetches go
// through the server context's fetcher and never carry backend
// credentials.
package utility

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// RegisterUtilityTools registers the utility tools with the MCP server.
//
// Tools registered:
//   - fetch_url_content: Scrape a URL and extract clean text content
func RegisterUtilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	fetchTool := mcp.NewTool("fetch_url_content",
		mcp.WithDescription("Scrape a URL and extract clean text content. Returns the text for the LLM to read, extract entities from, and then call add_knowledge_nodes/relationships. Also returns metadata (title, author, date)."),
		mcp.WithTitleAnnotation("Fetch URL Content"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL to scrape"),
		),
	)

	s.AddTool(fetchTool, tools.WrapWithAuditLogging("fetch_url_content", handleFetchURL, sc))

	return nil
}
