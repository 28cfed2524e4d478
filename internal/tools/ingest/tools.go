// Package ingest implements the text ingestion preparation tool. The
// tool reads the project's schema and returns extraction instructions;
// the actual writes happen through the bulk-write tools afterwards.
package ingest

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// RegisterIngestTools registers the ingestion tool with the MCP server.
//
// Tools registered:
//   - ingest_text_content: Prepare text for the bulk extraction workflow
func RegisterIngestTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	ingestTool := mcp.NewTool("ingest_text_content",
		mcp.WithDescription("BATCH INGESTION — the fast way to populate a knowledge graph.\n\nProvide a large block of text (up to 500k chars) and the project code. This tool fetches the graph schema and returns structured extraction instructions. Then call add_knowledge_nodes and add_knowledge_relationships with the extracted data.\n\n3-CALL WORKFLOW:\n  1. ingest_text_content(project_code, text) → schema + instructions\n  2. add_knowledge_nodes(project_code, entities) → bulk create nodes\n  3. add_knowledge_relationships(project_code, relationships) → bulk create edges\n\nThis replaces per-entity approach. Extract EVERYTHING from the text in one pass, then write it all in two bulk calls."),
		mcp.WithTitleAnnotation("Ingest Text Content"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code (e.g., 'abc12345') — from list_knowledge_projects"),
		),
		mcp.WithString("text_content",
			mcp.Required(),
			mcp.Description("The full text to extract knowledge from (up to 500k chars). Can be a book chapter, article, lecture notes, etc."),
		),
		mcp.WithString("source_title",
			mcp.Description("Optional title/name of the source material"),
		),
		mcp.WithString("source_url",
			mcp.Description("Optional URL of the source material"),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(ingestTool, tools.WrapWithAuditLogging("ingest_text_content", handleIngestText, sc))

	return nil
}
