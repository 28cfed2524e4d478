package read

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// RegisterReadTools registers the graph read tools with the MCP server.
//
// Tools registered:
//   - search_knowledge_graph: Full-text search across graph nodes
//   - get_knowledge_schema: Get entity types, relationship types, fields
//   - get_knowledge_statistics: Get node/relationship counts by type
//   - traverse_knowledge_graph: Walk connections from a starting node
//   - list_knowledge_entities: List entities of a specific type
//   - get_knowledge_entity: Get a single entity by type and ID
func RegisterReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("search_knowledge_graph",
		mcp.WithDescription("Full-text search across all string properties in the knowledge graph. Returns matching nodes with their types, properties, and relevance scores."),
		mcp.WithTitleAnnotation("Search Knowledge Graph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text (e.g., 'machine learning', 'Python')"),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(searchTool, tools.WrapWithAuditLogging("search_knowledge_graph", handleSearch, sc))

	schemaTool := mcp.NewTool("get_knowledge_schema",
		mcp.WithDescription("Get the full schema — entity types with fields, relationship types with from/to mappings. CALL THIS FIRST before adding nodes or relationships to understand what types and fields are available."),
		mcp.WithTitleAnnotation("Get Knowledge Graph Schema"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(schemaTool, tools.WrapWithAuditLogging("get_knowledge_schema", handleSchema, sc))

	statisticsTool := mcp.NewTool("get_knowledge_statistics",
		mcp.WithDescription("Get node/relationship counts broken down by type. Useful for understanding the graph's size and composition."),
		mcp.WithTitleAnnotation("Get Knowledge Graph Statistics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(statisticsTool, tools.WrapWithAuditLogging("get_knowledge_statistics", handleStatistics, sc))

	traverseTool := mcp.NewTool("traverse_knowledge_graph",
		mcp.WithDescription("Walk the graph from a starting entity, following relationships up to a specified depth. Returns connected nodes and relationships."),
		mcp.WithTitleAnnotation("Traverse Knowledge Graph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		mcp.WithString("start_entity_type",
			mcp.Required(),
			mcp.Description("Entity type of the starting node (e.g., 'Topic')"),
		),
		mcp.WithString("start_entity_id",
			mcp.Required(),
			mcp.Description("Entity ID of the starting node"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum traversal depth (default 3, max 5)"),
			mcp.DefaultNumber(backend.DefaultTraversalDepth),
		),
		mcp.WithString("direction",
			mcp.Enum(backend.DirectionOutgoing, backend.DirectionIncoming, backend.DirectionBoth),
			mcp.DefaultString(backend.DirectionBoth),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(traverseTool, tools.WrapWithAuditLogging("traverse_knowledge_graph", handleTraverse, sc))

	listEntitiesTool := mcp.NewTool("list_knowledge_entities",
		mcp.WithDescription("List entities of a specific type. Use get_knowledge_schema first to see available entity types."),
		mcp.WithTitleAnnotation("List Knowledge Entities"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Entity type to list (e.g., 'Topic', 'Article')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 50)"),
			mcp.DefaultNumber(backend.DefaultPageSize),
		),
		mcp.WithNumber("offset",
			mcp.Description("Offset for pagination"),
			mcp.DefaultNumber(0),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(listEntitiesTool, tools.WrapWithAuditLogging("list_knowledge_entities", handleListEntities, sc))

	getEntityTool := mcp.NewTool("get_knowledge_entity",
		mcp.WithDescription("Get a single entity by type and ID, with all properties."),
		mcp.WithTitleAnnotation("Get Knowledge Entity"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code — from list_knowledge_projects"),
		),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Entity type (e.g., 'Topic', 'Article')"),
		),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("Entity ID"),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(getEntityTool, tools.WrapWithAuditLogging("get_knowledge_entity", handleGetEntity, sc))

	return nil
}
