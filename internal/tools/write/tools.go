// Package write implements the bulk-write tools. Writes carry the
// caller's credential, go to the project's graph API, and are attempted
// at most once.
package write

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// RegisterWriteTools registers the bulk-write tools with the MCP server.
//
// Tools registered:
//   - add_knowledge_nodes: Bulk create entities in the knowledge graph
//   - add_knowledge_relationships: Bulk create relationships between entities
func RegisterWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	addNodesTool := mcp.NewTool("add_knowledge_nodes",
		mcp.WithDescription("Bulk create entities in the knowledge graph. The LLM extracts entities from content and provides them here. Each entity needs an entity_id (kebab-case), entity_type (matching schema — e.g., 'Topic', 'Article', 'Author', 'Concept'), and properties dict matching that type's schema fields.\n\nUse get_knowledge_schema first to see available entity types and their fields."),
		mcp.WithTitleAnnotation("Add Knowledge Nodes"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code (e.g., 'abc12345') — from list_knowledge_projects"),
		),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Array of entities to create"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entity_id": map[string]any{
						"type":        "string",
						"description": "Unique ID (kebab-case, e.g., 'machine-learning')",
					},
					"entity_type": map[string]any{
						"type":        "string",
						"description": "Schema entity type (e.g., 'Topic', 'Article')",
					},
					"properties": map[string]any{
						"type":        "object",
						"description": "Entity properties matching the schema fields",
					},
				},
				"required": []string{"entity_id", "entity_type", "properties"},
			}),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(addNodesTool, tools.WrapWithAuditLogging("add_knowledge_nodes", handleAddNodes, sc))

	addRelationshipsTool := mcp.NewTool("add_knowledge_relationships",
		mcp.WithDescription("Bulk create relationships between entities in the knowledge graph. Each relationship needs from_id, to_id (matching existing entity_ids), rel_type (matching schema — e.g., 'AUTHORED', 'COVERS', 'REFERENCES'), and optional properties.\n\nUse get_knowledge_schema first to see available relationship types."),
		mcp.WithTitleAnnotation("Add Knowledge Relationships"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("project_code",
			mcp.Required(),
			mcp.Description("Project code (e.g., 'abc12345') — from list_knowledge_projects"),
		),
		mcp.WithArray("relationships",
			mcp.Required(),
			mcp.Description("Array of relationships to create"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"from_id": map[string]any{
						"type":        "string",
						"description": "Source entity_id",
					},
					"to_id": map[string]any{
						"type":        "string",
						"description": "Target entity_id",
					},
					"rel_type": map[string]any{
						"type":        "string",
						"description": "Relationship type (e.g., 'AUTHORED', 'COVERS')",
					},
					"properties": map[string]any{
						"type":        "object",
						"description": "Optional relationship properties",
					},
				},
				"required": []string{"from_id", "to_id", "rel_type"},
			}),
		),
		tools.EnvironmentParam(),
	)

	s.AddTool(addRelationshipsTool, tools.WrapWithAuditLogging("add_knowledge_relationships", handleAddRelationships, sc))

	return nil
}
