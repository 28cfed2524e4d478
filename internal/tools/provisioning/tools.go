package provisioning

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// RegisterProvisioningTools registers the project lifecycle tools with the
// MCP server.
//
// Tools registered:
//   - create_knowledge_project: Provision a new knowledge graph project
//   - list_knowledge_projects: List all graph projects
//   - delete_knowledge_project: Delete a graph project and all its data
func RegisterProvisioningTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createProjectTool := mcp.NewTool("create_knowledge_project",
		mcp.WithDescription("Provision a new knowledge graph project. Creates a Neo4j graph database with a knowledge-optimized schema (Topics, Articles, Authors, Concepts) and deploys it to staging. May take 30-60 seconds."),
		mcp.WithTitleAnnotation("Create Knowledge Graph Project"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name (e.g., 'AI Research Papers')"),
		),
		mcp.WithString("description",
			mcp.Description("Optional project description"),
		),
	)

	s.AddTool(createProjectTool, tools.WrapWithAuditLogging("create_knowledge_project", handleCreateProject, sc))

	listProjectsTool := mcp.NewTool("list_knowledge_projects",
		mcp.WithDescription("List all graph projects. Shows project IDs, names, codes, and status."),
		mcp.WithTitleAnnotation("List Knowledge Graph Projects"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(listProjectsTool, tools.WrapWithAuditLogging("list_knowledge_projects", handleListProjects, sc))

	deleteProjectTool := mcp.NewTool("delete_knowledge_project",
		mcp.WithDescription("Delete a graph project and ALL its data. DESTRUCTIVE — cannot be undone."),
		mcp.WithTitleAnnotation("Delete Knowledge Graph Project"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project ID to delete (UUID)"),
		),
	)

	s.AddTool(deleteProjectTool, tools.WrapWithAuditLogging("delete_knowledge_project", handleDeleteProject, sc))

	return nil
}
