package provisioning

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// ProjectListItem is one project in the list_knowledge_projects output.
type ProjectListItem struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	ProjectCode string `json:"project_code"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// ProjectListOutput is the list_knowledge_projects result shape.
type ProjectListOutput struct {
	Projects []ProjectListItem `json:"projects"`
	Count    int               `json:"count"`
}

// handleCreateProject handles the create_knowledge_project tool request.
// The backend facade runs the full create, deploy, poll, info workflow.
func handleCreateProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "provisioning"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	name, errResult := tools.RequiredString(args, "name")
	if errResult != nil {
		return errResult, nil
	}
	description := tools.OptionalString(args, "description")

	info, err := sc.BackendClient().ProvisionProject(ctx, name, description)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	graphURL, _ := info["staging_url"].(string)
	if graphURL == "" {
		graphURL, _ = info["graph_api_url"].(string)
	}

	output := map[string]any{
		"project_id":    backend.ProjectIDOf(info),
		"project_code":  info["project_code"],
		"name":          info["name"],
		"status":        "deployed",
		"message":       "Knowledge graph created and deployed to staging",
		"graph_api_url": graphURL,
	}

	return tools.FormatJSONResult(output)
}

// handleListProjects handles the list_knowledge_projects tool request.
// Relational projects under the same account are filtered out.
func handleListProjects(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	projects, err := sc.BackendClient().ListProjects(ctx)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	output := ProjectListOutput{Projects: make([]ProjectListItem, 0, len(projects))}
	for _, p := range projects {
		projectType, ok := p["project_type"].(string)
		if ok && projectType == "relational" {
			continue
		}

		item := ProjectListItem{ProjectID: backend.ProjectIDOf(p)}
		item.Name, _ = p["name"].(string)
		item.ProjectCode, _ = p["project_code"].(string)
		item.Status, _ = p["status"].(string)
		item.CreatedAt, _ = p["created_at"].(string)
		output.Projects = append(output.Projects, item)
	}
	output.Count = len(output.Projects)

	return tools.FormatJSONResult(output)
}

// handleDeleteProject handles the delete_knowledge_project tool request.
// Deletion is destructive and never retried.
func handleDeleteProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "delete"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	projectID, errResult := tools.RequiredString(args, "project_id")
	if errResult != nil {
		return errResult, nil
	}

	if err := sc.BackendClient().DeleteProject(ctx, projectID); err != nil {
		return tools.ErrorResult(err), nil
	}

	output := map[string]any{
		"project_id": projectID,
		"status":     "deleted",
		"message":    "Graph project and all data permanently deleted",
	}

	return tools.FormatJSONResult(output)
}
