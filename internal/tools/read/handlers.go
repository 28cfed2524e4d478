package read

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// EntityListOutput is the list_knowledge_entities result shape.
type EntityListOutput struct {
	Entities []map[string]any `json:"entities"`
	Count    int              `json:"count"`
}

// handleSearch handles the search_knowledge_graph tool request.
func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, errResult := tools.RequiredString(args, "query")
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	result, err := sc.BackendClient().SearchText(ctx, target, query)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(result)
}

// handleSchema handles the get_knowledge_schema tool request. The
// backend's schema document passes through untouched.
func handleSchema(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	schema, err := sc.BackendClient().Schema(ctx, target)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(schema)
}

// handleStatistics handles the get_knowledge_statistics tool request.
func handleStatistics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	stats, err := sc.BackendClient().Statistics(ctx, target)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(stats)
}

// handleTraverse handles the traverse_knowledge_graph tool request.
// Depth is clamped to the hard cap before the backend sees it.
func handleTraverse(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	startType, errResult := tools.RequiredString(args, "start_entity_type")
	if errResult != nil {
		return errResult, nil
	}
	startID, errResult := tools.RequiredString(args, "start_entity_id")
	if errResult != nil {
		return errResult, nil
	}
	direction, errResult := tools.DirectionFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	result, err := sc.BackendClient().Traverse(ctx, target, backend.TraverseQuery{
		StartEntityType: startType,
		StartEntityID:   startID,
		MaxDepth:        tools.ClampDepth(args),
		Direction:       direction,
	})
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(result)
}

// handleListEntities handles the list_knowledge_entities tool request.
func handleListEntities(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityType, errResult := tools.RequiredString(args, "entity_type")
	if errResult != nil {
		return errResult, nil
	}
	limit, offset, errResult := tools.PageBounds(args)
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	entities, err := sc.BackendClient().ListEntities(ctx, target, entityType, limit, offset)
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if entities == nil {
		entities = []map[string]any{}
	}

	return tools.FormatJSONResult(EntityListOutput{
		Entities: entities,
		Count:    len(entities),
	})
}

// handleGetEntity handles the get_knowledge_entity tool request.
func handleGetEntity(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityType, errResult := tools.RequiredString(args, "entity_type")
	if errResult != nil {
		return errResult, nil
	}
	entityID, errResult := tools.RequiredString(args, "entity_id")
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	entity, err := sc.BackendClient().GetEntity(ctx, target, entityType, entityID)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	return tools.FormatJSONResult(entity)
}
