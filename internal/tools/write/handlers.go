package write

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// BulkCreateOutput is the result shape shared by both write tools.
type BulkCreateOutput struct {
	Created      map[string]int `json:"created"`
	TotalCreated int            `json:"total_created"`
	Message      string         `json:"message"`
}

// handleAddNodes handles the add_knowledge_nodes tool request.
func handleAddNodes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "write"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	entities, errResult := parseEntities(args["entities"])
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	created, err := sc.BackendClient().BulkCreateNodes(ctx, target, entities)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	total := 0
	for _, n := range created {
		total += n
	}

	return tools.FormatJSONResult(BulkCreateOutput{
		Created:      created,
		TotalCreated: total,
		Message:      fmt.Sprintf("Created %d nodes across %d types", total, len(created)),
	})
}

// handleAddRelationships handles the add_knowledge_relationships tool request.
func handleAddRelationships(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "write"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	relationships, errResult := parseRelationships(args["relationships"])
	if errResult != nil {
		return errResult, nil
	}

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	created, err := sc.BackendClient().BulkCreateRelationships(ctx, target, relationships)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	total := 0
	for _, n := range created {
		total += n
	}

	return tools.FormatJSONResult(BulkCreateOutput{
		Created:      created,
		TotalCreated: total,
		Message:      fmt.Sprintf("Created %d relationships across %d types", total, len(created)),
	})
}

// parseEntities validates and converts the entities argument. Validation
// failures stop the call before any backend I/O.
func parseEntities(raw any) ([]backend.Entity, *mcp.CallToolResult) {
	items, errResult := batchItems(raw, "entities")
	if errResult != nil {
		return nil, errResult
	}

	entities := make([]backend.Entity, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, mcp.NewToolResultError(fmt.Sprintf("entities[%d] must be an object", i))
		}

		entity := backend.Entity{}
		if entity.ID, ok = obj["entity_id"].(string); !ok || entity.ID == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("entities[%d].entity_id is required", i))
		}
		if entity.Type, ok = obj["entity_type"].(string); !ok || entity.Type == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("entities[%d].entity_type is required", i))
		}
		if entity.Properties, ok = obj["properties"].(map[string]any); !ok {
			return nil, mcp.NewToolResultError(fmt.Sprintf("entities[%d].properties is required", i))
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// parseRelationships validates and converts the relationships argument.
func parseRelationships(raw any) ([]backend.RelationshipInput, *mcp.CallToolResult) {
	items, errResult := batchItems(raw, "relationships")
	if errResult != nil {
		return nil, errResult
	}

	relationships := make([]backend.RelationshipInput, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, mcp.NewToolResultError(fmt.Sprintf("relationships[%d] must be an object", i))
		}

		rel := backend.RelationshipInput{}
		if rel.FromID, ok = obj["from_id"].(string); !ok || rel.FromID == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("relationships[%d].from_id is required", i))
		}
		if rel.ToID, ok = obj["to_id"].(string); !ok || rel.ToID == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("relationships[%d].to_id is required", i))
		}
		if rel.Type, ok = obj["rel_type"].(string); !ok || rel.Type == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("relationships[%d].rel_type is required", i))
		}
		rel.Properties, _ = obj["properties"].(map[string]any)
		relationships = append(relationships, rel)
	}
	return relationships, nil
}

// batchItems applies the shared batch validation: present, an array,
// non-empty, and at most MaxBatchSize long.
func batchItems(raw any, field string) ([]any, *mcp.CallToolResult) {
	items, ok := raw.([]any)
	if !ok {
		return nil, mcp.NewToolResultError(field + " parameter is required and must be an array")
	}
	if len(items) == 0 {
		return nil, mcp.NewToolResultError(field + " must not be empty")
	}
	if len(items) > backend.MaxBatchSize {
		return nil, mcp.NewToolResultError(fmt.Sprintf(
			"%s exceeds the maximum batch size of %d (got %d); split into smaller batches",
			field, backend.MaxBatchSize, len(items)))
	}
	return items, nil
}
