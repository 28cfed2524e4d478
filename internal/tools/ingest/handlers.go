package ingest

import (
	"context"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools"
)

// schemaGroup collapses concurrent schema fetches for the same target
// into a single backend call. Ingestion of a large document is often
// parallelized by the caller, and every chunk needs the same schema.
var schemaGroup singleflight.Group

// SourceInfo describes the ingested text for the extraction result.
type SourceInfo struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	CharCount       int    `json:"char_count"`
	WordCount       int    `json:"word_count"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

// SchemaGuide is the schema vocabulary handed to the extracting model.
type SchemaGuide struct {
	EntityTypes       map[string]EntityTypeInfo       `json:"entity_types"`
	RelationshipTypes map[string]RelationshipTypeInfo `json:"relationship_types"`
	FieldDetails      any                             `json:"field_details"`
}

// EntityTypeInfo maps a schema key to its graph path.
type EntityTypeInfo struct {
	Path string `json:"path"`
}

// RelationshipTypeInfo maps a schema key to its wire name and endpoints.
type RelationshipTypeInfo struct {
	TypeName string `json:"type_name"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// IngestOutput is the ingest_text_content result shape.
type IngestOutput struct {
	Status                 string      `json:"status"`
	ProjectCode            string      `json:"project_code"`
	Source                 SourceInfo  `json:"source"`
	Schema                 SchemaGuide `json:"schema"`
	ExtractionInstructions string      `json:"extraction_instructions"`
}

// handleIngestText handles the ingest_text_content tool request. It
// validates the text size, fetches the project's schema, and returns
// the extraction vocabulary plus instructions. No graph writes happen
// here; the caller follows up with the bulk-write tools.
func handleIngestText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text, errResult := tools.RequiredString(args, "text_content")
	if errResult != nil {
		return errResult, nil
	}
	if len(strings.TrimSpace(text)) < backend.MinIngestChars {
		return mcp.NewToolResultError("Text content too short — provide at least 50 characters"), nil
	}
	if len(text) > backend.MaxContentChars {
		p := message.NewPrinter(language.English)
		return mcp.NewToolResultError(p.Sprintf(
			"Text content too large (%d chars). Maximum is %d chars. Split into smaller chunks and call ingest_text_content multiple times.",
			len(text), backend.MaxContentChars,
		)), nil
	}

	sourceTitle := tools.OptionalString(args, "source_title")
	sourceURL := tools.OptionalString(args, "source_url")

	target, errResult := tools.GraphTargetFromRequest(ctx, request, sc)
	if errResult != nil {
		return errResult, nil
	}

	schema, err := fetchSchemaOnce(ctx, sc, target)
	if err != nil {
		return tools.ErrorResult(err), nil
	}

	entityTypes := map[string]EntityTypeInfo{}
	for key, raw := range mapSection(schema, "entities") {
		info := EntityTypeInfo{Path: key}
		if m, ok := raw.(map[string]any); ok {
			if path, ok := m["path"].(string); ok && path != "" {
				info.Path = path
			}
		}
		entityTypes[key] = info
	}

	relationshipTypes := map[string]RelationshipTypeInfo{}
	for key, raw := range mapSection(schema, "relationships") {
		info := RelationshipTypeInfo{TypeName: strings.ToUpper(key)}
		if m, ok := raw.(map[string]any); ok {
			if name, ok := m["type_name"].(string); ok && name != "" {
				info.TypeName = name
			}
			info.From, _ = m["from_path"].(string)
			info.To, _ = m["to_path"].(string)
		}
		relationshipTypes[key] = info
	}

	output := IngestOutput{
		Status:      "ready_for_extraction",
		ProjectCode: target.ProjectCode,
		Source: SourceInfo{
			Title:           sourceTitle,
			URL:             sourceURL,
			CharCount:       len(text),
			WordCount:       len(strings.Fields(text)),
			EstimatedTokens: len(text) / 4,
		},
		Schema: SchemaGuide{
			EntityTypes:       entityTypes,
			RelationshipTypes: relationshipTypes,
			FieldDetails:      fieldGuideFor(ctx, sc, target.ProjectCode),
		},
		ExtractionInstructions: extractionInstructions(entityTypes, relationshipTypes),
	}

	return tools.FormatJSONResult(output)
}

// fetchSchemaOnce fetches the graph schema through the singleflight
// group. The key includes the credential so callers with different keys
// never share a result.
func fetchSchemaOnce(ctx context.Context, sc *server.ServerContext, target backend.GraphTarget) (map[string]any, error) {
	key := target.ProjectCode + "|" + target.Environment + "|" + target.APIKey
	result, err, _ := schemaGroup.Do(key, func() (any, error) {
		return sc.BackendClient().Schema(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	schema, _ := result.(map[string]any)
	return schema, nil
}

// fieldGuideFor builds the field-level extraction guide from the full
// project schema. The lookup is best-effort: any failure falls back to
// pointing the caller at get_knowledge_schema.
func fieldGuideFor(ctx context.Context, sc *server.ServerContext, projectCode string) any {
	const fallback = "Use get_knowledge_schema for field details"

	projects, err := sc.BackendClient().ListProjects(ctx)
	if err != nil {
		sc.Logger().Debug("could not fetch full schema for extraction guide", "error", err)
		return fallback
	}

	var projectID string
	for _, p := range projects {
		if code, _ := p["project_code"].(string); code == projectCode {
			projectID = backend.ProjectIDOf(p)
			break
		}
	}
	if projectID == "" {
		return fallback
	}

	fullSchema, err := sc.BackendClient().ProjectSchema(ctx, projectID)
	if err != nil {
		sc.Logger().Debug("could not fetch full schema for extraction guide", "error", err)
		return fallback
	}

	nodes, ok := fullSchema["nodes"].(map[string]any)
	if !ok {
		return fallback
	}

	guide := map[string]map[string]string{}
	extractFieldGuide(nodes, guide)
	if len(guide) == 0 {
		return fallback
	}
	return guide
}

// extractFieldGuide walks the full schema's node definitions, including
// nested entity types, and records each field as "type" or
// "type (REQUIRED)".
func extractFieldGuide(nodes map[string]any, guide map[string]map[string]string) {
	for key, raw := range nodes {
		val, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fieldSchema, ok := val["schema"].(map[string]any)
		if !ok {
			continue
		}

		fields := map[string]string{}
		for fname, fraw := range fieldSchema {
			ftype := "string"
			required := false
			if fdef, ok := fraw.(map[string]any); ok {
				if t, ok := fdef["type"].(string); ok && t != "" {
					ftype = t
				}
				required, _ = fdef["required"].(bool)
			}
			if required {
				fields[fname] = ftype + " (REQUIRED)"
			} else {
				fields[fname] = ftype
			}
		}
		guide[strings.ToLower(key)] = fields

		for nestedKey, nestedRaw := range val {
			if nested, ok := nestedRaw.(map[string]any); ok {
				if _, hasSchema := nested["schema"]; hasSchema {
					extractFieldGuide(map[string]any{nestedKey: nested}, guide)
				}
			}
		}
	}
}

// extractionInstructions renders the instruction block with the schema
// vocabulary. Type names are sorted so the output is stable.
func extractionInstructions(entityTypes map[string]EntityTypeInfo, relationshipTypes map[string]RelationshipTypeInfo) string {
	entityKeys := make([]string, 0, len(entityTypes))
	for key := range entityTypes {
		entityKeys = append(entityKeys, key)
	}
	sort.Strings(entityKeys)

	relationshipKeys := make([]string, 0, len(relationshipTypes))
	for key := range relationshipTypes {
		relationshipKeys = append(relationshipKeys, key)
	}
	sort.Strings(relationshipKeys)

	return "Extract ALL entities and relationships from the provided text.\n\n" +
		"ENTITY TYPES available: " + strings.Join(entityKeys, ", ") + "\n" +
		"RELATIONSHIP TYPES available: " + strings.Join(relationshipKeys, ", ") + "\n\n" +
		"RULES:\n" +
		"1. Use kebab-case entity_ids (e.g., 'machine-learning', 'iron-fe')\n" +
		"2. Entity types must match the schema keys exactly (lowercase)\n" +
		"3. Include ALL required fields for each entity type\n" +
		"4. Extract as many entities as the text supports — be thorough\n" +
		"5. Create relationships between related entities\n" +
		"6. Relationship from_id and to_id must match entity_ids you created\n\n" +
		"NEXT STEPS:\n" +
		"1. Process the text and extract entities + relationships\n" +
		"2. Call add_knowledge_nodes with ALL extracted entities\n" +
		"3. Call add_knowledge_relationships with ALL extracted relationships"
}

// mapSection returns a named map-valued section of a schema document.
func mapSection(schema map[string]any, key string) map[string]any {
	section, _ := schema[key].(map[string]any)
	return section
}
