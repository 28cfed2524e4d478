package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools/testdata"
)

const testAPIKey = "gf_sk_abcdefghij0123456789"

const sampleText = "Machine learning is a field of study in artificial intelligence " +
	"concerned with the development of statistical algorithms that learn from data."

func newTestContext(t *testing.T, client *testdata.MockClient) *server.ServerContext {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(),
		server.WithBackendClient(client),
		server.WithFetcher(&testdata.MockFetcher{}),
		server.WithAPIKey(testAPIKey),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent in result, got %T", result.Content[0])
	return textContent.Text
}

func graphSchema() map[string]any {
	return map[string]any{
		"entities": map[string]any{
			"topic":   map[string]any{"path": "Topic"},
			"article": map[string]any{"path": "Article"},
		},
		"relationships": map[string]any{
			"covers": map[string]any{
				"type_name": "COVERS",
				"from_path": "Article",
				"to_path":   "Topic",
			},
		},
	}
}

func TestHandleIngestText(t *testing.T) {
	client := &testdata.MockClient{
		SchemaResult: graphSchema(),
		ProjectsResult: []map[string]any{
			{"id": "proj-1", "project_code": "abc12345", "project_type": "relational"},
		},
		ProjectSchemaResult: map[string]any{
			"nodes": map[string]any{
				"Topic": map[string]any{
					"schema": map[string]any{
						"name":        map[string]any{"type": "string", "required": true},
						"description": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
	sc := newTestContext(t, client)

	result, err := handleIngestText(context.Background(), newRequest(map[string]any{
		"project_code": "abc12345",
		"text_content": sampleText,
		"source_title": "ML overview",
		"source_url":   "https://example.com/ml",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output IngestOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &output))

	assert.Equal(t, "ready_for_extraction", output.Status)
	assert.Equal(t, "abc12345", output.ProjectCode)
	assert.Equal(t, "ML overview", output.Source.Title)
	assert.Equal(t, "https://example.com/ml", output.Source.URL)
	assert.Equal(t, len(sampleText), output.Source.CharCount)
	assert.Equal(t, len(strings.Fields(sampleText)), output.Source.WordCount)
	assert.Equal(t, len(sampleText)/4, output.Source.EstimatedTokens)

	require.Contains(t, output.Schema.EntityTypes, "topic")
	assert.Equal(t, "Topic", output.Schema.EntityTypes["topic"].Path)
	require.Contains(t, output.Schema.RelationshipTypes, "covers")
	assert.Equal(t, "COVERS", output.Schema.RelationshipTypes["covers"].TypeName)
	assert.Equal(t, "Article", output.Schema.RelationshipTypes["covers"].From)
	assert.Equal(t, "Topic", output.Schema.RelationshipTypes["covers"].To)

	fieldDetails, ok := output.Schema.FieldDetails.(map[string]any)
	require.True(t, ok, "expected field details map, got %T", output.Schema.FieldDetails)
	topicFields, ok := fieldDetails["topic"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string (REQUIRED)", topicFields["name"])
	assert.Equal(t, "string", topicFields["description"])

	assert.Contains(t, output.ExtractionInstructions, "ENTITY TYPES available: article, topic")
	assert.Contains(t, output.ExtractionInstructions, "RELATIONSHIP TYPES available: covers")
	assert.Contains(t, output.ExtractionInstructions, "Use kebab-case entity_ids")
	assert.Contains(t, output.ExtractionInstructions, "Call add_knowledge_nodes with ALL extracted entities")

	assert.Equal(t, 1, client.Calls("Schema"))
	assert.Equal(t, 1, client.Calls("ListProjects"))
	assert.Equal(t, 1, client.Calls("ProjectSchema"))
	assert.Equal(t, backend.EnvStaging, client.LastTarget.Environment)
	assert.Equal(t, testAPIKey, client.LastTarget.APIKey)
}

func TestHandleIngestText_TooShort(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleIngestText(context.Background(), newRequest(map[string]any{
		"project_code": "abc12345",
		"text_content": "   short text   ",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Text content too short — provide at least 50 characters", resultText(t, result))
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleIngestText_TooLarge(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleIngestText(context.Background(), newRequest(map[string]any{
		"project_code": "abc12345",
		"text_content": strings.Repeat("a", backend.MaxContentChars+1),
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Text content too large (500,001 chars)")
	assert.Contains(t, text, "Maximum is 500,000 chars")
	assert.Contains(t, text, "Split into smaller chunks")
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleIngestText_MissingText(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleIngestText(context.Background(), newRequest(map[string]any{
		"project_code": "abc12345",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "text_content parameter is required")
}

func TestHandleIngestText_FieldGuideFallback(t *testing.T) {
	tests := []struct {
		name   string
		client *testdata.MockClient
	}{
		{
			name: "project list fails",
			client: &testdata.MockClient{
				SchemaResult: graphSchema(),
				ProjectsErr: &backend.BackendError{
					Backend:   "provisioning",
					Operation: "list_projects",
					Kind:      backend.ErrBackendUnavailable,
				},
			},
		},
		{
			name: "project not found",
			client: &testdata.MockClient{
				SchemaResult:   graphSchema(),
				ProjectsResult: []map[string]any{{"id": "x", "project_code": "other"}},
			},
		},
		{
			name: "full schema missing nodes",
			client: &testdata.MockClient{
				SchemaResult:        graphSchema(),
				ProjectsResult:      []map[string]any{{"id": "proj-1", "project_code": "abc12345"}},
				ProjectSchemaResult: map[string]any{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestContext(t, tt.client)

			result, err := handleIngestText(context.Background(), newRequest(map[string]any{
				"project_code": "abc12345",
				"text_content": sampleText,
			}), sc)
			require.NoError(t, err)
			require.False(t, result.IsError, "field guide failures must not fail the ingest call")

			var output IngestOutput
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &output))
			assert.Equal(t, "Use get_knowledge_schema for field details", output.Schema.FieldDetails)
		})
	}
}

func TestHandleIngestText_SchemaError(t *testing.T) {
	client := &testdata.MockClient{
		SchemaErr: &backend.BackendError{
			Backend:   "graph",
			Operation: "get_schema",
			Kind:      backend.ErrBackendUnavailable,
		},
	}
	sc := newTestContext(t, client)

	result, err := handleIngestText(context.Background(), newRequest(map[string]any{
		"project_code": "schema-error-project",
		"text_content": sampleText,
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "graph backend is currently unavailable")
}

func TestExtractFieldGuide_Nested(t *testing.T) {
	nodes := map[string]any{
		"Course": map[string]any{
			"schema": map[string]any{
				"title": map[string]any{"type": "string", "required": true},
			},
			"Module": map[string]any{
				"schema": map[string]any{
					"order": map[string]any{"type": "number"},
				},
			},
		},
	}

	guide := map[string]map[string]string{}
	extractFieldGuide(nodes, guide)

	require.Contains(t, guide, "course")
	assert.Equal(t, "string (REQUIRED)", guide["course"]["title"])
	require.Contains(t, guide, "module")
	assert.Equal(t, "number", guide["module"]["order"])
}
