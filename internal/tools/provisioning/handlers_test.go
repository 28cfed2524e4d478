package provisioning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools/testdata"
)

// newTestContext builds a server context around the given mock client.
func newTestContext(t *testing.T, client *testdata.MockClient, opts ...server.Option) *server.ServerContext {
	t.Helper()

	base := []server.Option{
		server.WithBackendClient(client),
		server.WithFetcher(&testdata.MockFetcher{}),
	}
	sc, err := server.NewServerContext(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

// resultText extracts the text content from an MCP result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent in result, got %T", result.Content[0])
	return textContent.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	return decoded
}

func TestHandleCreateProject(t *testing.T) {
	client := &testdata.MockClient{
		ProvisionResult: map[string]any{
			"id":           "proj-123",
			"project_code": "abc12345",
			"name":         "Research Papers",
			"staging_url":  "https://abc12345-staging.rationalbloks.com",
		},
	}
	sc := newTestContext(t, client)

	result, err := handleCreateProject(context.Background(), newRequest(map[string]any{
		"name":        "Research Papers",
		"description": "papers graph",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	decoded := decodeResult(t, result)
	assert.Equal(t, "proj-123", decoded["project_id"])
	assert.Equal(t, "abc12345", decoded["project_code"])
	assert.Equal(t, "deployed", decoded["status"])
	assert.Equal(t, "Knowledge graph created and deployed to staging", decoded["message"])
	assert.Equal(t, "https://abc12345-staging.rationalbloks.com", decoded["graph_api_url"])
	assert.Equal(t, 1, client.Calls("ProvisionProject"))
}

func TestHandleCreateProject_MissingName(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleCreateProject(context.Background(), newRequest(map[string]any{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "name parameter is required")
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleCreateProject_ReadOnlyMode(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client, server.WithReadOnlyMode(true))

	result, err := handleCreateProject(context.Background(), newRequest(map[string]any{
		"name": "blocked",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not allowed in read-only mode")
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleCreateProject_BackendError(t *testing.T) {
	client := &testdata.MockClient{
		ProvisionErr: &backend.BackendError{
			Backend:   "provisioning",
			Operation: "provision_project",
			Kind:      backend.ErrBackendUnavailable,
		},
	}
	sc := newTestContext(t, client)

	result, err := handleCreateProject(context.Background(), newRequest(map[string]any{
		"name": "Research Papers",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "provisioning backend is currently unavailable")
}

func TestHandleListProjects_FiltersRelational(t *testing.T) {
	client := &testdata.MockClient{
		ProjectsResult: []map[string]any{
			{
				"id":           "proj-1",
				"name":         "Graph One",
				"project_code": "graph001",
				"status":       "deployed",
				"created_at":   "2026-01-01T00:00:00Z",
			},
			{
				"id":           "proj-2",
				"name":         "Relational DB",
				"project_code": "rel00001",
				"project_type": "relational",
			},
			{
				"id":           "proj-3",
				"name":         "Graph Two",
				"project_code": "graph002",
				"project_type": "graph",
			},
		},
	}
	sc := newTestContext(t, client)

	result, err := handleListProjects(context.Background(), newRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var output ProjectListOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &output))
	assert.Equal(t, 2, output.Count)
	require.Len(t, output.Projects, 2)
	assert.Equal(t, "proj-1", output.Projects[0].ProjectID)
	assert.Equal(t, "graph001", output.Projects[0].ProjectCode)
	assert.Equal(t, "Graph Two", output.Projects[1].Name)
}

func TestHandleListProjects_AllowedInReadOnlyMode(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client, server.WithReadOnlyMode(true))

	result, err := handleListProjects(context.Background(), newRequest(nil), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, 1, client.Calls("ListProjects"))
}

func TestHandleDeleteProject(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleDeleteProject(context.Background(), newRequest(map[string]any{
		"project_id": "proj-42",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	decoded := decodeResult(t, result)
	assert.Equal(t, "proj-42", decoded["project_id"])
	assert.Equal(t, "deleted", decoded["status"])
	assert.Equal(t, "Graph project and all data permanently deleted", decoded["message"])
	assert.Equal(t, "proj-42", client.LastDeletedProjectID)
}

func TestHandleDeleteProject_MissingID(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client)

	result, err := handleDeleteProject(context.Background(), newRequest(map[string]any{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "project_id parameter is required")
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleDeleteProject_ReadOnlyMode(t *testing.T) {
	client := &testdata.MockClient{}
	sc := newTestContext(t, client, server.WithReadOnlyMode(true))

	result, err := handleDeleteProject(context.Background(), newRequest(map[string]any{
		"project_id": "proj-42",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Delete operations are not allowed in read-only mode")
	assert.Equal(t, 0, client.TotalCalls())
}

func TestHandleDeleteProject_NeverRetried(t *testing.T) {
	client := &testdata.MockClient{
		DeleteErr: &backend.BackendError{
			Backend:   "provisioning",
			Operation: "delete_project",
			Kind:      backend.ErrBackendTimeout,
		},
	}
	sc := newTestContext(t, client)

	result, err := handleDeleteProject(context.Background(), newRequest(map[string]any{
		"project_id": "proj-42",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 1, client.Calls("DeleteProject"))
}
