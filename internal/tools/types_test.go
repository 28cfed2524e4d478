package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosovictor/graforest-mcp/internal/auth"
	"github.com/velosovictor/graforest-mcp/internal/backend"
	"github.com/velosovictor/graforest-mcp/internal/server"
	"github.com/velosovictor/graforest-mcp/internal/tools/testdata"
)

const testAPIKey = "gf_sk_abcdefghij0123456789"

func newTargetRequest(args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func TestFormatJSONResult(t *testing.T) {
	result, err := FormatJSONResult(map[string]any{"count": 3})
	require.NoError(t, err)
	require.False(t, result.IsError)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"count": 3}`, textContent.Text)
}

func TestFormatJSONResult_UnmarshalableValue(t *testing.T) {
	result, err := FormatJSONResult(func() {})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestErrorResult_UsesTaxonomyMessage(t *testing.T) {
	result := ErrorResult(&backend.BackendError{
		Backend:   "graph",
		Operation: "get_schema",
		Kind:      backend.ErrBackendUnavailable,
	})
	require.True(t, result.IsError)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, textContent.Text, "graph backend is currently unavailable")
}

func TestGraphTargetFromRequest(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(),
		server.WithBackendClient(&testdata.MockClient{}),
		server.WithFetcher(&testdata.MockFetcher{}),
		server.WithAPIKey(testAPIKey),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	target, errResult := GraphTargetFromRequest(context.Background(), newTargetRequest(map[string]any{
		"project_code": "abc12345",
		"environment":  "production",
	}), sc)
	require.Nil(t, errResult)
	assert.Equal(t, "abc12345", target.ProjectCode)
	assert.Equal(t, backend.EnvProduction, target.Environment)
	assert.Equal(t, testAPIKey, target.APIKey)
}

func TestGraphTargetFromRequest_MissingProjectCode(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(),
		server.WithBackendClient(&testdata.MockClient{}),
		server.WithFetcher(&testdata.MockFetcher{}),
		server.WithAPIKey(testAPIKey),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	_, errResult := GraphTargetFromRequest(context.Background(), newTargetRequest(map[string]any{}), sc)
	require.NotNil(t, errResult)
	assert.Equal(t, "project_code parameter is required", errText(t, errResult))
}

func TestGraphTargetFromRequest_InvalidEnvironment(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(),
		server.WithBackendClient(&testdata.MockClient{}),
		server.WithFetcher(&testdata.MockFetcher{}),
		server.WithAPIKey(testAPIKey),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	_, errResult := GraphTargetFromRequest(context.Background(), newTargetRequest(map[string]any{
		"project_code": "abc12345",
		"environment":  "development",
	}), sc)
	require.NotNil(t, errResult)
	assert.Contains(t, errText(t, errResult), "environment must be")
}

func TestGraphTargetFromRequest_KeyResolution(t *testing.T) {
	// No static key: the request context must carry the credential.
	sc, err := server.NewServerContext(context.Background(),
		server.WithBackendClient(&testdata.MockClient{}),
		server.WithFetcher(&testdata.MockFetcher{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	ctx := auth.WithAPIKey(context.Background(), testAPIKey)
	target, errResult := GraphTargetFromRequest(ctx, newTargetRequest(map[string]any{
		"project_code": "abc12345",
	}), sc)
	require.Nil(t, errResult)
	assert.Equal(t, testAPIKey, target.APIKey)

	_, errResult = GraphTargetFromRequest(context.Background(), newTargetRequest(map[string]any{
		"project_code": "abc12345",
	}), sc)
	require.NotNil(t, errResult)
	assert.Equal(t, "API key is required", errText(t, errResult))

	badCtx := auth.WithAPIKey(context.Background(), "sk_wrong_prefix_0123456789")
	_, errResult = GraphTargetFromRequest(badCtx, newTargetRequest(map[string]any{
		"project_code": "abc12345",
	}), sc)
	require.NotNil(t, errResult)
	assert.Contains(t, errText(t, errResult), `must start with "gf_sk_"`)
}
