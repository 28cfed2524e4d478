package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velosovictor/graforest-mcp/internal/backend"
)

func errText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return textContent.Text
}

func TestEnvironmentFromArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		want      string
		wantError bool
	}{
		{"absent defaults to staging", map[string]any{}, backend.EnvStaging, false},
		{"empty defaults to staging", map[string]any{"environment": ""}, backend.EnvStaging, false},
		{"staging", map[string]any{"environment": "staging"}, backend.EnvStaging, false},
		{"production", map[string]any{"environment": "production"}, backend.EnvProduction, false},
		{"outside the enum", map[string]any{"environment": "development"}, "", true},
		{"wrong type defaults to staging", map[string]any{"environment": float64(1)}, backend.EnvStaging, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, errResult := EnvironmentFromArgs(tt.args)
			if tt.wantError {
				require.NotNil(t, errResult)
				assert.Contains(t, errText(t, errResult), "environment must be")
				return
			}
			require.Nil(t, errResult)
			assert.Equal(t, tt.want, env)
		})
	}
}

func TestRequiredString(t *testing.T) {
	value, errResult := RequiredString(map[string]any{"query": "x"}, "query")
	require.Nil(t, errResult)
	assert.Equal(t, "x", value)

	_, errResult = RequiredString(map[string]any{}, "query")
	require.NotNil(t, errResult)
	assert.Equal(t, "query parameter is required", errText(t, errResult))

	_, errResult = RequiredString(map[string]any{"query": ""}, "query")
	require.NotNil(t, errResult)

	_, errResult = RequiredString(map[string]any{"query": 42}, "query")
	require.NotNil(t, errResult)
}

func TestOptionalString(t *testing.T) {
	assert.Equal(t, "x", OptionalString(map[string]any{"title": "x"}, "title"))
	assert.Equal(t, "", OptionalString(map[string]any{}, "title"))
	assert.Equal(t, "", OptionalString(map[string]any{"title": 3}, "title"))
}

func TestIntFromArgs(t *testing.T) {
	assert.Equal(t, 7, IntFromArgs(map[string]any{"limit": float64(7)}, "limit", 50))
	assert.Equal(t, 7, IntFromArgs(map[string]any{"limit": 7}, "limit", 50))
	assert.Equal(t, 50, IntFromArgs(map[string]any{}, "limit", 50))
	assert.Equal(t, 50, IntFromArgs(map[string]any{"limit": "7"}, "limit", 50))
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		wantLimit  int
		wantOffset int
		wantError  string
	}{
		{"defaults", map[string]any{}, backend.DefaultPageSize, 0, ""},
		{"explicit", map[string]any{"limit": float64(10), "offset": float64(5)}, 10, 5, ""},
		{"zero limit falls back", map[string]any{"limit": float64(0)}, backend.DefaultPageSize, 0, ""},
		{"cap is inclusive", map[string]any{"limit": float64(backend.MaxPageSize)}, backend.MaxPageSize, 0, ""},
		{"over the cap", map[string]any{"limit": float64(backend.MaxPageSize + 1)}, 0, 0, "limit must not exceed 500"},
		{"negative limit", map[string]any{"limit": float64(-1)}, 0, 0, "limit must not be negative"},
		{"negative offset", map[string]any{"offset": float64(-1)}, 0, 0, "offset must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, errResult := PageBounds(tt.args)
			if tt.wantError != "" {
				require.NotNil(t, errResult)
				assert.Contains(t, errText(t, errResult), tt.wantError)
				return
			}
			require.Nil(t, errResult)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestClampDepth(t *testing.T) {
	assert.Equal(t, backend.DefaultTraversalDepth, ClampDepth(map[string]any{}))
	assert.Equal(t, 2, ClampDepth(map[string]any{"max_depth": float64(2)}))
	assert.Equal(t, backend.MaxTraversalDepth, ClampDepth(map[string]any{"max_depth": float64(99)}))
	assert.Equal(t, backend.DefaultTraversalDepth, ClampDepth(map[string]any{"max_depth": float64(0)}))
	assert.Equal(t, backend.DefaultTraversalDepth, ClampDepth(map[string]any{"max_depth": float64(-2)}))
}

func TestDirectionFromArgs(t *testing.T) {
	direction, errResult := DirectionFromArgs(map[string]any{})
	require.Nil(t, errResult)
	assert.Equal(t, backend.DirectionBoth, direction)

	for _, want := range []string{backend.DirectionOutgoing, backend.DirectionIncoming, backend.DirectionBoth} {
		direction, errResult = DirectionFromArgs(map[string]any{"direction": want})
		require.Nil(t, errResult)
		assert.Equal(t, want, direction)
	}

	_, errResult = DirectionFromArgs(map[string]any{"direction": "sideways"})
	require.NotNil(t, errResult)
	assert.Equal(t, "direction must be outgoing, incoming, or both", errText(t, errResult))
}
