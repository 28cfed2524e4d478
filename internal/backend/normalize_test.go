package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNode(t *testing.T) {
	raw := map[string]any{
		"entity_id":         "machine-learning",
		"hierarchical_path": "Topic:TechnicalTopic",
		"name":              "Machine Learning",
	}

	node := NormalizeNode(raw)

	assert.Equal(t, "machine-learning", node.ID)
	assert.Equal(t, []string{"TechnicalTopic"}, node.Labels)
	assert.Equal(t, "machine-learning", node.Properties["id"])
	assert.Equal(t, "Machine Learning", node.Properties["name"])
}

func TestNormalizeNodeWithoutPath(t *testing.T) {
	node := NormalizeNode(map[string]any{"entity_id": "x"})
	assert.Equal(t, []string{"Unknown"}, node.Labels)
}

func TestNormalizeNodeSingleSegmentPath(t *testing.T) {
	node := NormalizeNode(map[string]any{
		"entity_id":         "deep-learning",
		"hierarchical_path": "Topic",
	})
	assert.Equal(t, []string{"Topic"}, node.Labels)
}

func TestNormalizeRelationship(t *testing.T) {
	raw := map[string]any{
		"rel_id":    float64(42),
		"rel_type":  "COVERS",
		"from_id":   "article-1",
		"to_id":     "machine-learning",
		"from_path": "Article",
		"to_path":   "Topic",
		"context":   "introduction",
	}

	rel := NormalizeRelationship(raw)

	assert.Equal(t, "42", rel.ID, "numeric rel_id becomes a string")
	assert.Equal(t, "COVERS", rel.Type)
	assert.Equal(t, "article-1", rel.FromID)
	assert.Equal(t, "machine-learning", rel.ToID)

	// Wire metadata is stripped from properties, domain data survives.
	require.Contains(t, rel.Properties, "context")
	assert.NotContains(t, rel.Properties, "rel_id")
	assert.NotContains(t, rel.Properties, "rel_type")
	assert.NotContains(t, rel.Properties, "from_id")
	assert.NotContains(t, rel.Properties, "to_id")
	assert.NotContains(t, rel.Properties, "from_path")
	assert.NotContains(t, rel.Properties, "to_path")
}

func TestNormalizeRelationshipFallbackFields(t *testing.T) {
	rel := NormalizeRelationship(map[string]any{
		"id":   "abc",
		"type": "AUTHORED",
	})
	assert.Equal(t, "abc", rel.ID)
	assert.Equal(t, "AUTHORED", rel.Type)

	empty := NormalizeRelationship(map[string]any{})
	assert.Equal(t, "0", empty.ID)
}

func TestResolveGraphURL(t *testing.T) {
	tests := []struct {
		name        string
		projectCode string
		environment string
		want        string
	}{
		{
			name:        "staging default",
			projectCode: "abc12345",
			environment: EnvStaging,
			want:        "https://abc12345-staging.rationalbloks.com",
		},
		{
			name:        "production",
			projectCode: "abc12345",
			environment: EnvProduction,
			want:        "https://abc12345.rationalbloks.com",
		},
		{
			name:        "underscores and case normalized",
			projectCode: "My_Project",
			environment: EnvStaging,
			want:        "https://my-project-staging.rationalbloks.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveGraphURL(tt.projectCode, tt.environment))
		})
	}
}
