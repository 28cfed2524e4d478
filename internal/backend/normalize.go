package backend

import (
	"fmt"
	"strings"
)

// Wire fields stripped from relationship properties after normalization.
var relationshipMetaFields = map[string]struct{}{
	"rel_id":    {},
	"from_id":   {},
	"to_id":     {},
	"rel_type":  {},
	"from_path": {},
	"to_path":   {},
}

// NormalizeNode converts a raw graph API node into the consumer shape:
// entity_id becomes id, the last segment of hierarchical_path becomes the
// label, and the id is mirrored into properties.
func NormalizeNode(raw map[string]any) Node {
	entityID, _ := raw["entity_id"].(string)
	path, _ := raw["hierarchical_path"].(string)

	label := "Unknown"
	if path != "" {
		segments := strings.Split(path, ":")
		label = segments[len(segments)-1]
	}

	properties := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		properties[k] = v
	}
	properties["id"] = entityID

	return Node{
		ID:         entityID,
		Labels:     []string{label},
		Properties: properties,
	}
}

// NormalizeRelationship converts a raw graph API relationship: rel_id
// becomes a string id, rel_type becomes type, and the wire metadata fields
// are stripped from properties.
func NormalizeRelationship(raw map[string]any) Relationship {
	var id string
	if relID, ok := raw["rel_id"]; ok {
		id = stringifyID(relID)
	} else if rawID, ok := raw["id"]; ok {
		id = stringifyID(rawID)
	} else {
		id = "0"
	}

	relType, _ := raw["rel_type"].(string)
	if relType == "" {
		relType, _ = raw["type"].(string)
	}

	fromID, _ := raw["from_id"].(string)
	toID, _ := raw["to_id"].(string)

	properties := make(map[string]any)
	for k, v := range raw {
		if _, meta := relationshipMetaFields[k]; !meta {
			properties[k] = v
		}
	}

	return Relationship{
		ID:         id,
		Type:       relType,
		FromID:     fromID,
		ToID:       toID,
		Properties: properties,
	}
}

// stringifyID renders a wire id that may arrive as a JSON number or string.
func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	case int:
		return fmt.Sprintf("%d", id)
	case int64:
		return fmt.Sprintf("%d", id)
	default:
		return fmt.Sprintf("%v", id)
	}
}
