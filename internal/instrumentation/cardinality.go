package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with tool names or project codes.

// ToolFamily represents a classification of tool names for metrics.
type ToolFamily string

// Tool family classifications for metrics cardinality control.
const (
	// FamilyProvisioning covers project lifecycle tools (create, list, delete).
	FamilyProvisioning ToolFamily = "provisioning"

	// FamilyWrite covers bulk node and relationship creation tools.
	FamilyWrite ToolFamily = "write"

	// FamilyRead covers search, schema, statistics, traversal and entity lookups.
	FamilyRead ToolFamily = "read"

	// FamilyIngest covers content ingestion preparation tools.
	FamilyIngest ToolFamily = "ingest"

	// FamilyUtility covers helper tools such as URL fetching.
	FamilyUtility ToolFamily = "utility"

	// FamilyOther represents tool names that don't match any known pattern.
	FamilyOther ToolFamily = "other"
)

// toolFamilies maps each gateway tool name to its family. Unknown names fall
// back to pattern matching in ClassifyToolFamily.
var toolFamilies = map[string]ToolFamily{
	"create_knowledge_project": FamilyProvisioning,
	"list_knowledge_projects":  FamilyProvisioning,
	"delete_knowledge_project": FamilyProvisioning,

	"add_knowledge_nodes":         FamilyWrite,
	"add_knowledge_relationships": FamilyWrite,

	"search_knowledge_graph":   FamilyRead,
	"get_knowledge_schema":     FamilyRead,
	"get_knowledge_statistics": FamilyRead,
	"traverse_knowledge_graph": FamilyRead,
	"list_knowledge_entities":  FamilyRead,
	"get_knowledge_entity":     FamilyRead,

	"ingest_text_content": FamilyIngest,

	"fetch_url_content": FamilyUtility,
}

// ClassifyToolFamily classifies a tool name into a family for metrics.
// This keeps tool metrics bounded even if the tool surface grows, and lets
// dashboards aggregate by concern instead of individual tool names.
//
// Known tool names are mapped directly; unknown names are classified by
// case-insensitive prefix patterns:
//
//	| Pattern                         | Classification |
//	|---------------------------------|----------------|
//	| Prefix: create_, delete_, list_knowledge_projects | provisioning |
//	| Prefix: add_                    | write          |
//	| Prefix: get_, search_, list_, traverse_ | read   |
//	| Prefix: ingest_                 | ingest         |
//	| Prefix: fetch_                  | utility        |
//	| Everything else                 | other          |
func ClassifyToolFamily(name string) string {
	if family, ok := toolFamilies[name]; ok {
		return string(family)
	}

	nameLower := strings.ToLower(name)

	switch {
	case strings.HasPrefix(nameLower, "create_"),
		strings.HasPrefix(nameLower, "delete_"):
		return string(FamilyProvisioning)
	case strings.HasPrefix(nameLower, "add_"):
		return string(FamilyWrite)
	case strings.HasPrefix(nameLower, "get_"),
		strings.HasPrefix(nameLower, "search_"),
		strings.HasPrefix(nameLower, "list_"),
		strings.HasPrefix(nameLower, "traverse_"):
		return string(FamilyRead)
	case strings.HasPrefix(nameLower, "ingest_"):
		return string(FamilyIngest)
	case strings.HasPrefix(nameLower, "fetch_"):
		return string(FamilyUtility)
	}

	return string(FamilyOther)
}

// NormalizeEnvironment reduces environment values to the two deployment
// targets the gateway knows about. Anything unexpected becomes "other" so a
// malformed argument cannot mint a new label value.
func NormalizeEnvironment(environment string) string {
	switch strings.ToLower(environment) {
	case "staging", "":
		return "staging"
	case "production":
		return "production"
	}
	return "other"
}
