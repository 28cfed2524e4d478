package backend

import "context"

// Environment names accepted by graph operations.
const (
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Traversal directions accepted by Traverse.
const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
	DirectionBoth     = "both"
)

// GraphTarget identifies the graph API a call is routed to: a project,
// an environment, and the caller's bearer key.
type GraphTarget struct {
	ProjectCode string
	Environment string
	APIKey      string
}

// Entity is one node in a bulk-create request.
type Entity struct {
	ID         string         `json:"entity_id"`
	Type       string         `json:"entity_type"`
	Properties map[string]any `json:"properties"`
}

// RelationshipInput is one edge in a bulk-create request.
type RelationshipInput struct {
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Type       string         `json:"rel_type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Node is the normalized node shape returned to MCP consumers.
type Node struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Relationship is the normalized relationship shape returned to MCP
// consumers.
type Relationship struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Properties map[string]any `json:"properties"`
}

// SearchResult is the normalized full-text search response.
type SearchResult struct {
	Nodes []Node `json:"nodes"`
	Total int    `json:"total"`
	Query string `json:"query"`
}

// TraverseQuery describes a graph traversal request.
type TraverseQuery struct {
	StartEntityType string
	StartEntityID   string
	MaxDepth        int
	Direction       string
}

// TraverseResult is the normalized traversal response.
type TraverseResult struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
	Depth         int            `json:"depth"`
}

// FetchMetadata describes the HTTP response a URL fetch produced.
type FetchMetadata struct {
	ContentType string `json:"content_type"`
	StatusCode  int    `json:"status_code"`
}

// FetchResult is the cleaned content of a fetched URL.
type FetchResult struct {
	Text      string        `json:"text"`
	CharCount int           `json:"char_count"`
	Metadata  FetchMetadata `json:"metadata"`
	SourceURL string        `json:"source_url"`
}

// GraphReader covers the idempotent graph operations. Implementations
// retry transient failures per the configured policy.
type GraphReader interface {
	// Schema returns the project's graph schema as the backend reports it.
	Schema(ctx context.Context, target GraphTarget) (map[string]any, error)

	// Statistics returns node and relationship counts by type.
	Statistics(ctx context.Context, target GraphTarget) (map[string]any, error)

	// SearchText runs a full-text search and normalizes the matches.
	SearchText(ctx context.Context, target GraphTarget, query string) (*SearchResult, error)

	// Traverse walks the graph from a start node and normalizes the
	// connected nodes and relationships.
	Traverse(ctx context.Context, target GraphTarget, query TraverseQuery) (*TraverseResult, error)

	// ListEntities lists entities of one type with pagination. Each entry
	// gains an "id" field mirroring entity_id.
	ListEntities(ctx context.Context, target GraphTarget, entityType string, limit, offset int) ([]map[string]any, error)

	// GetEntity fetches a single entity. The result gains an "id" field.
	GetEntity(ctx context.Context, target GraphTarget, entityType, entityID string) (map[string]any, error)
}

// GraphWriter covers the bulk-create operations. Writes are attempted at
// most once; a failure is never retried.
type GraphWriter interface {
	// BulkCreateNodes groups entities by type, chunks each group, and
	// returns created counts per type.
	BulkCreateNodes(ctx context.Context, target GraphTarget, entities []Entity) (map[string]int, error)

	// BulkCreateRelationships does the same for relationships.
	BulkCreateRelationships(ctx context.Context, target GraphTarget, relationships []RelationshipInput) (map[string]int, error)
}

// Provisioner covers project lifecycle operations against the provisioning
// gateway. It authenticates with the gateway's service-account key, never
// the caller's.
type Provisioner interface {
	// ProvisionProject runs the full create, deploy, poll, info workflow
	// and returns the final project info.
	ProvisionProject(ctx context.Context, name, description string) (map[string]any, error)

	// ListProjects returns all projects under the service account.
	ListProjects(ctx context.Context) ([]map[string]any, error)

	// DeleteProject deletes a project and all its resources. Never retried.
	DeleteProject(ctx context.Context, projectID string) error

	// ProjectSchema returns the full schema definition with field types.
	ProjectSchema(ctx context.Context, projectID string) (map[string]any, error)
}

// Fetcher retrieves external URL content without backend credentials.
type Fetcher interface {
	// FetchURL fetches the URL, cleans HTML to text, and truncates the
	// result to the content cap.
	FetchURL(ctx context.Context, rawURL string) (*FetchResult, error)
}

// Client is the full backend facade handed to tool handlers.
type Client interface {
	GraphReader
	GraphWriter
	Provisioner
}

// clientImpl composes the concrete graph and provisioning clients.
type clientImpl struct {
	*GraphAPI
	*ProvisioningClient
}

// NewClient composes a Client from the two concrete backends.
func NewClient(graph *GraphAPI, provisioning *ProvisioningClient) Client {
	return &clientImpl{GraphAPI: graph, ProvisioningClient: provisioning}
}
