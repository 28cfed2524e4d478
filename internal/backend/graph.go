package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/velosovictor/graforest-mcp/internal/logging"
)

// Graph API URL patterns. The project code is lowercased with underscores
// replaced by dashes before substitution.
const (
	graphStagingPattern    = "https://%s-staging.rationalbloks.com"
	graphProductionPattern = "https://%s.rationalbloks.com"
)

// traverseRelationshipLimit bounds the best-effort relationship fetch that
// accompanies a traversal.
const traverseRelationshipLimit = 500

// ResolveGraphURL returns the base URL of a project's graph API for the
// given environment.
func ResolveGraphURL(projectCode, environment string) string {
	code := strings.ReplaceAll(strings.ToLower(projectCode), "_", "-")
	if environment == EnvProduction {
		return fmt.Sprintf(graphProductionPattern, code)
	}
	return fmt.Sprintf(graphStagingPattern, code)
}

// GraphAPI is the HTTP client for per-project graph APIs. Reads go through
// the retry policy; writes are attempted at most once.
type GraphAPI struct {
	httpClient *http.Client
	policy     Policy
	logger     *slog.Logger

	// baseURLOverride routes every call to a fixed base URL instead of the
	// per-project pattern. Used by tests.
	baseURLOverride string
}

// GraphOption configures a GraphAPI.
type GraphOption func(*GraphAPI)

// WithGraphHTTPClient sets a custom HTTP client.
func WithGraphHTTPClient(c *http.Client) GraphOption {
	return func(g *GraphAPI) {
		g.httpClient = c
	}
}

// WithGraphBaseURL overrides per-project URL resolution with a fixed base.
func WithGraphBaseURL(base string) GraphOption {
	return func(g *GraphAPI) {
		g.baseURLOverride = base
	}
}

// NewGraphAPI creates a graph API client with the given policy.
func NewGraphAPI(policy Policy, logger *slog.Logger, opts ...GraphOption) *GraphAPI {
	if logger == nil {
		logger = slog.Default()
	}
	g := &GraphAPI{
		httpClient: &http.Client{},
		policy:     policy.normalize(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// baseURL resolves the base URL for a target.
func (g *GraphAPI) baseURL(target GraphTarget) string {
	if g.baseURLOverride != "" {
		return g.baseURLOverride
	}
	return ResolveGraphURL(target.ProjectCode, target.Environment)
}

// doJSON issues one HTTP request with the graph deadline applied, maps
// failures into the taxonomy, and decodes a successful response into out.
func (g *GraphAPI) doJSON(ctx context.Context, operation, method, rawURL, apiKey string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.policy.GraphRequestTimeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &BackendError{Backend: "graph", Operation: operation, Kind: ErrInternal, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return &BackendError{Backend: "graph", Operation: operation, Kind: ErrInternal, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &BackendError{
			Backend:   "graph",
			Operation: operation,
			Kind:      classifyTransportError(err),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &BackendError{
			Backend:    "graph",
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Kind:       classifyStatus(resp.StatusCode),
			Detail:     summarizeBody(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &BackendError{Backend: "graph", Operation: operation, Kind: ErrInternal, Err: err}
		}
	}
	return nil
}

// readJSON wraps doJSON in the retry policy for idempotent operations.
func (g *GraphAPI) readJSON(ctx context.Context, operation, method, rawURL, apiKey string, payload, out any) error {
	return doWithRetry(ctx, g.policy.RetryAttempts, g.policy.RetryBackoff, func() error {
		return g.doJSON(ctx, operation, method, rawURL, apiKey, payload, out)
	})
}

// classifyTransportError maps a transport-level failure onto the taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBackendTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrBackendTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrBackendTimeout
	}
	return ErrBackendUnavailable
}

// Schema returns the project's graph schema verbatim.
func (g *GraphAPI) Schema(ctx context.Context, target GraphTarget) (map[string]any, error) {
	var out map[string]any
	err := g.readJSON(ctx, "get_schema", http.MethodGet,
		g.baseURL(target)+"/schema", target.APIKey, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics returns node and relationship counts by type.
func (g *GraphAPI) Statistics(ctx context.Context, target GraphTarget) (map[string]any, error) {
	var out map[string]any
	err := g.readJSON(ctx, "get_statistics", http.MethodGet,
		g.baseURL(target)+"/api/v1/data/stats", target.APIKey, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SearchText runs a full-text search and normalizes the result.
func (g *GraphAPI) SearchText(ctx context.Context, target GraphTarget, query string) (*SearchResult, error) {
	var out struct {
		Nodes []map[string]any `json:"nodes"`
		Count *int             `json:"count"`
		Query string           `json:"query"`
	}
	err := g.readJSON(ctx, "search_text", http.MethodPost,
		g.baseURL(target)+"/api/v1/data/search/text", target.APIKey,
		map[string]string{"query": query}, &out)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(out.Nodes))
	for _, raw := range out.Nodes {
		nodes = append(nodes, NormalizeNode(raw))
	}

	total := len(nodes)
	if out.Count != nil {
		total = *out.Count
	}
	resultQuery := out.Query
	if resultQuery == "" {
		resultQuery = query
	}

	return &SearchResult{Nodes: nodes, Total: total, Query: resultQuery}, nil
}

// Traverse walks the graph from a start node. The relationship fetch is
// best effort: its failure degrades the result, not the call.
func (g *GraphAPI) Traverse(ctx context.Context, target GraphTarget, query TraverseQuery) (*TraverseResult, error) {
	base := g.baseURL(target)
	startType := strings.ToLower(query.StartEntityType)

	var out struct {
		ConnectedNodes []map[string]any `json:"connected_nodes"`
		MaxDepth       *int             `json:"max_depth"`
	}
	err := g.readJSON(ctx, "traverse", http.MethodPost,
		base+"/api/v1/data/traverse", target.APIKey,
		map[string]any{
			"start_entity_type": startType,
			"start_entity_id":   query.StartEntityID,
			"max_depth":         query.MaxDepth,
			"direction":         query.Direction,
		}, &out)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(out.ConnectedNodes))
	nodeIDs := make(map[string]struct{}, len(out.ConnectedNodes)+1)
	for _, raw := range out.ConnectedNodes {
		node := NormalizeNode(raw)
		nodes = append(nodes, node)
		nodeIDs[node.ID] = struct{}{}
	}
	nodeIDs[query.StartEntityID] = struct{}{}

	relationships := []Relationship{}
	relsURL := fmt.Sprintf("%s/api/v1/nodes/%s/%s/relationships?direction=%s&limit=%d",
		base, startType, url.PathEscape(query.StartEntityID),
		url.QueryEscape(query.Direction), traverseRelationshipLimit)
	var rawRels []map[string]any
	if err := g.doJSON(ctx, "traverse_relationships", http.MethodGet, relsURL, target.APIKey, nil, &rawRels); err != nil {
		g.logger.Debug("could not fetch relationships for traverse", logging.Err(err))
	} else {
		for _, raw := range rawRels {
			rel := NormalizeRelationship(raw)
			_, fromOK := nodeIDs[rel.FromID]
			_, toOK := nodeIDs[rel.ToID]
			if fromOK && toOK {
				relationships = append(relationships, rel)
			}
		}
	}

	depth := query.MaxDepth
	if out.MaxDepth != nil {
		depth = *out.MaxDepth
	}

	return &TraverseResult{Nodes: nodes, Relationships: relationships, Depth: depth}, nil
}

// ListEntities lists entities of one type. Each entry gains an "id" field
// mirroring entity_id.
func (g *GraphAPI) ListEntities(ctx context.Context, target GraphTarget, entityType string, limit, offset int) ([]map[string]any, error) {
	listURL := fmt.Sprintf("%s/api/v1/nodes/%s/?limit=%d&offset=%d",
		g.baseURL(target), strings.ToLower(entityType), limit, offset)

	var out []map[string]any
	if err := g.readJSON(ctx, "list_entities", http.MethodGet, listURL, target.APIKey, nil, &out); err != nil {
		return nil, err
	}

	for _, item := range out {
		id, _ := item["entity_id"].(string)
		item["id"] = id
	}
	return out, nil
}

// GetEntity fetches a single entity and adds an "id" field.
func (g *GraphAPI) GetEntity(ctx context.Context, target GraphTarget, entityType, entityID string) (map[string]any, error) {
	getURL := fmt.Sprintf("%s/api/v1/nodes/%s/%s",
		g.baseURL(target), strings.ToLower(entityType), url.PathEscape(entityID))

	var out map[string]any
	if err := g.readJSON(ctx, "get_entity", http.MethodGet, getURL, target.APIKey, nil, &out); err != nil {
		return nil, err
	}

	if id, ok := out["entity_id"].(string); ok && id != "" {
		out["id"] = id
	} else {
		out["id"] = entityID
	}
	return out, nil
}

// BulkCreateNodes groups entities by type, posts each group in chunks of
// at most MaxBatchSize, and sums the per-chunk created counts. A single
// attempt per chunk; a failed chunk aborts the remainder.
func (g *GraphAPI) BulkCreateNodes(ctx context.Context, target GraphTarget, entities []Entity) (map[string]int, error) {
	base := g.baseURL(target)

	byType, typeOrder := groupEntitiesByType(entities)

	results := make(map[string]int, len(byType))
	for _, entityType := range typeOrder {
		typeEntities := byType[entityType]
		apiType := strings.ToLower(entityType)
		created := 0

		for start := 0; start < len(typeEntities); start += MaxBatchSize {
			end := min(start+MaxBatchSize, len(typeEntities))
			batch := typeEntities[start:end]

			nodes := make([]map[string]any, 0, len(batch))
			for _, e := range batch {
				props := e.Properties
				if props == nil {
					props = map[string]any{}
				}
				nodes = append(nodes, map[string]any{
					"entity_id": e.ID,
					"data":      props,
				})
			}

			var out struct {
				Created *int `json:"created"`
			}
			err := g.doJSON(ctx, "bulk_create_nodes", http.MethodPost,
				base+"/api/v1/data/bulk/nodes/"+apiType, target.APIKey,
				map[string]any{"nodes": nodes}, &out)
			if err != nil {
				return nil, err
			}
			if out.Created != nil {
				created += *out.Created
			} else {
				created += len(batch)
			}
		}

		results[entityType] = created
		g.logger.Info("bulk created nodes",
			logging.EntityType(entityType),
			slog.Int("created", created),
			slog.Int("requested", len(typeEntities)),
		)
	}
	return results, nil
}

// BulkCreateRelationships mirrors BulkCreateNodes for relationships.
func (g *GraphAPI) BulkCreateRelationships(ctx context.Context, target GraphTarget, relationships []RelationshipInput) (map[string]int, error) {
	base := g.baseURL(target)

	byType, typeOrder := groupRelationshipsByType(relationships)

	results := make(map[string]int, len(byType))
	for _, relType := range typeOrder {
		typeRels := byType[relType]
		apiType := strings.ToLower(relType)
		created := 0

		for start := 0; start < len(typeRels); start += MaxBatchSize {
			end := min(start+MaxBatchSize, len(typeRels))
			batch := typeRels[start:end]

			payload := make([]map[string]any, 0, len(batch))
			for _, r := range batch {
				entry := map[string]any{
					"from_id": r.FromID,
					"to_id":   r.ToID,
				}
				if len(r.Properties) > 0 {
					entry["data"] = r.Properties
				}
				payload = append(payload, entry)
			}

			var out struct {
				Created *int `json:"created"`
			}
			err := g.doJSON(ctx, "bulk_create_relationships", http.MethodPost,
				base+"/api/v1/data/bulk/relationships/"+apiType, target.APIKey,
				map[string]any{"relationships": payload}, &out)
			if err != nil {
				return nil, err
			}
			if out.Created != nil {
				created += *out.Created
			} else {
				created += len(batch)
			}
		}

		results[relType] = created
		g.logger.Info("bulk created relationships",
			slog.String("rel_type", relType),
			slog.Int("created", created),
			slog.Int("requested", len(typeRels)),
		)
	}
	return results, nil
}

// groupEntitiesByType groups entities preserving first-seen type order so
// chunking is deterministic.
func groupEntitiesByType(entities []Entity) (map[string][]Entity, []string) {
	byType := make(map[string][]Entity)
	var order []string
	for _, e := range entities {
		if _, seen := byType[e.Type]; !seen {
			order = append(order, e.Type)
		}
		byType[e.Type] = append(byType[e.Type], e)
	}
	return byType, order
}

func groupRelationshipsByType(rels []RelationshipInput) (map[string][]RelationshipInput, []string) {
	byType := make(map[string][]RelationshipInput)
	var order []string
	for _, r := range rels {
		if _, seen := byType[r.Type]; !seen {
			order = append(order, r.Type)
		}
		byType[r.Type] = append(byType[r.Type], r)
	}
	return byType, order
}
