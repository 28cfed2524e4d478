// Package testdata provides mock implementations for testing the tool packages.
package testdata

import (
	"context"
	"sync"

	"github.com/velosovictor/graforest-mcp/internal/backend"
)

// MockClient implements backend.Client for testing. Returns and errors
// are configured per operation; every call is recorded so tests can
// assert how many backend requests a tool produced.
type MockClient struct {
	mu    sync.Mutex
	calls map[string]int

	// GraphReader results
	SchemaResult     map[string]any
	SchemaErr        error
	StatisticsResult map[string]any
	StatisticsErr    error
	SearchResult     *backend.SearchResult
	SearchErr        error
	TraverseResult   *backend.TraverseResult
	TraverseErr      error
	ListResult       []map[string]any
	ListErr          error
	GetResult        map[string]any
	GetErr           error

	// GraphWriter results
	BulkNodesResult map[string]int
	BulkNodesErr    error
	BulkRelsResult  map[string]int
	BulkRelsErr     error

	// Provisioner results
	ProvisionResult     map[string]any
	ProvisionErr        error
	ProjectsResult      []map[string]any
	ProjectsErr         error
	DeleteErr           error
	ProjectSchemaResult map[string]any
	ProjectSchemaErr    error

	// LastTarget records the target of the most recent graph call.
	LastTarget backend.GraphTarget

	// LastEntities and LastRelationships record the most recent bulk inputs.
	LastEntities      []backend.Entity
	LastRelationships []backend.RelationshipInput

	// LastTraverseQuery records the most recent traversal request.
	LastTraverseQuery backend.TraverseQuery

	// LastLimit and LastOffset record the most recent pagination bounds.
	LastLimit  int
	LastOffset int

	// LastDeletedProjectID records the most recent delete target.
	LastDeletedProjectID string
}

var _ backend.Client = (*MockClient)(nil)

func (m *MockClient) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times the named operation was invoked.
func (m *MockClient) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls returns the total number of backend operations invoked.
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Schema implements backend.GraphReader.
func (m *MockClient) Schema(_ context.Context, target backend.GraphTarget) (map[string]any, error) {
	m.record("Schema")
	m.LastTarget = target
	return m.SchemaResult, m.SchemaErr
}

// Statistics implements backend.GraphReader.
func (m *MockClient) Statistics(_ context.Context, target backend.GraphTarget) (map[string]any, error) {
	m.record("Statistics")
	m.LastTarget = target
	return m.StatisticsResult, m.StatisticsErr
}

// SearchText implements backend.GraphReader.
func (m *MockClient) SearchText(_ context.Context, target backend.GraphTarget, query string) (*backend.SearchResult, error) {
	m.record("SearchText")
	m.LastTarget = target
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.SearchResult != nil {
		result := *m.SearchResult
		result.Query = query
		return &result, nil
	}
	return &backend.SearchResult{Nodes: []backend.Node{}, Query: query}, nil
}

// Traverse implements backend.GraphReader.
func (m *MockClient) Traverse(_ context.Context, target backend.GraphTarget, query backend.TraverseQuery) (*backend.TraverseResult, error) {
	m.record("Traverse")
	m.LastTarget = target
	m.LastTraverseQuery = query
	if m.TraverseErr != nil {
		return nil, m.TraverseErr
	}
	if m.TraverseResult != nil {
		result := *m.TraverseResult
		result.Depth = query.MaxDepth
		return &result, nil
	}
	return &backend.TraverseResult{
		Nodes:         []backend.Node{},
		Relationships: []backend.Relationship{},
		Depth:         query.MaxDepth,
	}, nil
}

// ListEntities implements backend.GraphReader.
func (m *MockClient) ListEntities(_ context.Context, target backend.GraphTarget, entityType string, limit, offset int) ([]map[string]any, error) {
	m.record("ListEntities")
	m.LastTarget = target
	m.LastLimit = limit
	m.LastOffset = offset
	return m.ListResult, m.ListErr
}

// GetEntity implements backend.GraphReader.
func (m *MockClient) GetEntity(_ context.Context, target backend.GraphTarget, entityType, entityID string) (map[string]any, error) {
	m.record("GetEntity")
	m.LastTarget = target
	return m.GetResult, m.GetErr
}

// BulkCreateNodes implements backend.GraphWriter.
func (m *MockClient) BulkCreateNodes(_ context.Context, target backend.GraphTarget, entities []backend.Entity) (map[string]int, error) {
	m.record("BulkCreateNodes")
	m.LastTarget = target
	m.LastEntities = entities
	return m.BulkNodesResult, m.BulkNodesErr
}

// BulkCreateRelationships implements backend.GraphWriter.
func (m *MockClient) BulkCreateRelationships(_ context.Context, target backend.GraphTarget, relationships []backend.RelationshipInput) (map[string]int, error) {
	m.record("BulkCreateRelationships")
	m.LastTarget = target
	m.LastRelationships = relationships
	return m.BulkRelsResult, m.BulkRelsErr
}

// ProvisionProject implements backend.Provisioner.
func (m *MockClient) ProvisionProject(_ context.Context, name, description string) (map[string]any, error) {
	m.record("ProvisionProject")
	return m.ProvisionResult, m.ProvisionErr
}

// ListProjects implements backend.Provisioner.
func (m *MockClient) ListProjects(_ context.Context) ([]map[string]any, error) {
	m.record("ListProjects")
	return m.ProjectsResult, m.ProjectsErr
}

// DeleteProject implements backend.Provisioner.
func (m *MockClient) DeleteProject(_ context.Context, projectID string) error {
	m.record("DeleteProject")
	m.LastDeletedProjectID = projectID
	return m.DeleteErr
}

// ProjectSchema implements backend.Provisioner.
func (m *MockClient) ProjectSchema(_ context.Context, projectID string) (map[string]any, error) {
	m.record("ProjectSchema")
	return m.ProjectSchemaResult, m.ProjectSchemaErr
}

// MockFetcher implements backend.Fetcher for testing.
type MockFetcher struct {
	Result   *backend.FetchResult
	Err      error
	CallsN   int
	LastURL  string
	mu       sync.Mutex
}

var _ backend.Fetcher = (*MockFetcher)(nil)

// FetchURL implements backend.Fetcher.
func (m *MockFetcher) FetchURL(_ context.Context, rawURL string) (*backend.FetchResult, error) {
	m.mu.Lock()
	m.CallsN++
	m.LastURL = rawURL
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &backend.FetchResult{
		Text:      "fetched content",
		CharCount: 15,
		Metadata:  backend.FetchMetadata{ContentType: "text/plain", StatusCode: 200},
		SourceURL: rawURL,
	}, nil
}
