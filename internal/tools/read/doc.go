// Package read implements the idempotent graph read tools.
//
// All six tools carry the caller's credential to the project's graph
// API and are safe to retry; the backend facade retries transient
// failures automatically:
//
//   - search_knowledge_graph: full-text search across node properties
//   - get_knowledge_schema: entity and relationship type catalogue
//   - get_knowledge_statistics: node/relationship counts by type
//   - traverse_knowledge_graph: walk connections from a starting node
//   - list_knowledge_entities: paginated listing of one entity type
//   - get_knowledge_entity: single entity by type and ID
//
// Read tools stay available in read-only mode.
package read
