package guides

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Static documentation resource URIs.
const (
	GettingStartedURI = "graforest://docs/getting-started"
	KnowledgeGraphURI = "graforest://docs/knowledge-graph"
)

const docsGettingStarted = `# Getting Started with Graforest MCP

## Quick Start

1. Get your API key from https://graforest.ai/settings
2. Set environment variable: export GRAFOREST_API_KEY=gf_sk_...
3. Run the server: graforest-mcp serve

## Tools (13 total)

Graforest MCP provides 13 knowledge graph tools:

- **Provisioning** (3 tools): Create, list, delete knowledge graphs
- **Data Write** (2 tools): Bulk create nodes, bulk create relationships
- **Data Read** (6 tools): Search, traverse, list, get, schema, statistics
- **Ingestion** (1 tool): Text → extraction instructions (3-call workflow)
- **Utility** (1 tool): Fetch URL content for ingestion

## 3-Call Ingestion Workflow (Recommended)

1. ` + "`ingest_text_content(project_code, text)`" + ` → returns schema + instructions
2. Extract ALL entities and relationships from the text in one pass
3. ` + "`add_knowledge_nodes(project_code, entities)`" + ` → bulk create all nodes
4. ` + "`add_knowledge_relationships(project_code, relationships)`" + ` → bulk create all edges

## Need Help?

Visit https://graforest.ai/docs for full documentation.
`

const docsKnowledgeGraph = `# Knowledge Graph Guide

## What is a Knowledge Graph?

A knowledge graph is a structured representation of facts:
- **Nodes** (entities): People, concepts, topics, articles
- **Relationships** (edges): Connections between entities

## Entity Types

Your graph schema defines available entity types. Common patterns:
- Topic, Concept, Article, Author, Person, Organization
- Each type has specific fields (name, description, etc.)

## Relationship Types

Defined in schema with from/to entity types:
- AUTHORED: Author → Article
- COVERS: Article → Topic
- PREREQUISITE_OF: Concept → Concept

## Best Practices

1. Use ` + "`get_knowledge_schema`" + ` first to see available types
2. Use kebab-case entity IDs: 'machine-learning', 'iron-fe'
3. Extract thoroughly — more entities = richer graph
4. Always create relationships between related entities
`

// RegisterResources registers the static documentation resources with
// the MCP server.
//
// Resources registered:
//   - graforest://docs/getting-started: Setup and tool overview
//   - graforest://docs/knowledge-graph: Knowledge graph modeling guide
func RegisterResources(s *mcpserver.MCPServer) error {
	gettingStarted := mcp.NewResource(GettingStartedURI,
		"Getting Started",
		mcp.WithResourceDescription("Setup instructions and tool overview for the Graforest MCP server"),
		mcp.WithMIMEType("text/markdown"),
	)

	s.AddResource(gettingStarted, staticMarkdown(GettingStartedURI, docsGettingStarted))

	knowledgeGraph := mcp.NewResource(KnowledgeGraphURI,
		"Knowledge Graph Guide",
		mcp.WithResourceDescription("How to model entities and relationships in a knowledge graph"),
		mcp.WithMIMEType("text/markdown"),
	)

	s.AddResource(knowledgeGraph, staticMarkdown(KnowledgeGraphURI, docsKnowledgeGraph))

	return nil
}

// staticMarkdown returns a resource handler serving fixed markdown text.
func staticMarkdown(uri, text string) mcpserver.ResourceHandlerFunc {
	return func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}
