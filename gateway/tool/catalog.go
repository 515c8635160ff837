package tool

import (
	"fmt"

	"github.com/viant/kbgateway/gateway/tool/matcher"
	"github.com/viant/kbgateway/internal/conv"
	"github.com/viant/kbgateway/internal/syncmap"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

const (
	ListKnowledgeBases  = "ListKnowledgeBases"
	QueryKnowledgeBases = "QueryKnowledgeBases"

	DefaultNumberOfResults = 10
	MaxNumberOfResults     = 100
)

// ListKnowledgeBasesTool describes the knowledge base listing tool.
func ListKnowledgeBasesTool() mcpschema.Tool {
	return mcpschema.Tool{
		Name:        ListKnowledgeBases,
		Description: conv.Pointer("List all available Amazon Bedrock Knowledge Bases and their data sources"),
		InputSchema: mcpschema.ToolInputSchema{
			Type:       "object",
			Properties: map[string]map[string]interface{}{},
			Required:   []string{},
		},
	}
}

// QueryKnowledgeBasesTool describes the natural language retrieval tool.
func QueryKnowledgeBasesTool() mcpschema.Tool {
	return mcpschema.Tool{
		Name:        QueryKnowledgeBases,
		Description: conv.Pointer("Query Amazon Bedrock Knowledge Base using natural language. Returns relevant information from the knowledge base."),
		InputSchema: mcpschema.ToolInputSchema{
			Type: "object",
			Properties: map[string]map[string]interface{}{
				"query": {
					"type":        "string",
					"description": "Natural language query to search in the knowledge base",
				},
				"knowledge_base_id": {
					"type":        "string",
					"description": "Knowledge Base ID (optional, uses default if not provided)",
				},
				"number_of_results": {
					"type":        "integer",
					"description": fmt.Sprintf("Number of results to return (default: %d, max: %d)", DefaultNumberOfResults, MaxNumberOfResults),
				},
			},
			Required: []string{"query"},
		},
	}
}

// Registry holds tool definitions by unqualified name.
type Registry struct {
	tools *syncmap.Map[mcpschema.Tool]
}

// NewRegistry returns a registry with the supplied tools.
func NewRegistry(tools ...mcpschema.Tool) *Registry {
	r := &Registry{tools: syncmap.New[mcpschema.Tool]()}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Default returns a registry with every tool the proxy implements.
func Default() *Registry {
	return NewRegistry(ListKnowledgeBasesTool(), QueryKnowledgeBasesTool())
}

// Register adds or replaces a tool.
func (r *Registry) Register(t mcpschema.Tool) {
	r.tools.Set(t.Name, t)
}

// Lookup resolves a bare or target-qualified name.
func (r *Registry) Lookup(name string) (mcpschema.Tool, bool) {
	return r.tools.Get(Name(name).Tool())
}

// Tools returns every tool sorted by name.
func (r *Registry) Tools() []mcpschema.Tool {
	return r.tools.List()
}

// Select returns the named tools in the given order, or all tools when no
// name is given. A name ending in "*" selects every tool with that prefix.
func (r *Registry) Select(names ...string) ([]mcpschema.Tool, error) {
	if len(names) == 0 {
		return r.Tools(), nil
	}
	ret := make([]mcpschema.Tool, 0, len(names))
	for _, name := range names {
		if matcher.IsPattern(name) {
			matched := r.match(Name(name).Tool())
			if len(matched) == 0 {
				return nil, fmt.Errorf("unknown tool name: %s", name)
			}
			ret = append(ret, matched...)
			continue
		}
		t, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown tool name: %s", name)
		}
		ret = append(ret, t)
	}
	return ret, nil
}

func (r *Registry) match(pattern string) []mcpschema.Tool {
	var ret []mcpschema.Tool
	for _, t := range r.Tools() {
		if matcher.Match(pattern, t.Name) {
			ret = append(ret, t)
		}
	}
	return ret
}
