package proxy

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kbgateway/gateway/tool"
	"github.com/viant/kbgateway/knowledge"
	mcp "github.com/viant/mcp"
	mcpclient "github.com/viant/mcp/client"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

func newTestClient(t *testing.T, handler *Handler) mcpclient.Interface {
	t.Helper()
	srv, err := mcp.NewServer(handler.NewMCPHandler, nil)
	require.NoError(t, err)
	cli := srv.AsClient(context.Background())
	_, err = cli.Initialize(context.Background())
	require.NoError(t, err)
	return cli
}

func TestHandler_MCPServer(t *testing.T) {
	ctx := context.Background()
	kb := &fakeKnowledge{kbs: []knowledge.KnowledgeBase{{ID: "KB1", Name: "handbook"}}}
	cli := newTestClient(t, New(kb, WithDefaultKnowledgeBase("KB1")))

	listed, err := cli.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, item := range listed.Tools {
		names = append(names, item.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"ListKnowledgeBases", "QueryKnowledgeBases"}, names)

	res, err := cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      "QueryKnowledgeBases",
		Arguments: mcpschema.CallToolRequestParamsArguments(map[string]interface{}{"query": "vacation", "number_of_results": 3}),
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, "**Query**: vacation")
	require.Len(t, kb.queries, 1)
	assert.Equal(t, 3, kb.queries[0].NumberOfResults)

	res, err = cli.CallTool(ctx, &mcpschema.CallToolRequestParams{Name: "ListKnowledgeBases"})
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].Text, "## 1. handbook")
}

func TestHandler_MCPServer_ErrorResult(t *testing.T) {
	ctx := context.Background()
	cli := newTestClient(t, New(&fakeKnowledge{}, WithDefaultKnowledgeBase("KB1")))

	res, err := cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      "QueryKnowledgeBases",
		Arguments: mcpschema.CallToolRequestParamsArguments(map[string]interface{}{}),
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "Error: Missing required parameter: query", res.Content[0].Text)
	require.NotNil(t, res.IsError)
	assert.True(t, *res.IsError)
}

func TestHandler_MCPServer_Registry(t *testing.T) {
	ctx := context.Background()
	registry := tool.NewRegistry(tool.QueryKnowledgeBasesTool())
	cli := newTestClient(t, New(&fakeKnowledge{}, WithRegistry(registry)))

	listed, err := cli.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed.Tools, 1)
	assert.Equal(t, "QueryKnowledgeBases", listed.Tools[0].Name)
}
