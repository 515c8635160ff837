package proxy

import (
	"context"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/kbgateway/internal/conv"
	protocolclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	mcpschema "github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"
)

// NewMCPHandler returns an MCP handler exposing every catalogued tool. It
// matches the handler factory signature expected by mcp.NewServer.
func (h *Handler) NewMCPHandler(_ context.Context, notifier transport.Notifier, l logger.Logger, cli protocolclient.Operations) (protoserver.Handler, error) {
	impl := protoserver.NewDefaultHandler(notifier, l, cli)
	for _, t := range h.registry.Tools() {
		impl.RegisterToolWithSchema(t.Name, conv.Dereference(t.Description), t.InputSchema, t.OutputSchema, h.toolHandler(t.Name))
	}
	return impl, nil
}

func (h *Handler) toolHandler(name string) func(context.Context, *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
	return func(ctx context.Context, req *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		text, err := h.CallTool(ctx, name, req.Params.Arguments)
		if err != nil {
			return ErrorResult(err), nil
		}
		return NewResult(text, false), nil
	}
}
