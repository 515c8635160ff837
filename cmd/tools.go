package cmd

import (
	"fmt"

	"github.com/viant/kbgateway/gateway/tool"
	"github.com/viant/kbgateway/gateway/tool/conversion"
	"github.com/viant/kbgateway/internal/conv"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// ToolsCmd prints the proxy tool catalogue, one tool or all of them.
type ToolsCmd struct {
	Name    string `short:"n" long:"name" description:"show a single tool"`
	JSON    bool   `long:"json" description:"print MCP tool definitions as JSON"`
	Payload bool   `long:"payload" description:"print the gateway inline tool payload as JSON"`
}

func (c *ToolsCmd) Execute(_ []string) error {
	registry := tool.Default()
	tools := registry.Tools()
	if c.Name != "" {
		selected, err := registry.Select(c.Name)
		if err != nil {
			return err
		}
		tools = selected
	}

	switch {
	case c.Payload:
		definitions, err := conversion.ToolDefinitions(tools)
		if err != nil {
			return err
		}
		printJSON(definitions)
		return nil
	case c.JSON:
		printJSON(tools)
		return nil
	}

	for _, t := range tools {
		fmt.Fprintf(stdout, "%s\t%s\n", t.Name, conv.Dereference(t.Description))
		if c.Name != "" {
			printInputSchema(t)
		}
	}
	return nil
}

func printInputSchema(t mcpschema.Tool) {
	fmt.Fprintf(stdout, "InputSchema:\n%s\n", conv.Indent(t.InputSchema))
}

func printJSON(v interface{}) {
	fmt.Fprintln(stdout, conv.Indent(v))
}
