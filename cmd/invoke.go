package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	mcpschema "github.com/viant/mcp-protocol/schema"
)

// InvokeCmd runs the Lambda proxy handler in-process. The event is supplied
// inline via -i/--input or loaded from a JSON file via -e/--event.
type InvokeCmd struct {
	Tool   string `short:"n" long:"tool" description:"tool name, sets tool_name in the event"`
	Inline string `short:"i" long:"input" description:"inline JSON event (object)"`
	Event  string `short:"e" long:"event" description:"path to JSON event file (use - for stdin)"`
	JSON   bool   `long:"json" description:"print the raw Lambda response as JSON"`
}

func (c *InvokeCmd) Execute(_ []string) error {
	if c.Inline != "" && c.Event != "" {
		return fmt.Errorf("-i/--input and -e/--event are mutually exclusive")
	}
	event, err := c.event()
	if err != nil {
		return err
	}
	if c.Tool != "" {
		event["tool_name"] = c.Tool
	}

	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	handler, err := newProxyHandler(ctx, cfg)
	if err != nil {
		return err
	}
	response, err := handler.Invoke(ctx, event)
	if err != nil {
		return err
	}
	if c.JSON {
		printJSON(response)
		if response.StatusCode != http.StatusOK {
			return fmt.Errorf("tool invocation failed with status %d", response.StatusCode)
		}
		return nil
	}

	result := &mcpschema.CallToolResult{}
	if err := json.Unmarshal([]byte(response.Body), result); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	var text []string
	for _, content := range result.Content {
		text = append(text, content.Text)
	}
	fmt.Fprintln(stdout, strings.Join(text, "\n"))
	if result.IsError != nil && *result.IsError {
		return fmt.Errorf("tool invocation failed with status %d", response.StatusCode)
	}
	return nil
}

func (c *InvokeCmd) event() (map[string]interface{}, error) {
	event := map[string]interface{}{}
	var data []byte
	switch {
	case c.Inline != "":
		data = []byte(c.Inline)
	case c.Event != "":
		var rdr io.Reader
		if c.Event == "-" {
			rdr = stdin
		} else {
			f, err := os.Open(c.Event)
			if err != nil {
				return nil, fmt.Errorf("open event file: %w", err)
			}
			defer f.Close()
			rdr = f
		}
		var err error
		if data, err = io.ReadAll(rdr); err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}
	default:
		return event, nil
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode event JSON: %w", err)
	}
	if event == nil {
		event = map[string]interface{}{}
	}
	return event, nil
}
