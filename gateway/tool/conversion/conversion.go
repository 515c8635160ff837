package conversion

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/viant/kbgateway/internal/conv"
	schema "github.com/viant/mcp-protocol/schema"
)

// ToolDefinitions converts every tool, failing on the first invalid one.
func ToolDefinitions(tools []schema.Tool) ([]types.ToolDefinition, error) {
	ret := make([]types.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		def, err := ToolDefinition(t)
		if err != nil {
			return nil, err
		}
		ret = append(ret, def)
	}
	return ret, nil
}

// ToolDefinition converts an MCP tool into an AgentCore tool definition.
func ToolDefinition(tool schema.Tool) (types.ToolDefinition, error) {
	if tool.Name == "" {
		return types.ToolDefinition{}, fmt.Errorf("tool name was empty")
	}
	input, err := buildObject(tool.InputSchema.Properties, tool.InputSchema.Required)
	if err != nil {
		return types.ToolDefinition{}, fmt.Errorf("failed to convert input schema of %s: %w", tool.Name, err)
	}
	ret := types.ToolDefinition{
		Name:        aws.String(tool.Name),
		Description: aws.String(conv.Dereference(tool.Description)),
		InputSchema: input,
	}
	if tool.OutputSchema != nil {
		output, err := buildObject(tool.OutputSchema.Properties, tool.OutputSchema.Required)
		if err != nil {
			return types.ToolDefinition{}, fmt.Errorf("failed to convert output schema of %s: %w", tool.Name, err)
		}
		ret.OutputSchema = output
	}
	return ret, nil
}

func buildObject(props map[string]map[string]interface{}, required []string) (*types.SchemaDefinition, error) {
	ret := &types.SchemaDefinition{
		Type:     types.SchemaType("object"),
		Required: append([]string{}, required...),
	}
	if len(props) == 0 {
		ret.Properties = map[string]types.SchemaDefinition{}
		return ret, nil
	}
	keys := make([]string, 0, len(props))
	for name := range props {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	ret.Properties = make(map[string]types.SchemaDefinition, len(keys))
	for _, name := range keys {
		def, err := schemaFromDef(props[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		ret.Properties[name] = *def
	}
	return ret, nil
}

func schemaFromDef(def map[string]interface{}) (*types.SchemaDefinition, error) {
	var typeName string
	switch v := def["type"].(type) {
	case string:
		typeName = v
	case []interface{}:
		if len(v) > 0 {
			typeName, _ = v[0].(string)
		}
	case []string:
		if len(v) > 0 {
			typeName = v[0]
		}
	}

	var ret *types.SchemaDefinition
	switch typeName {
	case "string", "number", "integer", "boolean":
		ret = &types.SchemaDefinition{Type: types.SchemaType(typeName)}
	case "object":
		nested, required := nestedProperties(def)
		obj, err := buildObject(nested, required)
		if err != nil {
			return nil, err
		}
		ret = obj
	case "array":
		items, ok := asMap(def["items"])
		if !ok {
			return nil, fmt.Errorf("array without items")
		}
		item, err := schemaFromDef(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		ret = &types.SchemaDefinition{Type: types.SchemaType("array"), Items: item}
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unsupported type %q", typeName)
	}
	if description, ok := def["description"].(string); ok && description != "" {
		ret.Description = aws.String(description)
	}
	return ret, nil
}

func nestedProperties(def map[string]interface{}) (map[string]map[string]interface{}, []string) {
	var required []string
	switch raw := def["required"].(type) {
	case []string:
		required = raw
	case []interface{}:
		for _, item := range raw {
			if s, ok := item.(string); ok {
				required = append(required, s)
			}
		}
	}
	nested := map[string]map[string]interface{}{}
	if raw, ok := asMap(def["properties"]); ok {
		for k, v := range raw {
			if m, ok := asMap(v); ok {
				nested[k] = m
			}
		}
	}
	return nested, required
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch actual := v.(type) {
	case map[string]interface{}:
		return actual, true
	case map[string]map[string]interface{}:
		ret := make(map[string]interface{}, len(actual))
		for k, item := range actual {
			ret[k] = item
		}
		return ret, true
	}
	return nil, false
}
