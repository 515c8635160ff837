package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/viant/kbgateway/internal/conv"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// Response is the Lambda proxy response returned to the gateway.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// NewResult wraps text in a single-content tool result.
func NewResult(text string, isError bool) *mcpschema.CallToolResult {
	ret := &mcpschema.CallToolResult{
		Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: text}},
	}
	if isError {
		ret.IsError = conv.Pointer(true)
	}
	return ret
}

// ErrorResult reports err as an error tool result.
func ErrorResult(err error) *mcpschema.CallToolResult {
	return NewResult("Error: "+err.Error(), true)
}

func newResponse(text string, err error) (*Response, error) {
	status := http.StatusOK
	result := NewResult(text, false)
	if err != nil {
		status = http.StatusInternalServerError
		result = ErrorResult(err)
	}
	body, mErr := json.Marshal(result)
	if mErr != nil {
		return nil, mErr
	}
	return &Response{StatusCode: status, Body: string(body)}, nil
}
