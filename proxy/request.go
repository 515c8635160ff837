package proxy

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/viant/kbgateway/gateway/tool"
	"github.com/viant/kbgateway/internal/conv"
)

// ToolNameKey is the client context key the gateway sets to the invoked tool.
const ToolNameKey = "bedrockAgentCoreToolName"

// Request holds the tool arguments carried by an invocation event.
type Request struct {
	ToolName        string  `json:"tool_name,omitempty"`
	Query           *string `json:"query,omitempty"`
	KnowledgeBaseID string  `json:"knowledge_base_id,omitempty"`
	NumberOfResults *int    `json:"number_of_results,omitempty"`
}

// RequestError reports invalid or incomplete tool arguments.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// DecodeRequest converts a raw event into a Request. A query key that is
// present but null still selects the query tool.
func DecodeRequest(event map[string]interface{}) (*Request, error) {
	ret := &Request{}
	if err := conv.Convert(event, ret); err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("invalid tool arguments: %v", err)}
	}
	if _, ok := event["query"]; ok && ret.Query == nil {
		ret.Query = conv.Pointer("")
	}
	return ret, nil
}

// toolName returns the tool named by the event, falling back to the one the
// gateway put in the Lambda client context.
func toolName(ctx context.Context, request *Request) tool.Name {
	if request.ToolName != "" {
		return tool.Name(request.ToolName)
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.ClientContext.Custom != nil {
		return tool.Name(lc.ClientContext.Custom[ToolNameKey])
	}
	return ""
}
