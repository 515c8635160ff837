package proxy

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/rs/zerolog/log"
	"github.com/viant/kbgateway/gateway/config"
	"github.com/viant/kbgateway/gateway/tool"
	"github.com/viant/kbgateway/knowledge"
	"github.com/viant/kbgateway/knowledge/format"
)

// Knowledge is the knowledge base service the handler delegates to.
type Knowledge interface {
	ListKnowledgeBases(ctx context.Context) ([]knowledge.KnowledgeBase, error)
	Query(ctx context.Context, request *knowledge.QueryRequest) (*knowledge.QueryResult, error)
}

// Handler serves tool invocations.
type Handler struct {
	knowledge     Knowledge
	defaultKB     string
	defaultNumber int
	registry      *tool.Registry
}

// Option customises a Handler.
type Option func(*Handler)

// WithDefaultKnowledgeBase sets the knowledge base used when a query names none.
func WithDefaultKnowledgeBase(id string) Option {
	return func(h *Handler) {
		h.defaultKB = id
	}
}

// WithRegistry replaces the tool catalogue exposed by the MCP server.
func WithRegistry(registry *tool.Registry) Option {
	return func(h *Handler) {
		h.registry = registry
	}
}

// New creates a Handler.
func New(kb Knowledge, opts ...Option) *Handler {
	h := &Handler{knowledge: kb, defaultNumber: tool.DefaultNumberOfResults}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = tool.Default()
	}
	return h
}

// Invoke is the Lambda entry point.
func (h *Handler) Invoke(ctx context.Context, event map[string]interface{}) (*Response, error) {
	log.Info().Interface("event", event).Msg("received event")
	request, err := DecodeRequest(event)
	if err != nil {
		log.Error().Err(err).Msg("invalid event")
		return newResponse("", err)
	}
	name := toolName(ctx, request)
	request.ToolName = name.Tool()
	log.Debug().Str("target", name.Target()).Str("tool", request.ToolName).Msg("resolved tool")
	text, err := h.Execute(ctx, request)
	if err != nil {
		log.Error().Err(err).Str("tool", request.ToolName).Msg("tool invocation failed")
	}
	return newResponse(text, err)
}

// CallTool runs the named tool with MCP-style arguments.
func (h *Handler) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	request, err := DecodeRequest(args)
	if err != nil {
		return "", err
	}
	request.ToolName = tool.Name(name).Tool()
	return h.Execute(ctx, request)
}

// Execute dispatches request by tool name or, when no name is known, by the
// shape of its arguments: a query means QueryKnowledgeBases, anything else
// means ListKnowledgeBases.
func (h *Handler) Execute(ctx context.Context, request *Request) (string, error) {
	name := tool.Name(request.ToolName).Tool()
	switch {
	case name == tool.ListKnowledgeBases || (name == "" && request.Query == nil):
		kbs, err := h.knowledge.ListKnowledgeBases(ctx)
		if err != nil {
			return "", err
		}
		log.Info().Str("tool", tool.ListKnowledgeBases).Int("count", len(kbs)).Msg("listed knowledge bases")
		return format.KnowledgeBases(kbs), nil
	case name == tool.QueryKnowledgeBases || request.Query != nil:
		query, err := h.queryRequest(request)
		if err != nil {
			return "", err
		}
		result, err := h.knowledge.Query(ctx, query)
		if err != nil {
			return "", err
		}
		log.Info().Str("tool", tool.QueryKnowledgeBases).
			Str("knowledge_base_id", result.KnowledgeBaseID).
			Int("count", result.Count).
			Msg("queried knowledge base")
		return format.QueryResults(result), nil
	default:
		return "", &RequestError{Message: fmt.Sprintf("Unknown tool or invalid parameters. Tool: %s", name)}
	}
}

func (h *Handler) queryRequest(request *Request) (*knowledge.QueryRequest, error) {
	if request.Query == nil || strings.TrimSpace(*request.Query) == "" {
		return nil, &RequestError{Message: "Missing required parameter: query"}
	}
	kbID := request.KnowledgeBaseID
	if kbID == "" {
		kbID = h.defaultKB
	}
	if kbID == "" {
		return nil, &RequestError{Message: "knowledge_base_id is required when no default knowledge base is configured"}
	}
	number := h.defaultNumber
	if request.NumberOfResults != nil {
		number = *request.NumberOfResults
	}
	switch {
	case number < 1:
		number = 1
	case number > tool.MaxNumberOfResults:
		number = tool.MaxNumberOfResults
	}
	return &knowledge.QueryRequest{
		Query:           *request.Query,
		KnowledgeBaseID: kbID,
		NumberOfResults: number,
	}, nil
}

// NewFromConfig creates a Handler backed by the Bedrock agent clients.
// awsCfg should target the retrieval region.
func NewFromConfig(awsCfg aws.Config, cfg *config.Config, opts ...Option) *Handler {
	kbOpts := []knowledge.Option{knowledge.WithMaxDataSources(cfg.KnowledgeBase.MaxDataSources)}
	if cfg.KnowledgeBase.FilterByTag {
		kbOpts = append(kbOpts, knowledge.WithTagFilter(cfg.KnowledgeBase.TagKey, cfg.KnowledgeBase.TagValue))
	}
	kb := knowledge.New(bedrockagent.NewFromConfig(awsCfg), bedrockagentruntime.NewFromConfig(awsCfg), kbOpts...)
	return New(kb, append([]Option{WithDefaultKnowledgeBase(cfg.KnowledgeBase.DefaultID)}, opts...)...)
}
