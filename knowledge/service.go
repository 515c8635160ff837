package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/rs/zerolog/log"
)

const (
	defaultNumberOfResults = 10
	maxNumberOfResults     = 100
	listPageSize           = 100
)

// AgentAPI is the subset of the Bedrock agent client used for listing.
type AgentAPI interface {
	ListKnowledgeBases(ctx context.Context, params *bedrockagent.ListKnowledgeBasesInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListKnowledgeBasesOutput, error)
	ListDataSources(ctx context.Context, params *bedrockagent.ListDataSourcesInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListDataSourcesOutput, error)
	GetKnowledgeBase(ctx context.Context, params *bedrockagent.GetKnowledgeBaseInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.GetKnowledgeBaseOutput, error)
	ListTagsForResource(ctx context.Context, params *bedrockagent.ListTagsForResourceInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListTagsForResourceOutput, error)
}

// RetrieveAPI is the subset of the Bedrock agent runtime client used for queries.
type RetrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// Service lists and queries knowledge bases.
type Service struct {
	agent          AgentAPI
	runtime        RetrieveAPI
	tagKey         string
	tagValue       string
	filterByTag    bool
	maxDataSources int32
}

// Option customises a Service.
type Option func(*Service)

// WithTagFilter limits listings to knowledge bases tagged key=value.
func WithTagFilter(key, value string) Option {
	return func(s *Service) {
		s.tagKey = key
		s.tagValue = value
		s.filterByTag = key != ""
	}
}

// WithMaxDataSources caps the data sources reported per knowledge base.
func WithMaxDataSources(n int32) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDataSources = n
		}
	}
}

// New creates a Service.
func New(agent AgentAPI, runtime RetrieveAPI, opts ...Option) *Service {
	s := &Service{agent: agent, runtime: runtime, maxDataSources: 10}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListKnowledgeBases returns every visible knowledge base with its data
// sources. A failure to list data sources only empties that entry.
func (s *Service) ListKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	ret, err := s.listKnowledgeBases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge bases: %w", err)
	}
	return ret, nil
}

func (s *Service) listKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	ret := make([]KnowledgeBase, 0)
	var token *string
	for {
		out, err := s.agent.ListKnowledgeBases(ctx, &bedrockagent.ListKnowledgeBasesInput{
			MaxResults: aws.Int32(listPageSize),
			NextToken:  token,
		})
		if err != nil {
			return nil, err
		}
		for _, summary := range out.KnowledgeBaseSummaries {
			kbID := aws.ToString(summary.KnowledgeBaseId)
			if s.filterByTag {
				included, err := s.isIncluded(ctx, kbID)
				if err != nil {
					return nil, err
				}
				if !included {
					continue
				}
			}
			ret = append(ret, KnowledgeBase{
				ID:          kbID,
				Name:        aws.ToString(summary.Name),
				Description: aws.ToString(summary.Description),
				DataSources: s.dataSources(ctx, kbID),
			})
		}
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		token = out.NextToken
	}
	return ret, nil
}

func (s *Service) dataSources(ctx context.Context, kbID string) []DataSource {
	out, err := s.agent.ListDataSources(ctx, &bedrockagent.ListDataSourcesInput{
		KnowledgeBaseId: aws.String(kbID),
		MaxResults:      aws.Int32(s.maxDataSources),
	})
	if err != nil {
		log.Warn().Err(err).Str("knowledge_base_id", kbID).Msg("failed to list data sources")
		return []DataSource{}
	}
	ret := make([]DataSource, 0, len(out.DataSourceSummaries))
	for _, ds := range out.DataSourceSummaries {
		ret = append(ret, DataSource{
			ID:     aws.ToString(ds.DataSourceId),
			Name:   aws.ToString(ds.Name),
			Status: string(ds.Status),
		})
	}
	return ret
}

func (s *Service) isIncluded(ctx context.Context, kbID string) (bool, error) {
	kb, err := s.agent.GetKnowledgeBase(ctx, &bedrockagent.GetKnowledgeBaseInput{KnowledgeBaseId: aws.String(kbID)})
	if err != nil {
		return false, fmt.Errorf("get knowledge base %s: %w", kbID, err)
	}
	if kb.KnowledgeBase == nil || kb.KnowledgeBase.KnowledgeBaseArn == nil {
		return false, nil
	}
	tags, err := s.agent.ListTagsForResource(ctx, &bedrockagent.ListTagsForResourceInput{ResourceArn: kb.KnowledgeBase.KnowledgeBaseArn})
	if err != nil {
		return false, fmt.Errorf("list tags of %s: %w", kbID, err)
	}
	value, ok := tags.Tags[s.tagKey]
	return ok && strings.EqualFold(value, s.tagValue), nil
}

// Query retrieves passages relevant to request.Query.
func (s *Service) Query(ctx context.Context, request *QueryRequest) (*QueryResult, error) {
	request, err := normalize(request)
	if err != nil {
		return nil, err
	}
	out, err := s.runtime.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(request.KnowledgeBaseID),
		RetrievalQuery:  &runtimetypes.KnowledgeBaseQuery{Text: aws.String(request.Query)},
		RetrievalConfiguration: &runtimetypes.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &runtimetypes.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: aws.Int32(int32(request.NumberOfResults)),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	ret := &QueryResult{
		Query:           request.Query,
		KnowledgeBaseID: request.KnowledgeBaseID,
		Results:         make([]Result, 0, len(out.RetrievalResults)),
	}
	for _, item := range out.RetrievalResults {
		result := Result{Score: aws.ToFloat64(item.Score), Location: location(item.Location)}
		if item.Content != nil {
			result.Content = aws.ToString(item.Content.Text)
		}
		result.Metadata = metadata(item)
		ret.Results = append(ret.Results, result)
	}
	ret.Count = len(ret.Results)
	return ret, nil
}

// normalize validates request and returns a copy with the result count
// defaulted and clamped.
func normalize(request *QueryRequest) (*QueryRequest, error) {
	if request == nil || strings.TrimSpace(request.Query) == "" {
		return nil, errors.New("query is required")
	}
	if request.KnowledgeBaseID == "" {
		return nil, errors.New("knowledge base id is required")
	}
	ret := *request
	switch {
	case ret.NumberOfResults <= 0:
		ret.NumberOfResults = defaultNumberOfResults
	case ret.NumberOfResults > maxNumberOfResults:
		ret.NumberOfResults = maxNumberOfResults
	}
	return &ret, nil
}

func location(src *runtimetypes.RetrievalResultLocation) *Location {
	if src == nil {
		return nil
	}
	ret := &Location{Type: string(src.Type)}
	switch {
	case src.S3Location != nil:
		ret.S3Location = &S3Location{URI: aws.ToString(src.S3Location.Uri)}
	case src.WebLocation != nil:
		ret.URL = aws.ToString(src.WebLocation.Url)
	case src.ConfluenceLocation != nil:
		ret.URL = aws.ToString(src.ConfluenceLocation.Url)
	case src.SalesforceLocation != nil:
		ret.URL = aws.ToString(src.SalesforceLocation.Url)
	case src.SharePointLocation != nil:
		ret.URL = aws.ToString(src.SharePointLocation.Url)
	case src.KendraDocumentLocation != nil:
		ret.URL = aws.ToString(src.KendraDocumentLocation.Uri)
	case src.CustomDocumentLocation != nil:
		ret.URL = aws.ToString(src.CustomDocumentLocation.Id)
	case src.SqlLocation != nil:
		ret.SQL = aws.ToString(src.SqlLocation.Query)
	}
	return ret
}

func metadata(item runtimetypes.KnowledgeBaseRetrievalResult) map[string]interface{} {
	if len(item.Metadata) == 0 {
		return nil
	}
	ret := make(map[string]interface{}, len(item.Metadata))
	for key, doc := range item.Metadata {
		if doc == nil {
			continue
		}
		var value interface{}
		if err := doc.UnmarshalSmithyDocument(&value); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("skipping undecodable metadata")
			continue
		}
		ret[key] = value
	}
	return ret
}
