package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/rs/zerolog/log"
	"github.com/viant/kbgateway/gateway/tool/conversion"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

const credentialGatewayRole = "GATEWAY_IAM_ROLE"

const listTargetsPageSize = 50

// TargetRequest describes a Lambda target and the tools it serves.
type TargetRequest struct {
	GatewayID   string
	TargetID    string
	Name        string
	Description string
	LambdaARN   string
	Tools       []mcpschema.Tool
}

func (r *TargetRequest) validate(update bool) error {
	switch {
	case r.GatewayID == "":
		return errors.New("gateway id is required")
	case update && r.TargetID == "":
		return errors.New("target id is required")
	case r.Name == "":
		return errors.New("target name is required")
	case r.LambdaARN == "":
		return errors.New("lambda ARN is required")
	case len(r.Tools) == 0:
		return errors.New("at least one tool is required")
	}
	return nil
}

func (r *TargetRequest) configuration() (types.TargetConfiguration, error) {
	defs, err := conversion.ToolDefinitions(r.Tools)
	if err != nil {
		return nil, err
	}
	return &types.TargetConfigurationMemberMcp{
		Value: &types.McpTargetConfigurationMemberLambda{
			Value: types.McpLambdaTargetConfiguration{
				LambdaArn:  aws.String(r.LambdaARN),
				ToolSchema: &types.ToolSchemaMemberInlinePayload{Value: defs},
			},
		},
	}, nil
}

func credentials() []types.CredentialProviderConfiguration {
	return []types.CredentialProviderConfiguration{
		{CredentialProviderType: types.CredentialProviderType(credentialGatewayRole)},
	}
}

// Target summarises a gateway target.
type Target struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Tools       []string `json:"tools,omitempty"`
}

func toolNames(tools []mcpschema.Tool) []string {
	ret := make([]string, 0, len(tools))
	for _, t := range tools {
		ret = append(ret, t.Name)
	}
	return ret
}

// CreateTarget attaches the Lambda proxy to the gateway.
func (s *Service) CreateTarget(ctx context.Context, request *TargetRequest) (*Target, error) {
	if err := request.validate(false); err != nil {
		return nil, err
	}
	configuration, err := request.configuration()
	if err != nil {
		return nil, err
	}
	out, err := s.control.CreateGatewayTarget(ctx, &bedrockagentcorecontrol.CreateGatewayTargetInput{
		GatewayIdentifier:                aws.String(request.GatewayID),
		Name:                             aws.String(request.Name),
		Description:                      aws.String(request.Description),
		TargetConfiguration:              configuration,
		CredentialProviderConfigurations: credentials(),
	})
	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("%w, use update-target to change it: %w", ErrTargetExists, err)
		}
		return nil, fmt.Errorf("failed to create gateway target: %w", err)
	}
	ret := &Target{
		ID:          aws.ToString(out.TargetId),
		Name:        request.Name,
		Status:      string(out.Status),
		Description: request.Description,
		Tools:       toolNames(request.Tools),
	}
	log.Info().Str("target_id", ret.ID).Strs("tools", ret.Tools).Msg("gateway target created")
	return ret, nil
}

// UpdateTarget replaces the Lambda ARN and tool schema of an existing target.
func (s *Service) UpdateTarget(ctx context.Context, request *TargetRequest) (*Target, error) {
	if err := request.validate(true); err != nil {
		return nil, err
	}
	configuration, err := request.configuration()
	if err != nil {
		return nil, err
	}
	out, err := s.control.UpdateGatewayTarget(ctx, &bedrockagentcorecontrol.UpdateGatewayTargetInput{
		GatewayIdentifier:                aws.String(request.GatewayID),
		TargetId:                         aws.String(request.TargetID),
		Name:                             aws.String(request.Name),
		Description:                      aws.String(request.Description),
		TargetConfiguration:              configuration,
		CredentialProviderConfigurations: credentials(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update target %s: %w", request.TargetID, err)
	}
	ret := &Target{
		ID:          aws.ToString(out.TargetId),
		Name:        aws.ToString(out.Name),
		Status:      string(out.Status),
		Description: request.Description,
		Tools:       toolNames(request.Tools),
	}
	if ret.ID == "" {
		ret.ID = request.TargetID
	}
	if ret.Name == "" {
		ret.Name = request.Name
	}
	log.Info().Str("target_id", ret.ID).Strs("tools", ret.Tools).Msg("gateway target updated")
	return ret, nil
}

// ListTargets returns every target attached to the gateway.
func (s *Service) ListTargets(ctx context.Context, gatewayID string) ([]Target, error) {
	if gatewayID == "" {
		return nil, errors.New("gateway id is required")
	}
	ret := make([]Target, 0)
	var token *string
	for {
		out, err := s.control.ListGatewayTargets(ctx, &bedrockagentcorecontrol.ListGatewayTargetsInput{
			GatewayIdentifier: aws.String(gatewayID),
			MaxResults:        aws.Int32(listTargetsPageSize),
			NextToken:         token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list targets of %s: %w", gatewayID, err)
		}
		for _, item := range out.Items {
			ret = append(ret, Target{
				ID:          aws.ToString(item.TargetId),
				Name:        aws.ToString(item.Name),
				Status:      string(item.Status),
				Description: aws.ToString(item.Description),
			})
		}
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		token = out.NextToken
	}
	return ret, nil
}
