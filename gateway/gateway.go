package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

const (
	protocolMCP         = "MCP"
	authorizerCustomJWT = "CUSTOM_JWT"

	StatusReady = "READY"
)

// GatewayRequest describes a gateway to create.
type GatewayRequest struct {
	Name           string
	Description    string
	RoleARN        string
	DiscoveryURL   string
	AllowedClients []string
}

func (r *GatewayRequest) validate() error {
	switch {
	case r.Name == "":
		return errors.New("gateway name is required")
	case r.RoleARN == "":
		return errors.New("gateway role ARN is required")
	case r.DiscoveryURL == "":
		return errors.New("discovery URL is required")
	case len(r.AllowedClients) == 0:
		return errors.New("at least one allowed client is required")
	}
	return nil
}

// Gateway summarises a created gateway.
type Gateway struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	ARN    string `json:"arn,omitempty"`
	Status string `json:"status,omitempty"`
}

// CreateGateway creates an MCP gateway protected by a Cognito JWT authorizer.
func (s *Service) CreateGateway(ctx context.Context, request *GatewayRequest) (*Gateway, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}
	out, err := s.control.CreateGateway(ctx, &bedrockagentcorecontrol.CreateGatewayInput{
		Name:           aws.String(request.Name),
		Description:    aws.String(request.Description),
		RoleArn:        aws.String(request.RoleARN),
		ProtocolType:   types.GatewayProtocolType(protocolMCP),
		AuthorizerType: types.AuthorizerType(authorizerCustomJWT),
		AuthorizerConfiguration: &types.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: types.CustomJWTAuthorizerConfiguration{
				DiscoveryUrl:   aws.String(request.DiscoveryURL),
				AllowedClients: request.AllowedClients,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway %s: %w", request.Name, err)
	}
	ret := &Gateway{
		ID:     aws.ToString(out.GatewayId),
		URL:    aws.ToString(out.GatewayUrl),
		ARN:    aws.ToString(out.GatewayArn),
		Status: string(out.Status),
	}
	log.Info().Str("gateway_id", ret.ID).Str("gateway_url", ret.URL).Msg("gateway created")
	return ret, nil
}

// WaitForGateway polls the gateway until it is READY, fails, or the wait
// budget is spent.
func (s *Service) WaitForGateway(ctx context.Context, gatewayID string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.pollInterval
	policy.MaxInterval = 8 * s.pollInterval

	return backoff.Retry(ctx, func() (string, error) {
		out, err := s.control.GetGateway(ctx, &bedrockagentcorecontrol.GetGatewayInput{GatewayIdentifier: aws.String(gatewayID)})
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("failed to get gateway %s: %w", gatewayID, err))
		}
		status := string(out.Status)
		switch status {
		case StatusReady:
			return status, nil
		case "FAILED", "UPDATE_UNSUCCESSFUL", "DELETING":
			return status, backoff.Permanent(fmt.Errorf("gateway %s is %s: %v", gatewayID, status, out.StatusReasons))
		}
		log.Debug().Str("gateway_id", gatewayID).Str("status", status).Msg("waiting for gateway")
		return status, fmt.Errorf("gateway %s is %s", gatewayID, status)
	}, backoff.WithBackOff(policy), backoff.WithMaxElapsedTime(s.gatewayWait))
}
