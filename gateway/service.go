package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	defaultRoleWait     = 2 * time.Minute
	defaultGatewayWait  = 5 * time.Minute
	defaultPollInterval = 2 * time.Second
)

// STSAPI resolves the caller account.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// IAMAPI manages the gateway role.
type IAMAPI interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	PutRolePolicy(ctx context.Context, params *iam.PutRolePolicyInput, optFns ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// ControlAPI is the subset of the AgentCore control plane used here.
type ControlAPI interface {
	CreateGateway(ctx context.Context, params *bedrockagentcorecontrol.CreateGatewayInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateGatewayOutput, error)
	GetGateway(ctx context.Context, params *bedrockagentcorecontrol.GetGatewayInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.GetGatewayOutput, error)
	CreateGatewayTarget(ctx context.Context, params *bedrockagentcorecontrol.CreateGatewayTargetInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateGatewayTargetOutput, error)
	UpdateGatewayTarget(ctx context.Context, params *bedrockagentcorecontrol.UpdateGatewayTargetInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateGatewayTargetOutput, error)
	ListGatewayTargets(ctx context.Context, params *bedrockagentcorecontrol.ListGatewayTargetsInput, optFns ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListGatewayTargetsOutput, error)
}

// Service provisions gateways and targets.
type Service struct {
	sts          STSAPI
	iam          IAMAPI
	control      ControlAPI
	region       string
	accountID    string
	roleWait     time.Duration
	gatewayWait  time.Duration
	pollInterval time.Duration
}

// Option customises a Service.
type Option func(*Service)

// WithRegion sets the region used in derived ARNs and policies.
func WithRegion(region string) Option {
	return func(s *Service) { s.region = region }
}

// WithAccountID skips the STS lookup.
func WithAccountID(accountID string) Option {
	return func(s *Service) { s.accountID = accountID }
}

// WithRoleWait bounds the wait for a new role to become visible; zero
// disables the wait.
func WithRoleWait(d time.Duration) Option {
	return func(s *Service) { s.roleWait = d }
}

// WithGatewayWait bounds WaitForGateway and sets its initial poll interval.
func WithGatewayWait(maxWait, interval time.Duration) Option {
	return func(s *Service) {
		s.gatewayWait = maxWait
		s.pollInterval = interval
	}
}

// New creates a Service.
func New(stsClient STSAPI, iamClient IAMAPI, control ControlAPI, opts ...Option) *Service {
	s := &Service{
		sts:          stsClient,
		iam:          iamClient,
		control:      control,
		roleWait:     defaultRoleWait,
		gatewayWait:  defaultGatewayWait,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a Service backed by real AWS clients.
func NewFromConfig(cfg aws.Config, opts ...Option) *Service {
	return New(sts.NewFromConfig(cfg), iam.NewFromConfig(cfg), bedrockagentcorecontrol.NewFromConfig(cfg),
		append([]Option{WithRegion(cfg.Region)}, opts...)...)
}

// AccountID returns the configured account or asks STS for the caller's.
func (s *Service) AccountID(ctx context.Context) (string, error) {
	if s.accountID != "" {
		return s.accountID, nil
	}
	if s.sts == nil {
		return "", errors.New("account id unknown: no STS client")
	}
	out, err := s.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	s.accountID = aws.ToString(out.Account)
	return s.accountID, nil
}
