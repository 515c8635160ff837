package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/rs/zerolog/log"
)

const (
	gatewayPrincipal = "bedrock-agentcore.amazonaws.com"
	invokePolicyName = "LambdaInvokePolicy"
)

// Role describes the IAM role the gateway assumes.
type Role struct {
	Name    string `json:"name"`
	ARN     string `json:"arn"`
	Created bool   `json:"created"`
}

type policyDocument struct {
	Version   string      `json:"Version"`
	Statement []statement `json:"Statement"`
}

type statement struct {
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal,omitempty"`
	Action    string            `json:"Action"`
	Resource  string            `json:"Resource,omitempty"`
}

func trustPolicy() policyDocument {
	return policyDocument{
		Version: "2012-10-17",
		Statement: []statement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": gatewayPrincipal},
			Action:    "sts:AssumeRole",
		}},
	}
}

func invokePolicy(region, accountID string) policyDocument {
	return policyDocument{
		Version: "2012-10-17",
		Statement: []statement{{
			Effect:   "Allow",
			Action:   "lambda:InvokeFunction",
			Resource: fmt.Sprintf("arn:aws:lambda:%s:%s:function:*", region, accountID),
		}},
	}
}

// EnsureGatewayRole creates the gateway role with permission to invoke the
// account's Lambda functions. An existing role is reused as is.
func (s *Service) EnsureGatewayRole(ctx context.Context, roleName, accountID string) (*Role, error) {
	trust, err := json.Marshal(trustPolicy())
	if err != nil {
		return nil, err
	}
	out, err := s.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(string(trust)),
		Description:              aws.String("Role for Bedrock KB MCP Gateway"),
	})
	if err != nil {
		if isEntityExists(err) {
			log.Warn().Str("role", roleName).Msg("IAM role already exists")
			return &Role{Name: roleName, ARN: fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)}, nil
		}
		return nil, fmt.Errorf("failed to create role %s: %w", roleName, err)
	}
	log.Info().Str("role", roleName).Msg("IAM role created")

	policy, err := json.Marshal(invokePolicy(s.region, accountID))
	if err != nil {
		return nil, err
	}
	if _, err = s.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String(invokePolicyName),
		PolicyDocument: aws.String(string(policy)),
	}); err != nil {
		return nil, fmt.Errorf("failed to attach %s to %s: %w", invokePolicyName, roleName, err)
	}
	log.Info().Str("role", roleName).Str("policy", invokePolicyName).Msg("Lambda invoke policy attached")

	if s.roleWait > 0 {
		waiter := iam.NewRoleExistsWaiter(s.iam)
		if err := waiter.Wait(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)}, s.roleWait); err != nil {
			return nil, fmt.Errorf("role %s did not become available: %w", roleName, err)
		}
	}
	ret := &Role{Name: roleName, Created: true}
	if out.Role != nil {
		ret.ARN = aws.ToString(out.Role.Arn)
	}
	return ret, nil
}
