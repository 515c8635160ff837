package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kbgateway/gateway/tool"
)

type fakeSTS struct {
	calls int
}

func (f *fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.calls++
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

type fakeIAM struct {
	createErr error
	created   *iam.CreateRoleInput
	policy    *iam.PutRolePolicyInput
	getCalls  int
}

func (f *fakeIAM) CreateRole(_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.created = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &iam.CreateRoleOutput{Role: &iamtypes.Role{
		Arn:      aws.String("arn:aws:iam::123456789012:role/" + aws.ToString(params.RoleName)),
		RoleName: params.RoleName,
	}}, nil
}

func (f *fakeIAM) PutRolePolicy(_ context.Context, params *iam.PutRolePolicyInput, _ ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	f.policy = params
	return &iam.PutRolePolicyOutput{}, nil
}

func (f *fakeIAM) GetRole(_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	f.getCalls++
	return &iam.GetRoleOutput{Role: &iamtypes.Role{RoleName: params.RoleName}}, nil
}

type fakeControl struct {
	gatewayInput *bedrockagentcorecontrol.CreateGatewayInput
	statuses     []types.GatewayStatus
	statusCalls  int
	targetInput  *bedrockagentcorecontrol.CreateGatewayTargetInput
	targetErr    error
	updateInput  *bedrockagentcorecontrol.UpdateGatewayTargetInput
	targetPages  []*bedrockagentcorecontrol.ListGatewayTargetsOutput
	targetTokens []string
}

func (f *fakeControl) CreateGateway(_ context.Context, params *bedrockagentcorecontrol.CreateGatewayInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateGatewayOutput, error) {
	f.gatewayInput = params
	return &bedrockagentcorecontrol.CreateGatewayOutput{
		GatewayId:  aws.String("gw-123"),
		GatewayUrl: aws.String("https://gw-123.gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp"),
		Status:     types.GatewayStatus("CREATING"),
	}, nil
}

func (f *fakeControl) GetGateway(context.Context, *bedrockagentcorecontrol.GetGatewayInput, ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.GetGatewayOutput, error) {
	status := f.statuses[f.statusCalls]
	if f.statusCalls < len(f.statuses)-1 {
		f.statusCalls++
	}
	return &bedrockagentcorecontrol.GetGatewayOutput{Status: status}, nil
}

func (f *fakeControl) CreateGatewayTarget(_ context.Context, params *bedrockagentcorecontrol.CreateGatewayTargetInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.CreateGatewayTargetOutput, error) {
	f.targetInput = params
	if f.targetErr != nil {
		return nil, f.targetErr
	}
	return &bedrockagentcorecontrol.CreateGatewayTargetOutput{TargetId: aws.String("tg-1"), Status: types.TargetStatus("CREATING")}, nil
}

func (f *fakeControl) UpdateGatewayTarget(_ context.Context, params *bedrockagentcorecontrol.UpdateGatewayTargetInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.UpdateGatewayTargetOutput, error) {
	f.updateInput = params
	return &bedrockagentcorecontrol.UpdateGatewayTargetOutput{TargetId: params.TargetId, Name: params.Name, Status: types.TargetStatus("UPDATING")}, nil
}

func (f *fakeControl) ListGatewayTargets(_ context.Context, params *bedrockagentcorecontrol.ListGatewayTargetsInput, _ ...func(*bedrockagentcorecontrol.Options)) (*bedrockagentcorecontrol.ListGatewayTargetsOutput, error) {
	f.targetTokens = append(f.targetTokens, aws.ToString(params.NextToken))
	return f.targetPages[len(f.targetTokens)-1], nil
}

func newService(control *fakeControl, iamClient *fakeIAM, opts ...Option) (*Service, *fakeSTS) {
	stsClient := &fakeSTS{}
	opts = append([]Option{WithRegion("us-east-1"), WithGatewayWait(time.Second, time.Millisecond)}, opts...)
	return New(stsClient, iamClient, control, opts...), stsClient
}

func TestService_AccountID(t *testing.T) {
	srv, stsClient := newService(&fakeControl{}, &fakeIAM{})
	for i := 0; i < 2; i++ {
		account, err := srv.AccountID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "123456789012", account)
	}
	assert.Equal(t, 1, stsClient.calls)

	srv, stsClient = newService(&fakeControl{}, &fakeIAM{}, WithAccountID("999"))
	account, err := srv.AccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "999", account)
	assert.Equal(t, 0, stsClient.calls)
}

func TestService_EnsureGatewayRole(t *testing.T) {
	iamClient := &fakeIAM{}
	srv, _ := newService(&fakeControl{}, iamClient, WithRoleWait(time.Minute))

	role, err := srv.EnsureGatewayRole(context.Background(), "kb-gateway-role", "123456789012")
	require.NoError(t, err)
	assert.Equal(t, &Role{Name: "kb-gateway-role", ARN: "arn:aws:iam::123456789012:role/kb-gateway-role", Created: true}, role)

	var trust policyDocument
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(iamClient.created.AssumeRolePolicyDocument)), &trust))
	assert.Equal(t, "bedrock-agentcore.amazonaws.com", trust.Statement[0].Principal["Service"])
	assert.Equal(t, "sts:AssumeRole", trust.Statement[0].Action)

	var invoke policyDocument
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(iamClient.policy.PolicyDocument)), &invoke))
	assert.Equal(t, "LambdaInvokePolicy", aws.ToString(iamClient.policy.PolicyName))
	assert.Equal(t, "lambda:InvokeFunction", invoke.Statement[0].Action)
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:*", invoke.Statement[0].Resource)
	assert.GreaterOrEqual(t, iamClient.getCalls, 1)
}

func TestService_EnsureGatewayRole_Existing(t *testing.T) {
	iamClient := &fakeIAM{createErr: &iamtypes.EntityAlreadyExistsException{Message: aws.String("Role exists")}}
	srv, _ := newService(&fakeControl{}, iamClient)

	role, err := srv.EnsureGatewayRole(context.Background(), "kb-gateway-role", "123456789012")
	require.NoError(t, err)
	assert.False(t, role.Created)
	assert.Equal(t, "arn:aws:iam::123456789012:role/kb-gateway-role", role.ARN)
	assert.Nil(t, iamClient.policy)
	assert.Equal(t, 0, iamClient.getCalls)
}

func TestService_EnsureGatewayRole_Error(t *testing.T) {
	srv, _ := newService(&fakeControl{}, &fakeIAM{createErr: errors.New("AccessDenied")})
	_, err := srv.EnsureGatewayRole(context.Background(), "kb-gateway-role", "123456789012")
	assert.EqualError(t, err, "failed to create role kb-gateway-role: AccessDenied")
}

func TestService_CreateGateway(t *testing.T) {
	control := &fakeControl{}
	srv, _ := newService(control, &fakeIAM{})

	gw, err := srv.CreateGateway(context.Background(), &GatewayRequest{
		Name:           "bedrock-kb-mcp-gateway",
		Description:    "Bedrock Knowledge Base MCP Server Gateway",
		RoleARN:        "arn:aws:iam::123456789012:role/bedrock-kb-mcp-gateway-role",
		DiscoveryURL:   "https://cognito-idp.us-east-1.amazonaws.com/pool/.well-known/openid-configuration",
		AllowedClients: []string{"client-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gw-123", gw.ID)
	assert.Equal(t, "CREATING", gw.Status)

	input := control.gatewayInput
	assert.EqualValues(t, "MCP", input.ProtocolType)
	assert.EqualValues(t, "CUSTOM_JWT", input.AuthorizerType)
	authorizer, ok := input.AuthorizerConfiguration.(*types.AuthorizerConfigurationMemberCustomJWTAuthorizer)
	require.True(t, ok)
	assert.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/pool/.well-known/openid-configuration", aws.ToString(authorizer.Value.DiscoveryUrl))
	assert.Equal(t, []string{"client-1"}, authorizer.Value.AllowedClients)

	_, err = srv.CreateGateway(context.Background(), &GatewayRequest{Name: "x"})
	assert.EqualError(t, err, "gateway role ARN is required")
}

func TestService_WaitForGateway(t *testing.T) {
	var testCases = []struct {
		description string
		statuses    []types.GatewayStatus
		expect      string
		expectErr   bool
	}{
		{description: "becomes ready", statuses: []types.GatewayStatus{"CREATING", "CREATING", "READY"}, expect: "READY"},
		{description: "fails", statuses: []types.GatewayStatus{"CREATING", "FAILED"}, expectErr: true},
		{description: "times out", statuses: []types.GatewayStatus{"CREATING"}, expectErr: true},
	}
	for _, tc := range testCases {
		control := &fakeControl{statuses: tc.statuses}
		srv, _ := newService(control, &fakeIAM{}, WithGatewayWait(50*time.Millisecond, time.Millisecond))
		status, err := srv.WaitForGateway(context.Background(), "gw-123")
		if tc.expectErr {
			assert.Error(t, err, tc.description)
		} else {
			assert.NoError(t, err, tc.description)
		}
		if tc.expect != "" {
			assert.Equal(t, tc.expect, status, tc.description)
		}
	}
}

func TestService_CreateTarget(t *testing.T) {
	control := &fakeControl{}
	srv, _ := newService(control, &fakeIAM{})

	target, err := srv.CreateTarget(context.Background(), &TargetRequest{
		GatewayID:   "gw-123",
		Name:        "BedrockKBMCPTarget",
		Description: "Bedrock Knowledge Base MCP Target",
		LambdaARN:   "arn:aws:lambda:us-east-1:123456789012:function:BedrockKBMCPProxy",
		Tools:       tool.Default().Tools(),
	})
	require.NoError(t, err)
	assert.Equal(t, "tg-1", target.ID)
	assert.Equal(t, []string{"ListKnowledgeBases", "QueryKnowledgeBases"}, target.Tools)

	input := control.targetInput
	assert.Equal(t, "gw-123", aws.ToString(input.GatewayIdentifier))
	require.Len(t, input.CredentialProviderConfigurations, 1)
	assert.EqualValues(t, "GATEWAY_IAM_ROLE", input.CredentialProviderConfigurations[0].CredentialProviderType)

	mcpConfig, ok := input.TargetConfiguration.(*types.TargetConfigurationMemberMcp)
	require.True(t, ok)
	lambdaConfig, ok := mcpConfig.Value.(*types.McpTargetConfigurationMemberLambda)
	require.True(t, ok)
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:BedrockKBMCPProxy", aws.ToString(lambdaConfig.Value.LambdaArn))
	payload, ok := lambdaConfig.Value.ToolSchema.(*types.ToolSchemaMemberInlinePayload)
	require.True(t, ok)
	require.Len(t, payload.Value, 2)
	assert.Equal(t, "QueryKnowledgeBases", aws.ToString(payload.Value[1].Name))
}

func TestService_CreateTarget_Errors(t *testing.T) {
	valid := func() *TargetRequest {
		return &TargetRequest{GatewayID: "gw", Name: "t", LambdaARN: "arn", Tools: tool.Default().Tools()}
	}

	control := &fakeControl{targetErr: &smithy.GenericAPIError{Code: "ConflictException", Message: "target BedrockKBMCPTarget exists"}}
	srv, _ := newService(control, &fakeIAM{})
	_, err := srv.CreateTarget(context.Background(), valid())
	assert.True(t, errors.Is(err, ErrTargetExists))
	assert.Contains(t, err.Error(), "update-target")

	control = &fakeControl{targetErr: errors.New("ValidationException: bad schema")}
	srv, _ = newService(control, &fakeIAM{})
	_, err = srv.CreateTarget(context.Background(), valid())
	assert.False(t, errors.Is(err, ErrTargetExists))

	request := valid()
	request.LambdaARN = ""
	_, err = srv.CreateTarget(context.Background(), request)
	assert.EqualError(t, err, "lambda ARN is required")
}

func TestService_UpdateTarget(t *testing.T) {
	control := &fakeControl{}
	srv, _ := newService(control, &fakeIAM{})
	tools, err := tool.Default().Select(tool.QueryKnowledgeBases)
	require.NoError(t, err)

	target, err := srv.UpdateTarget(context.Background(), &TargetRequest{
		GatewayID: "gw-123",
		TargetID:  "tg-1",
		Name:      "BedrockKBMCPTarget",
		LambdaARN: "arn:aws:lambda:us-east-1:123456789012:function:BedrockKBMCPProxy",
		Tools:     tools,
	})
	require.NoError(t, err)
	assert.Equal(t, &Target{ID: "tg-1", Name: "BedrockKBMCPTarget", Status: "UPDATING", Tools: []string{"QueryKnowledgeBases"}}, target)
	assert.Equal(t, "tg-1", aws.ToString(control.updateInput.TargetId))

	_, err = srv.UpdateTarget(context.Background(), &TargetRequest{GatewayID: "gw-123", Name: "x", LambdaARN: "arn", Tools: tools})
	assert.EqualError(t, err, "target id is required")
}

func TestService_ListTargets(t *testing.T) {
	control := &fakeControl{targetPages: []*bedrockagentcorecontrol.ListGatewayTargetsOutput{
		{
			Items:     []types.TargetSummary{{TargetId: aws.String("tg-1"), Name: aws.String("a"), Status: types.TargetStatus("READY")}},
			NextToken: aws.String("next"),
		},
		{
			Items: []types.TargetSummary{{TargetId: aws.String("tg-2"), Name: aws.String("b"), Status: types.TargetStatus("FAILED")}},
		},
	}}
	srv, _ := newService(control, &fakeIAM{})

	targets, err := srv.ListTargets(context.Background(), "gw-123")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "next"}, control.targetTokens)
	assert.Equal(t, []Target{{ID: "tg-1", Name: "a", Status: "READY"}, {ID: "tg-2", Name: "b", Status: "FAILED"}}, targets)
}
