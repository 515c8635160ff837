package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/kbgateway/gateway"
	"github.com/viant/kbgateway/gateway/tool"
)

// AddTargetCmd attaches the Lambda proxy to a gateway with both knowledge
// base tools.
type AddTargetCmd struct {
	GatewayID string `short:"g" long:"gateway-id" description:"gateway id (GATEWAY_ID)"`
	LambdaARN string `short:"l" long:"lambda-arn" description:"proxy function ARN (LAMBDA_ARN), derived from LAMBDA_FUNCTION_NAME when empty"`
	Name      string `short:"n" long:"name" description:"target name (TARGET_NAME)"`
}

func (c *AddTargetCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setIfNotEmpty(&cfg.Gateway.ID, c.GatewayID)
	setIfNotEmpty(&cfg.Lambda.ARN, c.LambdaARN)
	setIfNotEmpty(&cfg.Target.Name, c.Name)
	if err := cfg.ValidateTarget(); err != nil {
		return err
	}

	svc, err := newGatewayService(ctx, cfg)
	if err != nil {
		return err
	}
	accountID, err := svc.AccountID(ctx)
	if err != nil {
		return err
	}
	lambdaARN := cfg.LambdaARN(accountID)
	fmt.Fprintf(stdout, "Gateway ID: %s\n", cfg.Gateway.ID)
	fmt.Fprintf(stdout, "Lambda ARN: %s\n", lambdaARN)
	fmt.Fprintf(stdout, "Region    : %s\n", cfg.AWS.Region)

	target, err := svc.CreateTarget(ctx, &gateway.TargetRequest{
		GatewayID:   cfg.Gateway.ID,
		Name:        cfg.Target.Name,
		Description: cfg.Target.Description,
		LambdaARN:   lambdaARN,
		Tools:       tool.Default().Tools(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Target ID : %s\n", target.ID)
	names := make([]string, 0, len(target.Tools))
	for _, name := range target.Tools {
		names = append(names, tool.NewName(target.Name, name).String())
	}
	fmt.Fprintf(stdout, "Tools     : %s\n", strings.Join(names, ", "))
	return nil
}
