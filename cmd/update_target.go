package cmd

import (
	"context"

	"github.com/viant/kbgateway/gateway"
	"github.com/viant/kbgateway/gateway/tool"
)

// UpdateTargetCmd replaces the Lambda ARN and tool schema of an existing
// target. Without --tool every catalogue tool is published.
type UpdateTargetCmd struct {
	GatewayID string `short:"g" long:"gateway-id" description:"gateway id (GATEWAY_ID)"`
	TargetID  string `short:"t" long:"target-id" description:"target id (TARGET_ID)"`
	LambdaARN string `short:"l" long:"lambda-arn" description:"proxy function ARN (LAMBDA_ARN)"`
	Tool      string `long:"tool" description:"publish only this tool (TOOL_NAME)"`
}

func (c *UpdateTargetCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setIfNotEmpty(&cfg.Gateway.ID, c.GatewayID)
	setIfNotEmpty(&cfg.Target.ID, c.TargetID)
	setIfNotEmpty(&cfg.Lambda.ARN, c.LambdaARN)
	setIfNotEmpty(&cfg.Target.ToolName, c.Tool)
	if err := cfg.ValidateTargetUpdate(); err != nil {
		return err
	}

	registry := tool.Default()
	tools := registry.Tools()
	if cfg.Target.ToolName != "" {
		if tools, err = registry.Select(cfg.Target.ToolName); err != nil {
			return err
		}
	}

	svc, err := newGatewayService(ctx, cfg)
	if err != nil {
		return err
	}
	accountID, err := svc.AccountID(ctx)
	if err != nil {
		return err
	}
	target, err := svc.UpdateTarget(ctx, &gateway.TargetRequest{
		GatewayID:   cfg.Gateway.ID,
		TargetID:    cfg.Target.ID,
		Name:        cfg.Target.Name,
		Description: cfg.Target.Description,
		LambdaARN:   cfg.LambdaARN(accountID),
		Tools:       tools,
	})
	if err != nil {
		return err
	}
	printJSON(target)
	return nil
}
