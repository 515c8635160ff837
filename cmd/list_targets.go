package cmd

import (
	"context"
	"fmt"
)

// ListTargetsCmd prints the targets of a gateway as id, name and status.
type ListTargetsCmd struct {
	GatewayID string `short:"g" long:"gateway-id" description:"gateway id (GATEWAY_ID)"`
}

func (c *ListTargetsCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setIfNotEmpty(&cfg.Gateway.ID, c.GatewayID)
	if err := cfg.ValidateTarget(); err != nil {
		return err
	}
	svc, err := newGatewayService(ctx, cfg)
	if err != nil {
		return err
	}
	targets, err := svc.ListTargets(ctx, cfg.Gateway.ID)
	if err != nil {
		return err
	}
	for _, t := range targets {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", t.ID, t.Name, t.Status)
	}
	return nil
}
