package cmd

import (
	"context"
	"fmt"

	"github.com/viant/kbgateway/gateway"
)

// CreateGatewayCmd provisions the gateway role and an MCP gateway. The
// GATEWAY_ID and GATEWAY_URL lines on stdout can be eval'ed by a shell.
type CreateGatewayCmd struct {
	Name       string `short:"n" long:"name" description:"gateway name (GATEWAY_NAME)"`
	UserPoolID string `long:"user-pool-id" description:"Cognito user pool id (USER_POOL_ID)"`
	ClientID   string `long:"client-id" description:"Cognito app client id (CLIENT_ID)"`
	Wait       bool   `long:"wait" description:"wait until the gateway is READY"`
}

func (c *CreateGatewayCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if c.Name != "" && cfg.Gateway.RoleName == cfg.Gateway.Name+"-role" {
		cfg.Gateway.RoleName = ""
	}
	setIfNotEmpty(&cfg.Gateway.Name, c.Name)
	setIfNotEmpty(&cfg.Gateway.UserPoolID, c.UserPoolID)
	setIfNotEmpty(&cfg.Gateway.ClientID, c.ClientID)
	cfg.Init()
	if err := cfg.ValidateGateway(); err != nil {
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
	role, err := svc.EnsureGatewayRole(ctx, cfg.Gateway.RoleName, accountID)
	if err != nil {
		return err
	}
	gw, err := svc.CreateGateway(ctx, &gateway.GatewayRequest{
		Name:           cfg.Gateway.Name,
		Description:    cfg.Gateway.Description,
		RoleARN:        role.ARN,
		DiscoveryURL:   cfg.DiscoveryURL(),
		AllowedClients: []string{cfg.Gateway.ClientID},
	})
	if err != nil {
		return err
	}
	if c.Wait {
		if gw.Status, err = svc.WaitForGateway(ctx, gw.ID); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "GATEWAY_ID=%s\n", gw.ID)
	fmt.Fprintf(stdout, "GATEWAY_URL=%s\n", gw.URL)
	return nil
}
