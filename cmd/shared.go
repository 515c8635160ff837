package cmd

import (
	"context"
	"io"
	"os"

	"github.com/viant/kbgateway/gateway"
	"github.com/viant/kbgateway/gateway/config"
	"github.com/viant/kbgateway/internal/logging"
	"github.com/viant/kbgateway/proxy"
)

var (
	cfgPath string

	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin

	newGatewayService = func(ctx context.Context, cfg *config.Config) (*gateway.Service, error) {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		return gateway.NewFromConfig(awsCfg, gateway.WithAccountID(cfg.AWS.AccountID)), nil
	}

	newProxyHandler = func(ctx context.Context, cfg *config.Config, opts ...proxy.Option) (*proxy.Handler, error) {
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.RetrievalRegion())
		if err != nil {
			return nil, err
		}
		return proxy.NewFromConfig(awsCfg, cfg, opts...), nil
	}
)

// setConfigPath remembers the CLI-level -f/--config parameter so that
// whichever sub-command runs can load it.
func setConfigPath(p string) { cfgPath = p }

// loadConfig reads the configuration and initialises console logging.
func loadConfig(ctx context.Context) (*config.Config, error) {
	URL := cfgPath
	if URL == "" {
		URL = os.Getenv(config.URLEnv)
	}
	cfg, err := config.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.LogLevel, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setIfNotEmpty(field *string, value string) {
	if value != "" {
		*field = value
	}
}
