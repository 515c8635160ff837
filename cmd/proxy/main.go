// Command proxy is the Lambda function behind the gateway target.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
	"github.com/viant/kbgateway/gateway/config"
	"github.com/viant/kbgateway/internal/logging"
	"github.com/viant/kbgateway/proxy"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load(ctx, os.Getenv(config.URLEnv))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logging.Init(cfg.LogLevel, false); err != nil {
		log.Fatal().Err(err).Msg("failed to init logging")
	}
	awsCfg, err := config.LoadAWSConfig(ctx, cfg.RetrievalRegion())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	handler := proxy.NewFromConfig(awsCfg, cfg)
	log.Info().Str("region", cfg.RetrievalRegion()).Str("default_kb", cfg.KnowledgeBase.DefaultID).Msg("proxy ready")
	lambda.Start(handler.Invoke)
}
