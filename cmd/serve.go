package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/viant/kbgateway/gateway/tool"
	"github.com/viant/kbgateway/proxy"
	"github.com/viant/mcp"
)

// ServeCmd launches a local MCP server exposing the proxy tools, so an MCP
// client can exercise them without a gateway.
type ServeCmd struct {
	Address string   `short:"a" long:"address" description:"listen address" default:":5000"`
	Tools   []string `short:"t" long:"tool" description:"expose only matching tools (name or prefix*), repeatable"`
}

func (c *ServeCmd) Execute(_ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	registry, err := c.registry()
	if err != nil {
		return err
	}
	handler, err := newProxyHandler(ctx, cfg, proxy.WithRegistry(registry))
	if err != nil {
		return err
	}

	mcpServer, err := mcp.NewServer(handler.NewMCPHandler, nil)
	if err != nil {
		return err
	}

	httpSrv := mcpServer.HTTP(ctx, c.Address)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	fmt.Fprintf(stdout, "MCP server listening on %s\n", httpSrv.Addr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutting down")
	return httpSrv.Close()
}

func (c *ServeCmd) registry() (*tool.Registry, error) {
	tools, err := tool.Default().Select(c.Tools...)
	if err != nil {
		return nil, err
	}
	return tool.NewRegistry(tools...), nil
}
