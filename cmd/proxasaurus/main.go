// Proxasaurus bridges MCP clients to a PegaProx multi-cluster Proxmox
// backend: every tool call becomes one authenticated REST request.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/proxasaurus/proxasaurus/internal/common"
	"github.com/proxasaurus/proxasaurus/internal/config"
	"github.com/proxasaurus/proxasaurus/internal/dispatch"
	"github.com/proxasaurus/proxasaurus/internal/kubetools"
	"github.com/proxasaurus/proxasaurus/internal/mcp"
	"github.com/proxasaurus/proxasaurus/internal/pegaprox"
	"github.com/proxasaurus/proxasaurus/internal/registry"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "proxasaurus.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *stdio {
		cfg.Server.Transport = "stdio"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("backend", cfg.PegaProx.BaseURL).
		Str("transport", cfg.Server.Transport).
		Msg("starting proxasaurus")

	client := pegaprox.NewClient(cfg.PegaProx.BaseURL, cfg.PegaProx.APIToken, cfg.PegaProx.GetTimeout(), logger)
	dispatcher := dispatch.New(registry.MustNew(registry.Catalog()), client, logger)

	mcpServer := mcp.NewServer(cfg.Server.Name, dispatcher, client, logger)

	if cfg.Kube.Enabled {
		factory := kubetools.NewClientFactory(cfg.Kube.Kubeconfig)
		kubetools.Register(mcpServer, factory, logger)
	}

	switch cfg.Server.Transport {
	case "stdio":
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
	case "sse":
		addr := cfg.Server.Addr()
		logger.Info().Str("addr", addr).Msg("serving MCP over SSE")
		sseServer := server.NewSSEServer(mcpServer)
		if err := sseServer.Start(addr); err != nil {
			logger.Error().Str("error", err.Error()).Msg("SSE server failed")
			os.Exit(1)
		}
	case "http":
		addr := cfg.Server.Addr()
		logger.Info().Str("addr", addr).Msg("serving MCP over streamable HTTP")
		httpServer := server.NewStreamableHTTPServer(mcpServer,
			server.WithStateLess(true),
		)
		if err := httpServer.Start(addr); err != nil {
			logger.Error().Str("error", err.Error()).Msg("HTTP server failed")
			os.Exit(1)
		}
	}
}
