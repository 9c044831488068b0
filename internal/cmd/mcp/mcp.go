// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/laneworks/laneworks/internal/platform/cmd"
	mcpservice "github.com/laneworks/laneworks/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string `env:"LANEWORKS_CENTER_DB_PATH" envDefault:"data/center.db"`
	HTTPAddr  string `env:"LANEWORKS_MCP_HTTP_ADDR"  envDefault:"localhost:8081"`
	Transport string `env:"LANEWORKS_MCP_TRANSPORT"  envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "center database path (opened read-only)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			DBPath:    cfg.DBPath,
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
		})
	})
}
