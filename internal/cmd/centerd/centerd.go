// Package centerd parses center API flags and launches the service.
package centerd

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/laneworks/laneworks/internal/platform/cmd"
	server "github.com/laneworks/laneworks/internal/services/center/app"
)

// Config holds center command configuration.
type Config struct {
	Port int    `env:"LANEWORKS_CENTER_PORT" envDefault:"8080"`
	Addr string `env:"LANEWORKS_CENTER_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The center API port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The center API listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the center HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCenter, func(context.Context) error {
		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return server.Run(ctx, addr)
	})
}
