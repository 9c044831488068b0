package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	entrypoint "github.com/laneworks/laneworks/internal/platform/cmd"
	"github.com/laneworks/laneworks/internal/seed"
)

// seedEnv holds environment overrides for the seed command.
type seedEnv struct {
	DBPath string `env:"LANEWORKS_CENTER_DB_PATH"`
}

// Config holds seed command configuration.
type Config struct {
	Seed seed.Config
	List bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	seedCfg := seed.DefaultConfig()

	var envCfg seedEnv
	if err := entrypoint.ParseConfig(&envCfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(envCfg.DBPath) != "" {
		seedCfg.DBPath = envCfg.DBPath
	}

	var list bool
	fs.StringVar(&seedCfg.DBPath, "db-path", seedCfg.DBPath, "center database path")
	fs.StringVar(&seedCfg.Only, "only", "", "seed a single fixture by slug")
	fs.BoolVar(&seedCfg.Verbose, "v", false, "verbose output")
	fs.BoolVar(&list, "list", false, "list available fixtures")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	return Config{Seed: seedCfg, List: list}, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if cfg.List {
		fmt.Fprintln(out, "Available fixtures:")
		for _, slug := range seed.FixtureSlugs() {
			fmt.Fprintf(out, "  %s\n", slug)
		}
		return nil
	}

	cfg.Seed.Logger = log.New(errOut, "", 0)
	return seed.Run(ctx, cfg.Seed)
}
