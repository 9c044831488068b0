// Package seed loads deterministic sample centers into a center store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/laneworks/laneworks/internal/platform/errors"
	centerdomain "github.com/laneworks/laneworks/internal/services/center/domain"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
	centersqlite "github.com/laneworks/laneworks/internal/services/center/storage/sqlite"
)

// Fixture is one sample center with an optional lane layout.
type Fixture struct {
	Name     string
	Slug     string
	Timezone string
	Ranges   []centerservice.RangeInput
}

// Fixtures returns the bundled sample centers. The set is stable so
// repeated seeds produce the same registry.
func Fixtures() []Fixture {
	return []Fixture{
		{
			Name:     "Thunder Alley",
			Slug:     "thunder-alley",
			Timezone: "America/Chicago",
			Ranges: []centerservice.RangeInput{
				{StartLane: 1, EndLane: 10, PinFallType: "FF"},
				{StartLane: 13, EndLane: 20, PinFallType: "SP"},
			},
		},
		{
			Name:     "Pin Palace",
			Slug:     "pin-palace",
			Timezone: "America/New_York",
			Ranges: []centerservice.RangeInput{
				{StartLane: 1, EndLane: 24, PinFallType: "FF"},
			},
		},
		{
			Name:     "Galaxy Bowl",
			Slug:     "galaxy-bowl",
			Timezone: "Europe/Berlin",
			Ranges: []centerservice.RangeInput{
				{StartLane: 1, EndLane: 8, PinFallType: "SP"},
				{StartLane: 11, EndLane: 16, PinFallType: "FF"},
				{StartLane: 21, EndLane: 32, PinFallType: "SP"},
			},
		},
		{
			// No layout yet; keeps the unconfigured-center path visible
			// in local demos.
			Name:     "Riverside Lanes",
			Slug:     "riverside-lanes",
			Timezone: "UTC",
		},
	}
}

// FixtureSlugs lists the bundled fixture slugs in seed order.
func FixtureSlugs() []string {
	fixtures := Fixtures()
	slugs := make([]string, 0, len(fixtures))
	for _, fixture := range fixtures {
		slugs = append(slugs, fixture.Slug)
	}
	return slugs
}

// Config holds seed runner configuration.
type Config struct {
	DBPath  string
	Only    string
	Verbose bool
	Logger  *log.Logger
}

// DefaultConfig returns configuration with common defaults.
func DefaultConfig() Config {
	return Config{
		DBPath: filepath.Join("data", "center.db"),
	}
}

// Run seeds the bundled fixtures through the center service. Centers
// that already exist are skipped, so re-running is safe.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		return errors.New("database path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := centersqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open center store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("close center store: %v", err)
		}
	}()

	// Seeding only ever sets a center's first layout, which needs no
	// grant, so verification stays unconfigured.
	svc := centerservice.NewService(store, grant.Config{})
	return seedFixtures(ctx, svc, cfg, logger)
}

func seedFixtures(ctx context.Context, svc *centerservice.Service, cfg Config, logger *log.Logger) error {
	only := strings.TrimSpace(cfg.Only)
	seeded := 0
	skipped := 0
	for _, fixture := range Fixtures() {
		if only != "" && fixture.Slug != only {
			continue
		}

		center, err := svc.CreateCenter(ctx, centerdomain.CreateCenterInput{
			Name:     fixture.Name,
			Slug:     fixture.Slug,
			Timezone: fixture.Timezone,
		})
		if err != nil {
			if errors.Is(err, apperrors.New(apperrors.CodeCenterAlreadyExists, "")) {
				skipped++
				if cfg.Verbose {
					logger.Printf("skip %s: already registered", fixture.Slug)
				}
				continue
			}
			return fmt.Errorf("seed center %s: %w", fixture.Slug, err)
		}

		if len(fixture.Ranges) > 0 {
			if _, err := svc.ConfigureLayout(ctx, center.ID, fixture.Ranges, ""); err != nil {
				return fmt.Errorf("seed layout for %s: %w", fixture.Slug, err)
			}
		}

		seeded++
		if cfg.Verbose {
			logger.Printf("seeded %s (%d ranges)", fixture.Slug, len(fixture.Ranges))
		}
	}

	if only != "" && seeded == 0 && skipped == 0 {
		return fmt.Errorf("unknown fixture %q", only)
	}
	logger.Printf("seed complete: %d seeded, %d skipped", seeded, skipped)
	return nil
}
