package seed

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed.DBPath != filepath.Join("data", "center.db") {
		t.Fatalf("expected default db path, got %q", cfg.Seed.DBPath)
	}
	if cfg.List {
		t.Fatal("expected list disabled by default")
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("LANEWORKS_CENTER_DB_PATH", "env/center.db")

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-only", "pin-palace", "-list"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed.DBPath != "env/center.db" {
		t.Fatalf("expected env db path, got %q", cfg.Seed.DBPath)
	}
	if cfg.Seed.Only != "pin-palace" {
		t.Fatalf("expected only filter, got %q", cfg.Seed.Only)
	}
	if !cfg.List {
		t.Fatal("expected list enabled")
	}
}

func TestRunListWritesFixtures(t *testing.T) {
	out := &bytes.Buffer{}
	if err := Run(context.Background(), Config{List: true}, out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "thunder-alley") {
		t.Fatalf("output = %q, want fixture listing", out.String())
	}
}

func TestRunSeedsDatabase(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	dbPath := filepath.Join(t.TempDir(), "center.db")
	cfg, err := ParseConfig(fs, []string{"-db-path", dbPath})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	errOut := &bytes.Buffer{}
	if err := Run(context.Background(), cfg, &bytes.Buffer{}, errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut.String(), "seed complete") {
		t.Fatalf("log = %q, want seed completion line", errOut.String())
	}
}
