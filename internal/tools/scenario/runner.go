package scenario

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
	centersqlite "github.com/laneworks/laneworks/internal/services/center/storage/sqlite"
)

// Grant claims minted for scenario-internal layout replacements.
const (
	scenarioGrantIssuer   = "laneworks-scenario"
	scenarioGrantAudience = "laneworks-center"
	scenarioGrantTTL      = time.Minute
)

// Config controls scenario execution.
type Config struct {
	DBPath     string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against an in-process center service.
type Runner struct {
	store      *centersqlite.Store
	tempDir    string
	svc        centerOps
	issuer     grantIssuer
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner opens storage and prepares a scenario runner. With an empty
// DBPath the runner uses a throwaway database removed on Close.
func NewRunner(cfg Config) (*Runner, error) {
	dbPath := strings.TrimSpace(cfg.DBPath)
	tempDir := ""
	if dbPath == "" {
		dir, err := os.MkdirTemp("", "laneworks-scenario-")
		if err != nil {
			return nil, fmt.Errorf("create scratch dir: %w", err)
		}
		tempDir = dir
		dbPath = filepath.Join(dir, "center.db")
	}

	cleanup := func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("generate scenario grant key: %w", err)
	}

	store, err := centersqlite.Open(dbPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open center store: %w", err)
	}

	verify := grant.Config{
		Issuer:   scenarioGrantIssuer,
		Audience: scenarioGrantAudience,
		Key:      publicKey,
		Now:      time.Now,
	}
	signing := grant.IssuerConfig{
		Issuer:   scenarioGrantIssuer,
		Audience: scenarioGrantAudience,
		Key:      privateKey,
		TTL:      scenarioGrantTTL,
	}
	svc := centerservice.NewService(store, verify)
	issue := func(centerID string) (string, error) {
		return grant.Issue(signing, centerID, nil)
	}

	r, err := newRunnerWithDeps(cfg, runnerDeps{svc: svc, issuer: issue})
	if err != nil {
		_ = store.Close()
		cleanup()
		return nil, err
	}
	r.store = store
	r.tempDir = tempDir
	return r, nil
}

// newRunnerWithDeps builds a Runner from pre-built dependencies.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	if deps.svc == nil {
		return nil, errors.New("center service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	assertions := Assertions{Mode: cfg.Assertions, Logger: logger}

	return &Runner{
		svc:        deps.svc,
		issuer:     deps.issuer,
		assertions: assertions,
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var closeErr error
	if r.store != nil {
		closeErr = r.store.Close()
		r.store = nil
	}
	if r.tempDir != "" {
		if err := os.RemoveAll(r.tempDir); err != nil && closeErr == nil {
			closeErr = err
		}
		r.tempDir = ""
	}
	return closeErr
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps against the center service.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{
		centers:    map[string]string{},
		configured: map[string]bool{},
	}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
