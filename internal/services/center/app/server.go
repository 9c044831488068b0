// Package server wires the center HTTP runtime and storage lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/laneworks/laneworks/internal/platform/config"
	"github.com/laneworks/laneworks/internal/platform/timeouts"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	"github.com/laneworks/laneworks/internal/services/center/service"
	centersqlite "github.com/laneworks/laneworks/internal/services/center/storage/sqlite"
)

type serverEnv struct {
	DBPath string `env:"LANEWORKS_CENTER_DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "center.db")
	}
	return cfg
}

// Server hosts the center HTTP API and storage lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *centersqlite.Store
}

// NewWithAddr creates a configured center server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	httpAddr := strings.TrimSpace(addr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	env := loadServerEnv()
	store, err := openCenterStore(env.DBPath)
	if err != nil {
		return nil, err
	}

	grants, err := grant.LoadConfigFromEnv(time.Now)
	if err != nil {
		log.Printf("layout grants not configured, replacing layouts is disabled: %v", err)
		grants = grant.Config{}
	}

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           NewHandler(service.NewService(store, grants)),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		store:      store,
	}, nil
}

// Run creates and serves a center server until context cancellation.
func Run(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.ListenAndServe(ctx)
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("center server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("center API listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases center server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close center store: %v", err)
		}
	}
}

func openCenterStore(path string) (*centersqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := centersqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open center sqlite store: %w", err)
	}
	return store, nil
}
