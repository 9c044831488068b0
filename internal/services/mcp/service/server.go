package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/laneworks/laneworks/internal/platform/branding"
	"github.com/laneworks/laneworks/internal/services/center/domain/grant"
	centerservice "github.com/laneworks/laneworks/internal/services/center/service"
	centersqlite "github.com/laneworks/laneworks/internal/services/center/storage/sqlite"
	"github.com/laneworks/laneworks/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	// DBPath locates the center registry database. The server opens it
	// read-only; layout writes stay with the center API.
	DBPath    string
	Transport TransportKind
	// HTTPAddr is the HTTP listen address, defaulting to localhost:8081
	// for the HTTP transport.
	HTTPAddr string
}

type mcpRegistrationModule struct {
	name     string
	register func(mcpRegistrationTarget) error
}

const (
	mcpLaneToolsModuleName   = "lane-tools"
	mcpCenterToolsModuleName = "center-tools"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.ValidateLaneLayoutInput, domain.ValidateLaneLayoutResult](),
	newMCPToolRegistrar[domain.DeriveLanePairsInput, domain.DeriveLanePairsResult](),
	newMCPToolRegistrar[domain.CenterLayoutInput, domain.CenterLayoutResult](),
	newMCPToolRegistrar[domain.ListCentersInput, domain.ListCentersResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(reader domain.CenterReader) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpLaneToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerLaneTools(registrar)
			},
		},
		{
			name: mcpCenterToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCenterTools(registrar, reader)
			},
		},
	}
}

// Server hosts the MCP server over the center registry.
type Server struct {
	mcpServer *mcp.Server
	store     *centersqlite.Store
}

// New opens the center registry read-only and registers every tool.
func New(dbPath string) (*Server, error) {
	store, err := centersqlite.OpenReadOnly(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open center store at %s: %w", dbPath, err)
	}
	server, err := newServer(centerservice.NewService(store, grant.Config{}))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	server.store = store
	return server, nil
}

// newServer creates MCP tool handler bindings once over the given registry
// surface.
func newServer(reader domain.CenterReader) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, module := range newMCPRegistrationModules(reader) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Close releases the center store held by the server.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return err
	}
	s.store = nil
	return nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. It is transport-agnostic so startup can choose stdio for
// local tools and HTTP for remote integrations.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// The server and its store share a single exit path so cleanup behavior is
// consistent for both stdio and HTTP runs.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close center store: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close center store: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(cfg.DBPath)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}
