package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/laneworks/laneworks/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultHTTPAddr keeps the default footprint constrained to local
// development unless an explicit address broadens access.
const defaultHTTPAddr = "localhost:8081"

// runWithHTTPTransport serves the MCP protocol over streamable HTTP and
// blocks until context cancellation or a server failure.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	server, err := New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("close center store: %v", closeErr)
		}
	}()

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           newHTTPMux(server.mcpServer),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	log.Printf("MCP HTTP server listening on %s", httpAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("MCP HTTP server error: %w", err)
	}
}

// newHTTPMux routes the MCP endpoint and a health probe. Protocol
// sessions and streaming are handled by the SDK's streamable handler.
func newHTTPMux(mcpServer *mcp.Server) *http.ServeMux {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/mcp/health", handleHealth)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}
