package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/busla/webrag/internal/session"
	"go.uber.org/zap"
)

// Server is the HTTP front of the MCP tool server.
type Server struct {
	registry *Registry
	sessions session.Store
	logger   *zap.Logger
	version  string
	host     string
	port     int
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(registry *Registry, sessions session.Store, host string, port int, version string, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		sessions: sessions,
		logger:   logger,
		version:  version,
		host:     host,
		port:     port,
	}
}

// Handler builds the HTTP routes. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/mcp", s.handleRPC)
	r.Delete("/mcp", s.handleEndSession)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("starting MCP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
