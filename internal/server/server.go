// Package server provides the HTTP transport adapter: it maps routes to
// session actor operations and serializes session state back to callers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/mcp"
	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/internal/session"
	"github.com/aether-ai/aether/internal/tool"
	"github.com/aether-ai/aether/pkg/types"
)

// Config holds server configuration.
type Config struct {
	Port         int
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8787,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no write timeout, responses stream
	}
}

// Server is the HTTP server.
type Server struct {
	config    *Config
	router    *chi.Mux
	httpSrv   *http.Server
	sessions  *session.Manager
	tools     *tool.Dispatcher
	mcpClient *mcp.Client
}

// New creates a new Server instance wired to the given providers and MCP
// client. mcpClient may be nil when no external tool servers are
// configured.
func New(cfg *Config, appConfig *types.Config, providers *provider.Registry, mcpClient *mcp.Client) *Server {
	toolOpts := []tool.Option{}
	if appConfig != nil && appConfig.SerpAPIKey != "" {
		toolOpts = append(toolOpts, tool.WithSerpAPIKey(appConfig.SerpAPIKey))
	}
	if mcpClient != nil {
		toolOpts = append(toolOpts, tool.WithMCP(mcpClient))
	}
	dispatcher := tool.NewDispatcher(toolOpts...)

	defaultModel := config.DefaultModel
	if appConfig != nil && appConfig.Model != "" {
		defaultModel = appConfig.Model
	}

	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		sessions:  session.NewManager(defaultModel, providers, dispatcher),
		tools:     dispatcher,
		mcpClient: mcpClient,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/event", s.handleEvents)
		r.Get("/tools", s.handleListTools)
		r.Post("/client-errors", s.handleClientError)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)
			r.Delete("/", s.handleDeleteAllSessions)
			r.Delete("/{sessionID}", s.handleDeleteSession)
			r.Put("/{sessionID}/title", s.handleRenameSession)
		})

		r.Route("/chat/{sessionID}", func(r chi.Router) {
			r.Get("/messages", s.handleGetMessages)
			r.Post("/chat", s.handleChat)
			r.Delete("/clear", s.handleClear)
			r.Post("/model", s.handleUpdateModel)
			r.Post("/canvas", s.handleUpdateCanvas)
			r.Get("/files", s.handleGetFiles)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
