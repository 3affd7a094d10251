package api

import (
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/mcp"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// Server is the API server for querying meeting transcripts.
type Server struct {
	config    Config
	retriever *retrieve.Retriever
	store     chunks.Store
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The store is injected alongside
// the retriever so the health check can ping it directly.
func NewServer(config Config, retriever *retrieve.Retriever, store chunks.Store, mcpServer *mcp.Server, logger *slog.Logger) *Server {
	config.applyDefaults()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		retriever: retriever,
		store:     store,
		logger:    logger,
		app:       app,
	}

	app.Get("/healthz", s.handleHealthz)
	app.Post("/v1/search", s.handleSearch)
	app.Post("/v1/summary_search", s.handleSummarySearch)

	if mcpServer != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
