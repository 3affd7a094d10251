package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON body for /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealthz pings the chunk store and reports readiness.
func (s *Server) handleHealthz(c *fiber.Ctx) error {
	if err := s.store.Ping(c.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "chunk store unreachable",
		})
	}

	return c.JSON(HealthResponse{Status: "ok"})
}

// statusForError maps retrieval errors onto HTTP status codes. Caller
// mistakes are 400, backend outages 503, data integrity problems 500.
func statusForError(err error) int {
	var inputErr *retrieve.InputError
	if errors.As(err, &inputErr) {
		return fiber.StatusBadRequest
	}

	if errors.Is(err, chunks.ErrUnavailable) {
		return fiber.StatusServiceUnavailable
	}

	return fiber.StatusInternalServerError
}
