package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// SearchRequest is the JSON body for POST /v1/search and
// POST /v1/summary_search.
type SearchRequest struct {
	// Query is the search text. Required.
	Query string `json:"query"`

	// TopK is the number of results to return. Omitted means the
	// server default; an explicit non-positive value is an error.
	TopK *int `json:"top_k,omitempty"`

	// Ministry restricts results to meetings of one ministry.
	Ministry string `json:"ministry,omitempty"`

	// GroupByDocument folds raw chunk results into per-document
	// aggregates. Ignored by summary search.
	GroupByDocument bool `json:"group_by_document,omitempty"`
}

// handleSearch handles POST /v1/search requests over raw transcript chunks.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	topK := s.resolveTopK(req.TopK, s.config.MaxTopK)
	filter := chunks.Filter{Ministry: req.Ministry}

	if req.GroupByDocument {
		output, err := s.retriever.SearchGrouped(c.Context(), req.Query, topK, filter)
		if err != nil {
			return s.retrievalError(c, err)
		}
		return c.JSON(output)
	}

	output, err := s.retriever.Search(c.Context(), req.Query, topK, filter)
	if err != nil {
		return s.retrievalError(c, err)
	}

	return c.JSON(output)
}

// handleSummarySearch handles POST /v1/summary_search requests over
// per-document summaries.
func (s *Server) handleSummarySearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	topK := s.resolveTopK(req.TopK, s.config.SummaryMaxTopK)
	filter := chunks.Filter{Ministry: req.Ministry}

	output, err := s.retriever.SummarySearch(c.Context(), req.Query, topK, filter)
	if err != nil {
		return s.retrievalError(c, err)
	}

	return c.JSON(output)
}

// resolveTopK applies the default for omitted top_k and caps explicit
// values at the endpoint maximum. Non-positive explicit values pass
// through so the retriever rejects them as input errors.
func (s *Server) resolveTopK(topK *int, maxTopK int) int {
	if topK == nil {
		return s.config.DefaultTopK
	}
	if *topK > maxTopK {
		return maxTopK
	}
	return *topK
}

func (s *Server) retrievalError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("retrieval failed", "error", err)
	}

	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
