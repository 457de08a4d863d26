package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

// ResultsHandler serves the tally and the administrative reset.
type ResultsHandler struct {
	tally ports.TallyService
	votes ports.VoteService
	log   zerolog.Logger
}

func NewResultsHandler(tally ports.TallyService, votes ports.VoteService, log zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{tally: tally, votes: votes, log: log}
}

// Results returns vote totals per candidate and position, highest first.
//
// @Summary      Election results
// @Tags         results
// @Produce      json
// @Success      200  {object}  resultsResponse
// @Failure      500  {object}  messageResponse
// @Router       /results [get]
func (h *ResultsHandler) Results(c echo.Context) error {
	entries, err := h.tally.ComputeResults(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resultsResponse{
		Success: true,
		Results: toResultResponses(entries),
	})
}

// ClearVotes deletes every ballot. Admin only.
//
// @Summary      Clear all votes
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clearVotesResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /clear-votes [delete]
func (h *ResultsHandler) ClearVotes(c echo.Context) error {
	voterID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	deleted, err := h.votes.ClearAll(c.Request().Context())
	if err != nil {
		return err
	}

	h.log.Warn().
		Str("admin_voter_id", voterID).
		Int64("deleted", deleted).
		Msg("votes cleared")

	return c.JSON(http.StatusOK, clearVotesResponse{
		Success:      true,
		Message:      "All votes cleared",
		DeletedCount: deleted,
	})
}
