package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

// VoteHandler handles ballot submission and lookup.
type VoteHandler struct {
	votes ports.VoteService
}

func NewVoteHandler(votes ports.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// CastVote records one ballot for the given position.
//
// @Summary      Cast a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        body  body      castVoteRequest  true  "Ballot"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse  "missing field, bad position or duplicate vote"
// @Failure      500   {object}  messageResponse
// @Router       /vote [post]
func (h *VoteHandler) CastVote(c echo.Context) error {
	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Position = strings.TrimSpace(req.Position)
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.votes.CastVote(c.Request().Context(), ports.CastVoteInput{
		VoterID:   req.VoterID,
		Candidate: req.Candidate,
		Position:  req.Position,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Vote cast successfully!"})
}

// CheckVote lists the ballots cast by a voter. success is false when the voter
// has not voted yet.
//
// @Summary      Check a voter's ballots
// @Tags         votes
// @Produce      json
// @Param        voterID  path      string  true  "Voter ID"
// @Success      200      {object}  checkVoteResponse
// @Failure      400      {object}  messageResponse
// @Failure      500      {object}  messageResponse
// @Router       /check-vote/{voterID} [get]
func (h *VoteHandler) CheckVote(c echo.Context) error {
	ballots, err := h.votes.BallotsFor(c.Request().Context(), c.Param("voterID"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkVoteResponse{
		Success: len(ballots) > 0,
		Votes:   toBallotResponses(ballots),
	})
}
