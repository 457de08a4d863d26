package ports

import (
	"context"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// CastVoteInput is the DTO passed from the transport layer to VoteService.
type CastVoteInput struct {
	VoterID   string
	Candidate string
	Position  string
}

// VoteService admits ballots and exposes per-voter lookups and the reset.
type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) error
	BallotsFor(ctx context.Context, voterID string) ([]domain.Ballot, error)
	ClearAll(ctx context.Context) (int64, error)
}

// TallyService computes election results.
type TallyService interface {
	ComputeResults(ctx context.Context) ([]domain.TallyEntry, error)
}
