package ports

import (
	"context"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// BallotRepository is the Ballot Store. Implementations must declare a
// uniqueness constraint on (voter id, position).
type BallotRepository interface {
	// Insert persists b. A uniqueness violation is reported as
	// domain.ErrDuplicateVote; the constraint, not the caller, is the arbiter.
	Insert(ctx context.Context, b *domain.Ballot) error
	// FindByVoterAndPosition returns domain.ErrBallotNotFound when the slot is free.
	FindByVoterAndPosition(ctx context.Context, voterID string, position domain.Position) (*domain.Ballot, error)
	// ListByVoter returns the voter's ballots ordered by cast time. An empty
	// slice means the voter has not voted.
	ListByVoter(ctx context.Context, voterID string) ([]domain.Ballot, error)
	// Tally counts ballots per (candidate, position).
	Tally(ctx context.Context) ([]domain.TallyEntry, error)
	// DeleteAll removes every ballot and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)
}

// BallotMarker is an optional fast-path cache of occupied (voter, position)
// slots. A hit lets the service reject a duplicate without a store round trip;
// a miss proves nothing.
type BallotMarker interface {
	IsMarked(ctx context.Context, voterID string, position domain.Position) (bool, error)
	Mark(ctx context.Context, voterID string, position domain.Position) error
	// Reset drops every marker. Called after the ballot store is cleared.
	Reset(ctx context.Context) error
}
