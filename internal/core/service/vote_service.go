package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/api/metrics"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

type voteService struct {
	ballots ports.BallotRepository
	marker  ports.BallotMarker
	now     func() time.Time
	log     zerolog.Logger
}

// NewVoteService returns a VoteService implementation. marker may be nil, in
// which case every duplicate check goes to the ballot store.
func NewVoteService(ballots ports.BallotRepository, marker ports.BallotMarker, log zerolog.Logger) ports.VoteService {
	if marker == nil {
		marker = nopMarker{}
	}
	return &voteService{
		ballots: ballots,
		marker:  marker,
		now:     func() time.Time { return time.Now().UTC() },
		log:     log,
	}
}

// CastVote validates and records a single ballot.
func (s *voteService) CastVote(ctx context.Context, in ports.CastVoteInput) error {
	voterID := domain.CanonicalVoterID(in.VoterID)
	candidate := strings.TrimSpace(in.Candidate)

	// 1. Validate before touching any store.
	if voterID == "" || candidate == "" || strings.TrimSpace(in.Position) == "" {
		metrics.VotesRejectedTotal.WithLabelValues("invalid_input").Inc()
		return domain.InvalidInput(domain.ReasonMissingFields)
	}
	position, ok := domain.ParsePosition(in.Position)
	if !ok {
		metrics.VotesRejectedTotal.WithLabelValues("invalid_input").Inc()
		return domain.InvalidInput(domain.ReasonInvalidPosition)
	}

	// 2. Fast path: a marker hit is authoritative enough to reject.
	marked, err := s.marker.IsMarked(ctx, voterID, position)
	switch {
	case err != nil:
		metrics.BallotMarkerTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("voter_id", voterID).Msg("ballot marker check failed, falling back to store")
	case marked:
		metrics.BallotMarkerTotal.WithLabelValues("hit").Inc()
		metrics.VotesRejectedTotal.WithLabelValues("duplicate_marker").Inc()
		return domain.ErrDuplicateVote
	default:
		metrics.BallotMarkerTotal.WithLabelValues("miss").Inc()
	}

	// 3. Read check against the store.
	if _, err := s.ballots.FindByVoterAndPosition(ctx, voterID, position); err == nil {
		metrics.VotesRejectedTotal.WithLabelValues("duplicate_lookup").Inc()
		s.mark(ctx, voterID, position)
		return domain.ErrDuplicateVote
	} else if !errors.Is(err, domain.ErrBallotNotFound) {
		metrics.VotesRejectedTotal.WithLabelValues("storage").Inc()
		return fmt.Errorf("cast vote: %w", err)
	}

	// 4. Insert. The uniqueness constraint settles concurrent submissions.
	ballot := &domain.Ballot{
		ID:        uuid.NewString(),
		VoterID:   voterID,
		Candidate: candidate,
		Position:  position,
		CastAt:    s.now(),
	}
	if err := s.ballots.Insert(ctx, ballot); err != nil {
		if errors.Is(err, domain.ErrDuplicateVote) {
			metrics.VotesRejectedTotal.WithLabelValues("duplicate_constraint").Inc()
			s.log.Info().Str("voter_id", voterID).Str("position", string(position)).Msg("concurrent duplicate rejected by store")
			s.mark(ctx, voterID, position)
			return domain.ErrDuplicateVote
		}
		metrics.VotesRejectedTotal.WithLabelValues("storage").Inc()
		return fmt.Errorf("cast vote: %w", err)
	}

	// 5. Remember the slot for the next fast-path check.
	s.mark(ctx, voterID, position)

	metrics.VotesCastTotal.WithLabelValues(string(position)).Inc()
	s.log.Info().
		Str("voter_id", voterID).
		Str("position", string(position)).
		Msg("ballot recorded")

	return nil
}

// BallotsFor returns every ballot the voter has cast.
func (s *voteService) BallotsFor(ctx context.Context, voterID string) ([]domain.Ballot, error) {
	voterID = domain.CanonicalVoterID(voterID)
	if voterID == "" {
		return nil, domain.InvalidInput(domain.ReasonMissingVoterID)
	}

	ballots, err := s.ballots.ListByVoter(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	if ballots == nil {
		ballots = []domain.Ballot{}
	}
	return ballots, nil
}

// ClearAll deletes every ballot, then drops the fast-path markers so the
// cleared slots can be voted again.
func (s *voteService) ClearAll(ctx context.Context) (int64, error) {
	deleted, err := s.ballots.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear votes: %w", err)
	}
	metrics.BallotsClearedTotal.Add(float64(deleted))

	if err := s.marker.Reset(ctx); err != nil {
		s.log.Error().Err(err).Int64("deleted", deleted).Msg("ballots cleared but marker reset failed")
		return deleted, fmt.Errorf("clear votes: reset markers: %w", err)
	}

	s.log.Warn().Int64("deleted", deleted).Msg("all ballots cleared")
	return deleted, nil
}

func (s *voteService) mark(ctx context.Context, voterID string, position domain.Position) {
	if err := s.marker.Mark(ctx, voterID, position); err != nil {
		s.log.Warn().Err(err).Str("voter_id", voterID).Msg("failed to set ballot marker")
	}
}

// nopMarker is used when no marker cache is configured.
type nopMarker struct{}

func (nopMarker) IsMarked(context.Context, string, domain.Position) (bool, error) { return false, nil }
func (nopMarker) Mark(context.Context, string, domain.Position) error            { return nil }
func (nopMarker) Reset(context.Context) error                                     { return nil }
