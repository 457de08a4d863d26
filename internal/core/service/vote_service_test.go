package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

func newVoteSvc(repo *stubBallotRepo, marker *stubMarker) ports.VoteService {
	if marker == nil {
		return NewVoteService(repo, nil, zerolog.Nop())
	}
	return NewVoteService(repo, marker, zerolog.Nop())
}

func vote(voterID, candidate, position string) ports.CastVoteInput {
	return ports.CastVoteInput{VoterID: voterID, Candidate: candidate, Position: position}
}

func TestVoteService_CastVote_OnePerPosition(t *testing.T) {
	repo := newStubBallotRepo()
	svc := newVoteSvc(repo, nil)
	ctx := context.Background()

	if err := svc.CastVote(ctx, vote("V1", "Smith", "MLA")); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if err := svc.CastVote(ctx, vote("V1", "Smith", "MLA")); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote on repeat, got %v", err)
	}
	if err := svc.CastVote(ctx, vote("V1", "Other", "MLA")); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote for a different candidate, got %v", err)
	}
	if err := svc.CastVote(ctx, vote("V1", "Jones", "MP")); err != nil {
		t.Fatalf("vote for a different position failed: %v", err)
	}

	if len(repo.ballots) != 2 {
		t.Fatalf("expected 2 ballots, got %d", len(repo.ballots))
	}
	if got := repo.ballots[domain.BallotKey{VoterID: "V1", Position: domain.PositionMLA}].Candidate; got != "Smith" {
		t.Fatalf("duplicate must not overwrite, got candidate %q", got)
	}
	if repo.inserts != 2 {
		t.Fatalf("expected exactly 2 store writes, got %d", repo.inserts)
	}
}

func TestVoteService_CastVote_InvalidInputTouchesNothing(t *testing.T) {
	cases := []struct {
		name string
		in   ports.CastVoteInput
	}{
		{"empty voter", vote("", "Smith", "MLA")},
		{"blank voter", vote("   ", "Smith", "MLA")},
		{"empty candidate", vote("V1", "", "MLA")},
		{"blank candidate", vote("V1", " \t", "MLA")},
		{"empty position", vote("V1", "Smith", "")},
		{"unknown position", vote("V1", "Smith", "Senator")},
		{"lowercase position", vote("V1", "Smith", "mla")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubBallotRepo()
			marker := newStubMarker()
			svc := newVoteSvc(repo, marker)

			err := svc.CastVote(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if repo.finds != 0 || repo.inserts != 0 || marker.checks != 0 {
				t.Fatalf("expected no store access, got finds=%d inserts=%d marker=%d", repo.finds, repo.inserts, marker.checks)
			}
		})
	}
}

func TestVoteService_CastVote_TrimsAndStamps(t *testing.T) {
	repo := newStubBallotRepo()
	svc := newVoteSvc(repo, nil).(*voteService)
	fixed := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.CastVote(context.Background(), vote(" V1 ", " Smith ", " MLA ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, ok := repo.ballots[domain.BallotKey{VoterID: "V1", Position: domain.PositionMLA}]
	if !ok {
		t.Fatalf("expected ballot under trimmed key, got %+v", repo.ballots)
	}
	if b.Candidate != "Smith" || !b.CastAt.Equal(fixed) || b.ID == "" {
		t.Fatalf("unexpected ballot: %+v", b)
	}
}

func TestVoteService_CastVote_MarkerHitSkipsStore(t *testing.T) {
	repo := newStubBallotRepo()
	marker := newStubMarker()
	marker.marked[domain.BallotKey{VoterID: "V1", Position: domain.PositionMLA}] = true
	svc := newVoteSvc(repo, marker)

	if err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA")); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
	if repo.finds != 0 || repo.inserts != 0 {
		t.Fatalf("expected no store access, got finds=%d inserts=%d", repo.finds, repo.inserts)
	}
}

func TestVoteService_CastVote_MarkerErrorFallsBackToStore(t *testing.T) {
	repo := newStubBallotRepo()
	marker := newStubMarker()
	marker.checkErr = errors.New("redis down")
	marker.markErr = errors.New("redis down")
	svc := newVoteSvc(repo, marker)

	if err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA")); err != nil {
		t.Fatalf("expected vote to succeed without the marker, got %v", err)
	}
	if err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA")); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected store to catch duplicate, got %v", err)
	}
}

func TestVoteService_CastVote_MarksAfterInsert(t *testing.T) {
	repo := newStubBallotRepo()
	marker := newStubMarker()
	svc := newVoteSvc(repo, marker)

	_ = svc.CastVote(context.Background(), vote("V1", "Smith", "MLA"))
	if !marker.marked[domain.BallotKey{VoterID: "V1", Position: domain.PositionMLA}] {
		t.Fatalf("expected slot to be marked after a successful vote")
	}
}

func TestVoteService_CastVote_ConstraintViolationIsDuplicate(t *testing.T) {
	repo := newStubBallotRepo()
	// The read check sees nothing but the insert loses to a concurrent writer.
	repo.insertErr = fmt.Errorf("insert ballot: %w", domain.ErrDuplicateVote)
	marker := newStubMarker()
	svc := newVoteSvc(repo, marker)

	err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA"))
	if !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
	if errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("constraint violation must not surface as a storage error")
	}
	if !marker.marked[domain.BallotKey{VoterID: "V1", Position: domain.PositionMLA}] {
		t.Fatalf("expected slot to be marked after losing the race")
	}
}

func TestVoteService_CastVote_StorageUnavailable(t *testing.T) {
	repo := newStubBallotRepo()
	repo.insertErr = fmt.Errorf("insert ballot: %w", domain.ErrStorageUnavailable)
	svc := newVoteSvc(repo, nil)

	if err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA")); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}

	repo = newStubBallotRepo()
	repo.findErr = fmt.Errorf("find ballot: %w", domain.ErrStorageUnavailable)
	svc = newVoteSvc(repo, nil)
	if err := svc.CastVote(context.Background(), vote("V1", "Smith", "MLA")); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable from lookup, got %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no insert after a failed lookup")
	}
}

func TestVoteService_BallotsFor(t *testing.T) {
	repo := newStubBallotRepo()
	svc := newVoteSvc(repo, nil)
	ctx := context.Background()

	ballots, err := svc.BallotsFor(ctx, "V1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ballots == nil || len(ballots) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", ballots)
	}

	_ = svc.CastVote(ctx, vote("V1", "Smith", "MLA"))
	_ = svc.CastVote(ctx, vote("V1", "Jones", "MP"))
	_ = svc.CastVote(ctx, vote("V2", "Smith", "MLA"))

	ballots, err = svc.BallotsFor(ctx, " V1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ballots) != 2 {
		t.Fatalf("expected 2 ballots for V1, got %d", len(ballots))
	}

	if _, err := svc.BallotsFor(ctx, "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank voter id, got %v", err)
	}
}

func TestVoteService_ClearAll(t *testing.T) {
	repo := newStubBallotRepo()
	marker := newStubMarker()
	svc := newVoteSvc(repo, marker)
	ctx := context.Background()

	_ = svc.CastVote(ctx, vote("V1", "Smith", "MLA"))
	_ = svc.CastVote(ctx, vote("V2", "Smith", "MLA"))

	deleted, err := svc.ClearAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}
	if marker.resets != 1 {
		t.Fatalf("expected marker reset, got %d", marker.resets)
	}

	// The cleared slot can be voted again.
	if err := svc.CastVote(ctx, vote("V1", "Jones", "MLA")); err != nil {
		t.Fatalf("expected re-vote after reset to succeed, got %v", err)
	}
}

func TestVoteService_ClearAll_Errors(t *testing.T) {
	repo := newStubBallotRepo()
	repo.deleteErr = fmt.Errorf("delete ballots: %w", domain.ErrStorageUnavailable)
	marker := newStubMarker()
	svc := newVoteSvc(repo, marker)

	if _, err := svc.ClearAll(context.Background()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if marker.resets != 0 {
		t.Fatalf("markers must survive a failed delete")
	}

	repo = newStubBallotRepo()
	marker = newStubMarker()
	marker.resetErr = errors.New("redis down")
	svc = newVoteSvc(repo, marker)
	if _, err := svc.ClearAll(context.Background()); err == nil {
		t.Fatalf("expected marker reset failure to be reported")
	}
}
