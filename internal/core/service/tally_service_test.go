package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

func TestTallyService_Empty(t *testing.T) {
	svc := NewTallyService(newStubBallotRepo(), zerolog.Nop())

	results, err := svc.ComputeResults(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", results)
	}
}

func TestTallyService_OrdersByCountDescending(t *testing.T) {
	repo := newStubBallotRepo()
	votes := NewVoteService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	for _, v := range []string{"V1", "V2", "V3"} {
		if err := votes.CastVote(ctx, vote(v, "Smith", "MLA")); err != nil {
			t.Fatalf("vote %s failed: %v", v, err)
		}
	}
	if err := votes.CastVote(ctx, vote("V4", "Jones", "MLA")); err != nil {
		t.Fatalf("vote V4 failed: %v", err)
	}

	results, err := NewTallyService(repo, zerolog.Nop()).ComputeResults(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.TallyEntry{
		{Candidate: "Smith", Position: domain.PositionMLA, TotalVotes: 3},
		{Candidate: "Jones", Position: domain.PositionMLA, TotalVotes: 1},
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], results[i])
		}
	}
}

func TestTallyService_TiesBrokenByCandidate(t *testing.T) {
	repo := newStubBallotRepo()
	repo.seed(domain.Ballot{VoterID: "V1", Candidate: "Zed", Position: domain.PositionMP})
	repo.seed(domain.Ballot{VoterID: "V2", Candidate: "Amy", Position: domain.PositionMP})

	results, err := NewTallyService(repo, zerolog.Nop()).ComputeResults(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Candidate != "Amy" || results[1].Candidate != "Zed" {
		t.Fatalf("expected Amy before Zed on a tie, got %+v", results)
	}
}

func TestTallyService_AfterClearIsEmpty(t *testing.T) {
	repo := newStubBallotRepo()
	votes := NewVoteService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	_ = votes.CastVote(ctx, vote("V1", "Smith", "MLA"))
	if _, err := votes.ClearAll(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	results, err := NewTallyService(repo, zerolog.Nop()).ComputeResults(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after clear, got %+v", results)
	}
}

func TestTallyService_StorageError(t *testing.T) {
	repo := newStubBallotRepo()
	repo.tallyErr = fmt.Errorf("aggregate ballots: %w", domain.ErrStorageUnavailable)

	_, err := NewTallyService(repo, zerolog.Nop()).ComputeResults(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
