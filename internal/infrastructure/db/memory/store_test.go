package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/service"
)

func TestVoterRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Voters()

	require.NoError(t, repo.Create(ctx, &domain.Voter{VoterID: "V1", Username: "alice"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Voter{VoterID: "V1", Username: "bob"}), domain.ErrAlreadyRegistered)
	assert.ErrorIs(t, repo.Create(ctx, &domain.Voter{VoterID: "V2", Username: "Alice"}), domain.ErrUsernameTaken)

	v, err := repo.FindByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "V1", v.VoterID)

	_, err = repo.FindByVoterID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrVoterNotFound)
}

func TestBallotRepository_ListAndTally(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Ballots()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, &domain.Ballot{ID: "b1", VoterID: "V1", Candidate: "Jones", Position: domain.PositionMP, CastAt: base}))
	require.NoError(t, repo.Insert(ctx, &domain.Ballot{ID: "b2", VoterID: "V1", Candidate: "Smith", Position: domain.PositionMLA, CastAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Insert(ctx, &domain.Ballot{ID: "b3", VoterID: "V2", Candidate: "Smith", Position: domain.PositionMLA, CastAt: base}))
	assert.ErrorIs(t, repo.Insert(ctx, &domain.Ballot{ID: "b4", VoterID: "V2", Candidate: "Jones", Position: domain.PositionMLA}), domain.ErrDuplicateVote)

	ballots, err := repo.ListByVoter(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, ballots, 2)
	assert.Equal(t, "b1", ballots[0].ID)
	assert.Equal(t, "b2", ballots[1].ID)

	none, err := repo.ListByVoter(ctx, "V9")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	tally, err := repo.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TallyEntry{
		{Candidate: "Smith", Position: domain.PositionMLA, TotalVotes: 2},
		{Candidate: "Jones", Position: domain.PositionMP, TotalVotes: 1},
	}, tally)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	tally, err = repo.Tally(ctx)
	require.NoError(t, err)
	assert.Empty(t, tally)
}

// Many goroutines race to vote for the same slot through the real service.
// Exactly one must win; every loser must see ErrDuplicateVote.
func TestConcurrentCastVote_SingleBallotPerSlot(t *testing.T) {
	store := NewStore()
	svc := service.NewVoteService(store.Ballots(), nil, zerolog.Nop())
	ctx := context.Background()

	const workers = 64
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
		others     []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := svc.CastVote(ctx, ports.CastVoteInput{
				VoterID:   "V1",
				Candidate: fmt.Sprintf("Candidate-%d", i%4),
				Position:  "MLA",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateVote):
				duplicates++
			default:
				others = append(others, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)

	ballots, err := store.Ballots().ListByVoter(ctx, "V1")
	require.NoError(t, err)
	assert.Len(t, ballots, 1)
}

// End-to-end scenario over the memory store: register, vote, repeat, vote
// for the other seat, tally, clear.
func TestElectionScenario(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	auth := service.NewAuthService(store.Voters(), service.AuthOptions{JWTSecret: "s", BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	votes := service.NewVoteService(store.Ballots(), nil, zerolog.Nop())
	tally := service.NewTallyService(store.Ballots(), zerolog.Nop())

	_, err := auth.Register(ctx, "V1", "alice", "secret1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "V1", "someone-else", "secret2")
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	login, err := auth.Login(ctx, "Alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, "V1", login.VoterID)

	require.NoError(t, votes.CastVote(ctx, ports.CastVoteInput{VoterID: login.VoterID, Candidate: "Smith", Position: "MLA"}))
	assert.ErrorIs(t, votes.CastVote(ctx, ports.CastVoteInput{VoterID: login.VoterID, Candidate: "Smith", Position: "MLA"}), domain.ErrDuplicateVote)
	require.NoError(t, votes.CastVote(ctx, ports.CastVoteInput{VoterID: login.VoterID, Candidate: "Jones", Position: "MP"}))

	results, err := tally.ComputeResults(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = votes.ClearAll(ctx)
	require.NoError(t, err)
	results, err = tally.ComputeResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}
