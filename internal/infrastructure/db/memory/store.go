// Package memory implements the credential and ballot stores in process
// memory. It enforces the same uniqueness rules as the database-backed stores
// and is used for STORE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// Store holds voters and ballots. The zero value is not usable; call NewStore.
type Store struct {
	mu sync.RWMutex

	voters    map[string]domain.Voter // by voter id
	usernames map[string]string       // canonical username -> voter id
	ballots   map[domain.BallotKey]domain.Ballot
}

func NewStore() *Store {
	return &Store{
		voters:    make(map[string]domain.Voter),
		usernames: make(map[string]string),
		ballots:   make(map[domain.BallotKey]domain.Ballot),
	}
}

// Voters returns the store as a ports.VoterRepository.
func (s *Store) Voters() *VoterRepository { return &VoterRepository{s: s} }

// Ballots returns the store as a ports.BallotRepository.
func (s *Store) Ballots() *BallotRepository { return &BallotRepository{s: s} }

// Ping always succeeds; it lets the store take part in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

type VoterRepository struct{ s *Store }

func (r *VoterRepository) Create(_ context.Context, v *domain.Voter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.voters[v.VoterID]; exists {
		return domain.ErrAlreadyRegistered
	}
	username := domain.CanonicalUsername(v.Username)
	if _, exists := r.s.usernames[username]; exists {
		return domain.ErrUsernameTaken
	}
	stored := *v
	stored.Username = username
	r.s.voters[v.VoterID] = stored
	r.s.usernames[username] = v.VoterID
	return nil
}

func (r *VoterRepository) FindByVoterID(_ context.Context, voterID string) (*domain.Voter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.voters[voterID]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return &v, nil
}

func (r *VoterRepository) FindByUsername(_ context.Context, username string) (*domain.Voter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[domain.CanonicalUsername(username)]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	v := r.s.voters[id]
	return &v, nil
}

type BallotRepository struct{ s *Store }

// Insert checks and writes under one lock, so the (voter, position) slot is
// claimed atomically.
func (r *BallotRepository) Insert(_ context.Context, b *domain.Ballot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.ballots[b.Key()]; exists {
		return domain.ErrDuplicateVote
	}
	r.s.ballots[b.Key()] = *b
	return nil
}

func (r *BallotRepository) FindByVoterAndPosition(_ context.Context, voterID string, position domain.Position) (*domain.Ballot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.ballots[domain.BallotKey{VoterID: voterID, Position: position}]
	if !ok {
		return nil, domain.ErrBallotNotFound
	}
	return &b, nil
}

func (r *BallotRepository) ListByVoter(_ context.Context, voterID string) ([]domain.Ballot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Ballot{}
	for _, p := range domain.Positions {
		if b, ok := r.s.ballots[domain.BallotKey{VoterID: voterID, Position: p}]; ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CastAt.Before(out[j].CastAt) })
	return out, nil
}

func (r *BallotRepository) Tally(_ context.Context) ([]domain.TallyEntry, error) {
	r.s.mu.RLock()
	type group struct {
		candidate string
		position  domain.Position
	}
	counts := make(map[group]int64)
	for _, b := range r.s.ballots {
		counts[group{b.Candidate, b.Position}]++
	}
	r.s.mu.RUnlock()

	out := make([]domain.TallyEntry, 0, len(counts))
	for g, n := range counts {
		out = append(out, domain.TallyEntry{Candidate: g.candidate, Position: g.position, TotalVotes: n})
	}
	domain.SortTally(out)
	return out, nil
}

func (r *BallotRepository) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.ballots))
	r.s.ballots = make(map[domain.BallotKey]domain.Ballot)
	return n, nil
}
