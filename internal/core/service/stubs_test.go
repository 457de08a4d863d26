package service

import (
	"context"
	"sort"
	"sync"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub voter repository
// ---------------------------------------------------------------------------

type stubVoterRepo struct {
	byID       map[string]*domain.Voter
	byUsername map[string]*domain.Voter
	findErr    error // if set, both finders return this error
	createErr  error // if set, Create returns this error
}

func newStubVoterRepo() *stubVoterRepo {
	return &stubVoterRepo{
		byID:       make(map[string]*domain.Voter),
		byUsername: make(map[string]*domain.Voter),
	}
}

func cloneVoter(v *domain.Voter) *domain.Voter {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func (r *stubVoterRepo) Create(_ context.Context, v *domain.Voter) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byID[v.VoterID]; exists {
		return domain.ErrAlreadyRegistered
	}
	if _, exists := r.byUsername[v.Username]; exists {
		return domain.ErrUsernameTaken
	}
	r.byID[v.VoterID] = cloneVoter(v)
	r.byUsername[v.Username] = cloneVoter(v)
	return nil
}

func (r *stubVoterRepo) FindByVoterID(_ context.Context, voterID string) (*domain.Voter, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	v, ok := r.byID[voterID]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return cloneVoter(v), nil
}

func (r *stubVoterRepo) FindByUsername(_ context.Context, username string) (*domain.Voter, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	v, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return cloneVoter(v), nil
}

// ---------------------------------------------------------------------------
// In-memory stub ballot repository
// ---------------------------------------------------------------------------

type stubBallotRepo struct {
	mu      sync.Mutex
	ballots map[domain.BallotKey]domain.Ballot

	findErr   error
	insertErr error // if set, Insert returns this error without storing
	tallyErr  error
	deleteErr error

	finds   int
	inserts int
}

func newStubBallotRepo() *stubBallotRepo {
	return &stubBallotRepo{ballots: make(map[domain.BallotKey]domain.Ballot)}
}

func (r *stubBallotRepo) Insert(_ context.Context, b *domain.Ballot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.ballots[b.Key()]; exists {
		return domain.ErrDuplicateVote
	}
	r.ballots[b.Key()] = *b
	return nil
}

func (r *stubBallotRepo) FindByVoterAndPosition(_ context.Context, voterID string, p domain.Position) (*domain.Ballot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.ballots[domain.BallotKey{VoterID: voterID, Position: p}]
	if !ok {
		return nil, domain.ErrBallotNotFound
	}
	return &b, nil
}

func (r *stubBallotRepo) ListByVoter(_ context.Context, voterID string) ([]domain.Ballot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Ballot
	for _, b := range r.ballots {
		if b.VoterID == voterID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CastAt.Before(out[j].CastAt) })
	return out, nil
}

// Tally deliberately returns groups unsorted so the service ordering is exercised.
func (r *stubBallotRepo) Tally(_ context.Context) ([]domain.TallyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tallyErr != nil {
		return nil, r.tallyErr
	}
	counts := make(map[[2]string]int64)
	for _, b := range r.ballots {
		counts[[2]string{b.Candidate, string(b.Position)}]++
	}
	var out []domain.TallyEntry
	for k, n := range counts {
		out = append(out, domain.TallyEntry{Candidate: k[0], Position: domain.Position(k[1]), TotalVotes: n})
	}
	return out, nil
}

func (r *stubBallotRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	n := int64(len(r.ballots))
	r.ballots = make(map[domain.BallotKey]domain.Ballot)
	return n, nil
}

// seed stores a ballot directly, bypassing the service.
func (r *stubBallotRepo) seed(b domain.Ballot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ballots[b.Key()] = b
}

// ---------------------------------------------------------------------------
// Stub ballot marker
// ---------------------------------------------------------------------------

type stubMarker struct {
	marked   map[domain.BallotKey]bool
	checkErr error
	markErr  error
	resetErr error
	checks   int
	resets   int
}

func newStubMarker() *stubMarker {
	return &stubMarker{marked: make(map[domain.BallotKey]bool)}
}

func (m *stubMarker) IsMarked(_ context.Context, voterID string, p domain.Position) (bool, error) {
	m.checks++
	if m.checkErr != nil {
		return false, m.checkErr
	}
	return m.marked[domain.BallotKey{VoterID: voterID, Position: p}], nil
}

func (m *stubMarker) Mark(_ context.Context, voterID string, p domain.Position) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked[domain.BallotKey{VoterID: voterID, Position: p}] = true
	return nil
}

func (m *stubMarker) Reset(_ context.Context) error {
	m.resets++
	if m.resetErr != nil {
		return m.resetErr
	}
	m.marked = make(map[domain.BallotKey]bool)
	return nil
}
