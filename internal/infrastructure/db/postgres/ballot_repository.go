package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

type BallotRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewBallotRepository(db *sql.DB) *BallotRepository {
	return &BallotRepository{db: db, timeout: defaultTimeout}
}

func (r *BallotRepository) Insert(ctx context.Context, b *domain.Ballot) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO ballots (id, voter_id, candidate, position, cast_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.VoterID, b.Candidate, string(b.Position), b.CastAt.UTC())
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == voterPositionConstraint {
			return domain.ErrDuplicateVote
		}
		return unavailable("insert ballot", err)
	}
	return nil
}

func (r *BallotRepository) FindByVoterAndPosition(ctx context.Context, voterID string, position domain.Position) (*domain.Ballot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, voter_id, candidate, position, cast_at
		FROM ballots WHERE voter_id = $1 AND position = $2
	`
	var (
		b   domain.Ballot
		pos string
	)
	err := r.db.QueryRowContext(ctx, query, voterID, string(position)).
		Scan(&b.ID, &b.VoterID, &b.Candidate, &pos, &b.CastAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBallotNotFound
		}
		return nil, unavailable("find ballot", err)
	}
	b.Position = domain.Position(pos)
	b.CastAt = b.CastAt.UTC()
	return &b, nil
}

func (r *BallotRepository) ListByVoter(ctx context.Context, voterID string) ([]domain.Ballot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, voter_id, candidate, position, cast_at
		FROM ballots WHERE voter_id = $1
		ORDER BY cast_at, position
	`
	rows, err := r.db.QueryContext(ctx, query, voterID)
	if err != nil {
		return nil, unavailable("list ballots", err)
	}
	defer rows.Close()

	out := []domain.Ballot{}
	for rows.Next() {
		var (
			b   domain.Ballot
			pos string
		)
		if err := rows.Scan(&b.ID, &b.VoterID, &b.Candidate, &pos, &b.CastAt); err != nil {
			return nil, unavailable("scan ballot", err)
		}
		b.Position = domain.Position(pos)
		b.CastAt = b.CastAt.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list ballots", err)
	}
	return out, nil
}

func (r *BallotRepository) Tally(ctx context.Context) ([]domain.TallyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT candidate, position, COUNT(*) AS total
		FROM ballots
		GROUP BY candidate, position
		ORDER BY total DESC, candidate ASC, position ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("tally ballots", err)
	}
	defer rows.Close()

	out := []domain.TallyEntry{}
	for rows.Next() {
		var (
			e   domain.TallyEntry
			pos string
		)
		if err := rows.Scan(&e.Candidate, &pos, &e.TotalVotes); err != nil {
			return nil, unavailable("scan tally", err)
		}
		e.Position = domain.Position(pos)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("tally ballots", err)
	}
	return out, nil
}

func (r *BallotRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM ballots`)
	if err != nil {
		return 0, unavailable("delete ballots", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("delete ballots", err)
	}
	return n, nil
}
