package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

type VoterRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewVoterRepository(db *sql.DB) *VoterRepository {
	return &VoterRepository{db: db, timeout: defaultTimeout}
}

func (r *VoterRepository) Create(ctx context.Context, v *domain.Voter) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO voters (voter_id, username, credential_hash, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.db.ExecContext(ctx, query, v.VoterID, domain.CanonicalUsername(v.Username), v.CredentialHash, v.CreatedAt.UTC())
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			switch constraint {
			case voterPKConstraint:
				return domain.ErrAlreadyRegistered
			case usernameConstraint:
				return domain.ErrUsernameTaken
			}
		}
		return unavailable("insert voter", err)
	}
	return nil
}

func (r *VoterRepository) FindByVoterID(ctx context.Context, voterID string) (*domain.Voter, error) {
	return r.findOne(ctx, `SELECT voter_id, username, credential_hash, created_at FROM voters WHERE voter_id = $1`, voterID)
}

func (r *VoterRepository) FindByUsername(ctx context.Context, username string) (*domain.Voter, error) {
	return r.findOne(ctx, `SELECT voter_id, username, credential_hash, created_at FROM voters WHERE username = $1`, domain.CanonicalUsername(username))
}

func (r *VoterRepository) findOne(ctx context.Context, query, arg string) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var v domain.Voter
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&v.VoterID, &v.Username, &v.CredentialHash, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, unavailable("find voter", err)
	}
	return &v, nil
}
