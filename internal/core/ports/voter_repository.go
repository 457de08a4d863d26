package ports

import (
	"context"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// VoterRepository is the Credential Store.
type VoterRepository interface {
	// Create stores a new voter. It returns domain.ErrAlreadyRegistered when the
	// voter id is taken and domain.ErrUsernameTaken when the username is.
	Create(ctx context.Context, voter *domain.Voter) error
	// FindByVoterID returns domain.ErrVoterNotFound when no voter matches.
	FindByVoterID(ctx context.Context, voterID string) (*domain.Voter, error)
	// FindByUsername expects a canonical username and returns
	// domain.ErrVoterNotFound when no voter matches.
	FindByUsername(ctx context.Context, username string) (*domain.Voter, error)
}
