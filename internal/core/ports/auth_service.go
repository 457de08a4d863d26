package ports

import (
	"context"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	VoterID string
	Token   string
	Role    string
}

type AuthService interface {
	Register(ctx context.Context, voterID, username, secret string) (*domain.Voter, error)
	Login(ctx context.Context, username, secret string) (*LoginResult, error)
}
