package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/JathurSrishanth/e-voting-backend/internal/api/metrics"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

// AuthOptions tunes hashing and token issuance.
type AuthOptions struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// AdminUsernames are granted the admin role at login. Compared after
	// canonicalisation.
	AdminUsernames []string
}

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.VoterRepository
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	admins     map[string]struct{}
	logger     zerolog.Logger
}

func NewAuthService(repo ports.VoterRepository, opts AuthOptions, logger zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	admins := make(map[string]struct{}, len(opts.AdminUsernames))
	for _, u := range opts.AdminUsernames {
		if c := domain.CanonicalUsername(u); c != "" {
			admins[c] = struct{}{}
		}
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  opts.JWTSecret,
		tokenTTL:   opts.TokenTTL,
		bcryptCost: opts.BcryptCost,
		admins:     admins,
		logger:     logger,
	}
}

// Register stores a new voter with a bcrypt hash of secret. The lookups are a
// fast path; the store's unique indexes decide races.
func (s *AuthService) Register(ctx context.Context, voterID, username, secret string) (*domain.Voter, error) {
	voterID = domain.CanonicalVoterID(voterID)
	username = domain.CanonicalUsername(username)
	if voterID == "" || username == "" || secret == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return nil, domain.InvalidInput(domain.ReasonMissingFields)
	}
	if len(secret) > domain.MaxSecretBytes {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return nil, domain.InvalidInput(domain.ReasonSecretTooLong)
	}

	if _, err := s.repo.FindByVoterID(ctx, voterID); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate_voter").Inc()
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrVoterNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrVoterNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: hash secret: %w", err)
	}

	voter := &domain.Voter{
		VoterID:        voterID,
		Username:       username,
		CredentialHash: string(hash),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, voter); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_voter").Inc()
			return nil, err
		case errors.Is(err, domain.ErrUsernameTaken):
			metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Str("voter_id", voterID).Str("username", username).Msg("voter registered")
	return voter, nil
}

// Login verifies the secret and issues a signed token for the voter.
func (s *AuthService) Login(ctx context.Context, username, secret string) (*ports.LoginResult, error) {
	username = domain.CanonicalUsername(username)
	if username == "" || secret == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		return nil, domain.InvalidInput(domain.ReasonMissingFields)
	}

	voter, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(voter.CredentialHash), []byte(secret)) != nil {
		metrics.LoginsTotal.WithLabelValues("bad_credential").Inc()
		s.logger.Warn().Str("username", username).Msg("login rejected: credential mismatch")
		return nil, domain.ErrInvalidCredential
	}

	role := s.roleFor(voter.Username)
	token, err := s.generateToken(voter, role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return &ports.LoginResult{VoterID: voter.VoterID, Token: token, Role: role}, nil
}

func (s *AuthService) roleFor(username string) string {
	if _, ok := s.admins[username]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleVoter
}

func (s *AuthService) generateToken(voter *domain.Voter, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"voter_id": voter.VoterID,
		"username": voter.Username,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
