package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, voterID, username, secret string) (*domain.Voter, error)
	loginFn    func(ctx context.Context, username, secret string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, voterID, username, secret string) (*domain.Voter, error) {
	return s.registerFn(ctx, voterID, username, secret)
}

func (s *stubAuthService) Login(ctx context.Context, username, secret string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, secret)
}

type stubVoteService struct {
	castFn    func(ctx context.Context, in ports.CastVoteInput) error
	ballotsFn func(ctx context.Context, voterID string) ([]domain.Ballot, error)
	clearFn   func(ctx context.Context) (int64, error)
}

func (s *stubVoteService) CastVote(ctx context.Context, in ports.CastVoteInput) error {
	return s.castFn(ctx, in)
}

func (s *stubVoteService) BallotsFor(ctx context.Context, voterID string) ([]domain.Ballot, error) {
	return s.ballotsFn(ctx, voterID)
}

func (s *stubVoteService) ClearAll(ctx context.Context) (int64, error) {
	return s.clearFn(ctx)
}

type stubTallyService struct {
	fn func(ctx context.Context) ([]domain.TallyEntry, error)
}

func (s *stubTallyService) ComputeResults(ctx context.Context) ([]domain.TallyEntry, error) {
	return s.fn(ctx)
}

// newJSONContext builds an echo context for a JSON request with the
// validator registered.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
