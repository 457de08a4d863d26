package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JathurSrishanth/e-voting-backend/internal/api/middleware"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. An
// empty role means the middleware did not run on this route.
func ctxClaims(c echo.Context) (voterID, role string, err error) {
	role, _ = c.Get(middleware.ContextKeyRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	voterID, _ = c.Get(middleware.ContextKeyVoterID).(string)
	return voterID, role, nil
}
