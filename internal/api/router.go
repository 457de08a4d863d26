package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/JathurSrishanth/e-voting-backend/docs"
	"github.com/JathurSrishanth/e-voting-backend/internal/api/handler"
	"github.com/JathurSrishanth/e-voting-backend/internal/api/middleware"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/http/handlers"
)

// Dependencies are the services and settings the router is built from.
type Dependencies struct {
	AuthService  ports.AuthService
	VoteService  ports.VoteService
	TallyService ports.TallyService

	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handlers.CheckFunc

	JWTSecret     string
	AllowedOrigin string
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	origin := deps.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	// HTTP metrics live in a per-router registry; /metrics also gathers the
	// default registry where the domain counters are.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:          "evoting",
		Subsystem:          "http",
		Registerer:         reg,
		StatusCodeResolver: responseStatus,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	metaHandler := handler.NewMetaHandler()
	authHandler := handler.NewAuthHandler(deps.AuthService)
	voteHandler := handler.NewVoteHandler(deps.VoteService)
	resultsHandler := handler.NewResultsHandler(deps.TallyService, deps.VoteService, deps.Logger)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Public routes ---
	e.GET("/", metaHandler.Root)
	e.GET("/test", metaHandler.Test)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/vote", voteHandler.CastVote)
	e.GET("/check-vote/:voterID", voteHandler.CheckVote)
	e.GET("/check-vote", voteHandler.CheckVote)
	e.GET("/check-vote/", voteHandler.CheckVote)
	e.GET("/results", resultsHandler.Results)

	// --- Admin routes ---
	e.DELETE("/clear-votes", resultsHandler.ClearVotes, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks, deps.Logger)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// responseStatus reports the status the client received, or will receive once
// the error handler maps err.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	code, _ := resolveError(err, zerolog.Nop(), c)
	return code
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
