package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/api"
	"github.com/JathurSrishanth/e-voting-backend/internal/core/service"
	"github.com/JathurSrishanth/e-voting-backend/internal/pkg/config"
	"github.com/JathurSrishanth/e-voting-backend/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// @title                       E-Voting Backend API
// @version                     1.0
// @description                 Voter registration, one ballot per voter per position, and results tally.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	dotenvErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "e-voting-backend",
	})
	if dotenvErr != nil {
		log.Debug().Msg("no .env file loaded")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		cfg.Auth.JWTSecret = secret
		log.Warn().Msg("JWT_SECRET not set; generated an ephemeral secret, tokens will not survive a restart")
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(log)

	authSvc := service.NewAuthService(st.voters, service.AuthOptions{
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		BcryptCost:     cfg.Auth.BcryptCost,
		AdminUsernames: cfg.Auth.AdminUsernames,
	}, logger.Component("auth"))
	voteSvc := service.NewVoteService(st.ballots, st.marker, logger.Component("vote"))
	tallySvc := service.NewTallyService(st.ballots, logger.Component("tally"))

	router := api.NewRouter(api.Dependencies{
		AuthService:   authSvc,
		VoteService:   voteSvc,
		TallyService:  tallySvc,
		Checks:        st.checks,
		JWTSecret:     cfg.Auth.JWTSecret,
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        logger.Component("http"),
	})

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("gracefully shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
