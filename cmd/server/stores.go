package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/ports"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/db/memory"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/db/mongo"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/db/postgres"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/db/redis"
	"github.com/JathurSrishanth/e-voting-backend/internal/infrastructure/http/handlers"
	"github.com/JathurSrishanth/e-voting-backend/internal/pkg/config"
)

// stores holds the opened backends and how to release them.
type stores struct {
	voters  ports.VoterRepository
	ballots ports.BallotRepository
	marker  ports.BallotMarker
	checks  map[string]handlers.CheckFunc
	closers []func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handlers.CheckFunc{}}

	var err error
	switch cfg.StoreDriver {
	case config.DriverMongo:
		err = st.openMongo(ctx, cfg)
	case config.DriverPostgres:
		err = st.openPostgres(ctx, cfg)
	default:
		mem := memory.NewStore()
		st.voters, st.ballots = mem.Voters(), mem.Ballots()
		st.checks["memory"] = mem.Ping
		log.Warn().Msg("using in-memory store; data is lost on restart")
	}
	if err != nil {
		st.close(log)
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			st.close(log)
			return nil, err
		}
		marker := redis.NewBallotMarker(client, cfg.Redis.MarkerTTL)
		st.marker = marker
		st.checks["redis"] = marker.Ping
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("ballot marker cache enabled")
	}

	return st, nil
}

func (st *stores) openMongo(ctx context.Context, cfg *config.Config) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	st.closers = append(st.closers, client.Disconnect)

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	st.voters = mongo.NewVoterRepository(db)
	st.ballots = mongo.NewBallotRepository(db)
	st.checks["mongodb"] = func(ctx context.Context) error { return mongo.Ping(ctx, db) }
	return nil
}

func (st *stores) openPostgres(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	st.closers = append(st.closers, func(context.Context) error { return db.Close() })

	if err := postgres.CreateSchema(ctx, db); err != nil {
		return err
	}

	st.voters = postgres.NewVoterRepository(db)
	st.ballots = postgres.NewBallotRepository(db)
	st.checks["postgres"] = pingSQL(db)
	return nil
}

func pingSQL(db *sql.DB) handlers.CheckFunc {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

// close releases backends in reverse order of opening.
func (st *stores) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(st.closers) - 1; i >= 0; i-- {
		if err := st.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}
	st.closers = nil
}
