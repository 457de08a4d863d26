package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent; it runs on every start.
const schema = `
CREATE TABLE IF NOT EXISTS voters (
	voter_id        TEXT PRIMARY KEY,
	username        TEXT NOT NULL,
	credential_hash TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT voters_username_key UNIQUE (username)
);

CREATE TABLE IF NOT EXISTS ballots (
	id        TEXT PRIMARY KEY,
	voter_id  TEXT NOT NULL,
	candidate TEXT NOT NULL,
	position  TEXT NOT NULL CHECK (position IN ('MLA', 'MP')),
	cast_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT ballots_voter_position_key UNIQUE (voter_id, position)
);

CREATE INDEX IF NOT EXISTS ballots_voter_cast_at_idx ON ballots (voter_id, cast_at);
`

const (
	voterPKConstraint       = "voters_pkey"
	usernameConstraint      = "voters_username_key"
	voterPositionConstraint = "ballots_voter_position_key"
)

// CreateSchema creates the voters and ballots tables when missing.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
