package db

import (
	"context"
	"fmt"
)

// Schema is the fixed table definition. Running it drops existing data.
var Schema = []string{
	`DROP TABLE IF EXISTS post`,
	`DROP TABLE IF EXISTS "user"`,
	`CREATE TABLE "user" (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE post (
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL REFERENCES "user" (id),
		created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX post_created_idx ON post (created DESC)`,
}

// InitSchema (re)creates the tables. It is destructive and is only
// invoked from the init-db command.
func InitSchema(ctx context.Context, q Queryer) error {
	for i, stmt := range Schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("db: schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
