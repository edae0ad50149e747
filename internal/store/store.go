// Package store persists users and posts in PostgreSQL.
package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/quill/internal/db"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("store: username already registered")
)

// Store runs queries on the request's scoped connection, or on the pool
// when there is no request.
type Store struct {
	DB    *sqlx.DB
	Users *UserStore
	Posts *PostStore
}

func New(pool *sqlx.DB) *Store {
	return &Store{
		DB:    pool,
		Users: &UserStore{pool: pool},
		Posts: &PostStore{pool: pool},
	}
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func queryer(ctx context.Context, pool *sqlx.DB) (db.Queryer, error) {
	return db.Pick(ctx, pool)
}
