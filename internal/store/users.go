package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/quill/internal/models"
)

const uniqueViolation = "23505"

type UserStore struct {
	pool *sqlx.DB
}

// Create inserts a user and returns its id.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.GetContext(ctx, &id, `
		INSERT INTO "user" (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, passwordHash)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return 0, ErrDuplicateUsername
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return s.get(ctx, `SELECT id, username, password_hash FROM "user" WHERE username = $1`, username)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.get(ctx, `SELECT id, username, password_hash FROM "user" WHERE id = $1`, id)
}

func (s *UserStore) get(ctx context.Context, query string, arg interface{}) (models.User, error) {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	err = q.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
