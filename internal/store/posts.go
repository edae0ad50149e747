package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/quill/internal/models"
)

const selectPost = `
	SELECT p.id, p.title, p.body, p.created, p.author_id, u.username
	FROM post p JOIN "user" u ON p.author_id = u.id
`

type PostStore struct {
	pool *sqlx.DB
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := q.SelectContext(ctx, &posts, selectPost+` ORDER BY p.created DESC, p.id DESC`); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostStore) Get(ctx context.Context, id int64) (models.Post, error) {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return models.Post{}, err
	}

	var post models.Post
	err = q.GetContext(ctx, &post, selectPost+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("select post %d: %w", id, err)
	}
	return post, nil
}

// Create inserts a post authored by authorID and returns its id.
func (s *PostStore) Create(ctx context.Context, authorID int64, title, body string) (int64, error) {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.GetContext(ctx, &id, `
		INSERT INTO post (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, title, body, authorID)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// Update rewrites title and body; author and creation time never change.
func (s *PostStore) Update(ctx context.Context, id int64, title, body string) error {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, `UPDATE post SET title = $1, body = $2 WHERE id = $3`, title, body, id)
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return expectOne(res)
}

func (s *PostStore) Delete(ctx context.Context, id int64) error {
	q, err := queryer(ctx, s.pool)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, `DELETE FROM post WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
