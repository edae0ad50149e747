package models

import "time"

// Post is a blog entry joined with its author's username.
type Post struct {
	ID       int64     `db:"id" json:"id"`
	AuthorID int64     `db:"author_id" json:"author_id"`
	Username string    `db:"username" json:"username"`
	Title    string    `db:"title" json:"title"`
	Body     string    `db:"body" json:"body"`
	Created  time.Time `db:"created" json:"created"`
}
