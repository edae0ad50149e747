// Package memstore is an in-memory stand-in for the PostgreSQL store,
// used by handler and router tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vaughan-dsouza/quill/internal/models"
	"github.com/vaughan-dsouza/quill/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	posts  map[int64]models.Post
	nextU  int64
	nextP  int64
	Users  *Users
	Posts  *Posts
	PingFn func(context.Context) error
}

func New() *Store {
	s := &Store{
		users: make(map[int64]models.User),
		posts: make(map[int64]models.Post),
	}
	s.Users = &Users{s: s}
	s.Posts = &Posts{s: s}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	if s.PingFn != nil {
		return s.PingFn(ctx)
	}
	return nil
}

// SetAuthor reassigns a post, bypassing ownership rules.
func (s *Store) SetAuthor(postID, authorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[postID]
	p.AuthorID = authorID
	s.posts[postID] = p
}

// InsertPost adds a post with an explicit creation time.
func (s *Store) InsertPost(authorID int64, title, body string, created time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextP++
	s.posts[s.nextP] = models.Post{ID: s.nextP, AuthorID: authorID, Title: title, Body: body, Created: created}
	return s.nextP
}

// DeleteUser removes a user row; used to simulate stale sessions.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) PostCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// withAuthor fills in the username join. Caller holds the lock.
func (s *Store) withAuthor(p models.Post) models.Post {
	p.Username = s.users[p.AuthorID].Username
	return p
}

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, username, passwordHash string) (int64, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if existing.Username == username {
			return 0, store.ErrDuplicateUsername
		}
	}
	u.s.nextU++
	u.s.users[u.s.nextU] = models.User{ID: u.s.nextU, Username: username, Password: passwordHash}
	return u.s.nextU, nil
}

func (u *Users) GetByUsername(_ context.Context, username string) (models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, existing := range u.s.users {
		if existing.Username == username {
			return existing, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id int64) (models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	existing, ok := u.s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return existing, nil
}

type Posts struct{ s *Store }

func (p *Posts) List(_ context.Context) ([]models.Post, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	out := make([]models.Post, 0, len(p.s.posts))
	for _, post := range p.s.posts {
		out = append(out, p.s.withAuthor(post))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (p *Posts) Get(_ context.Context, id int64) (models.Post, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	post, ok := p.s.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	return p.s.withAuthor(post), nil
}

func (p *Posts) Create(_ context.Context, authorID int64, title, body string) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.nextP++
	p.s.posts[p.s.nextP] = models.Post{
		ID:       p.s.nextP,
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Created:  time.Now().UTC(),
	}
	return p.s.nextP, nil
}

func (p *Posts) Update(_ context.Context, id int64, title, body string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	post, ok := p.s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	post.Title = title
	post.Body = body
	p.s.posts[id] = post
	return nil
}

func (p *Posts) Delete(_ context.Context, id int64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(p.s.posts, id)
	return nil
}
