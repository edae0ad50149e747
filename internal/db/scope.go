package db

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/jmoiron/sqlx"
)

type scopeKey struct{}

// Scope lends one pooled connection to a single request. The connection is
// taken from the pool on first use and handed back by Close.
type Scope struct {
	db *sqlx.DB

	mu     sync.Mutex
	conn   *sqlx.Conn
	closed bool
}

func NewScope(db *sqlx.DB) *Scope {
	return &Scope{db: db}
}

// Conn returns the request's connection, acquiring it if needed.
func (s *Scope) Conn(ctx context.Context) (*sqlx.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, sql.ErrConnDone
	}
	if s.conn == nil {
		conn, err := s.db.Connx(ctx)
		if err != nil {
			return nil, err
		}
		s.conn = conn
	}
	return s.conn, nil
}

// Acquired reports whether a connection has been taken from the pool.
func (s *Scope) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close releases the connection, if any. Safe to call more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// Pick returns the request-scoped connection when ctx carries a Scope and
// falls back to the pool otherwise.
func Pick(ctx context.Context, pool *sqlx.DB) (Queryer, error) {
	if s := ScopeFrom(ctx); s != nil {
		return s.Conn(ctx)
	}
	return pool, nil
}

// Middleware attaches a fresh Scope to every request and releases its
// connection when the handler returns, panics included.
func Middleware(pool *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := NewScope(pool)
			defer scope.Close()

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
