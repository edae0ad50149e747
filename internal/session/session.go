// Package session keeps per-browser state in an HMAC-signed cookie.
//
// The cookie carries a compact HS256 token whose claims hold the logged-in
// user id and any pending flash messages. Nothing is stored server-side,
// so a session is only as durable as the cookie itself.
package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "session"

type ctxKey struct{}

// Session is the state carried between requests of one browser.
type Session struct {
	userID   int64
	flashes  []string
	modified bool
}

// UserID returns the logged-in user id, if one is stored.
func (s *Session) UserID() (int64, bool) {
	return s.userID, s.userID != 0
}

func (s *Session) SetUserID(id int64) {
	s.userID = id
	s.modified = true
}

// Clear drops all session state.
func (s *Session) Clear() {
	s.userID = 0
	s.flashes = nil
	s.modified = true
}

// AddFlash queues a one-shot message for the next rendered page.
func (s *Session) AddFlash(msg string) {
	s.flashes = append(s.flashes, msg)
	s.modified = true
}

// PopFlashes returns queued messages and forgets them.
func (s *Session) PopFlashes() []string {
	if len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.modified = true
	return out
}

func (s *Session) Modified() bool { return s.modified }

func (s *Session) empty() bool {
	return s.userID == 0 && len(s.flashes) == 0
}

type claims struct {
	Flashes []string `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session: secret not configured")
	}
	if ttl <= 0 {
		return nil, errors.New("session: ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}, nil
}

// Load reads the session from the request cookie. Missing, expired or
// tampered cookies yield an empty session.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	var cl claims
	_, err = parser.ParseWithClaims(c.Value, &cl, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return &Session{}
	}

	s := &Session{flashes: cl.Flashes}
	if cl.Subject != "" {
		id, err := strconv.ParseInt(cl.Subject, 10, 64)
		if err != nil || id <= 0 {
			return &Session{}
		}
		s.userID = id
	}
	return s
}

// Save writes the session cookie. An empty session expires the cookie.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if s.empty() {
		http.SetCookie(w, m.cookie("", -1))
		s.modified = false
		return nil
	}

	now := m.now()
	cl := claims{
		Flashes: s.flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if s.userID != 0 {
		cl.Subject = strconv.FormatInt(s.userID, 10)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(signed, int(m.ttl/time.Second)))
	s.modified = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware loads the session once per request and exposes it via FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKey{}, m.Load(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request's session. Outside the middleware it
// returns a detached empty session.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}
	return &Session{}
}
