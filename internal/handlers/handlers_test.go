package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/quill/internal/logging"
	"github.com/vaughan-dsouza/quill/internal/models"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/store"
	"github.com/vaughan-dsouza/quill/internal/utils"
	"github.com/vaughan-dsouza/quill/internal/views"
)

var errDown = errors.New("connection refused")

// brokenStore fails every call with errDown.
type brokenStore struct{}

func (brokenStore) Create(context.Context, string, string) (int64, error) { return 0, errDown }
func (brokenStore) GetByUsername(context.Context, string) (models.User, error) {
	return models.User{}, errDown
}
func (brokenStore) GetByID(context.Context, int64) (models.User, error) { return models.User{}, errDown }
func (brokenStore) List(context.Context) ([]models.Post, error)        { return nil, errDown }
func (brokenStore) Get(context.Context, int64) (models.Post, error)     { return models.Post{}, errDown }
func (brokenStore) Update(context.Context, int64, string, string) error { return errDown }
func (brokenStore) Delete(context.Context, int64) error                 { return errDown }

type brokenPosts struct{ brokenStore }

func (brokenPosts) Create(context.Context, int64, string, string) (int64, error) { return 0, errDown }

// dupUsers reports no existing user, then loses the insert race.
type dupUsers struct{ brokenStore }

func (dupUsers) GetByUsername(context.Context, string) (models.User, error) {
	return models.User{}, store.ErrNotFound
}
func (dupUsers) Create(context.Context, string, string) (int64, error) {
	return 0, store.ErrDuplicateUsername
}

func newTestHandler(t *testing.T, users UserStore, posts PostStore) (*Handler, *session.Manager) {
	t.Helper()
	sessions, err := session.NewManager("k", time.Hour, false)
	require.NoError(t, err)
	renderer, err := views.New()
	require.NoError(t, err)
	return NewHandler(Deps{
		Users:      users,
		Posts:      posts,
		Pinger:     nil,
		Sessions:   sessions,
		Views:      renderer,
		Log:        logging.Discard(),
		BcryptCost: bcrypt.MinCost,
	}), sessions
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(sessions *session.Manager, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	sessions.Middleware(h).ServeHTTP(rec, req)
	return rec
}

func TestIndexStorageFaultIs500(t *testing.T) {
	h, sessions := newTestHandler(t, brokenStore{}, brokenPosts{})
	rec := serve(sessions, h.Posts.Index, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegisterStorageFaultIs500(t *testing.T) {
	h, sessions := newTestHandler(t, brokenStore{}, brokenPosts{})
	rec := serve(sessions, h.Auth.Register, formRequest("/auth/register", url.Values{
		"username": {"a"}, "password": {"a"},
	}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegisterInsertRaceReportsDuplicate(t *testing.T) {
	h, sessions := newTestHandler(t, dupUsers{}, brokenPosts{})
	rec := serve(sessions, h.Auth.Register, formRequest("/auth/register", url.Values{
		"username": {"a"}, "password": {"a"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User a is already registered.")
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	h, sessions := newTestHandler(t, dupUsers{}, brokenPosts{})
	rec := serve(sessions, h.Auth.Register, formRequest("/auth/register", url.Values{
		"username": {"a"}, "password": {strings.Repeat("p", 80)},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is too long.")
}

func TestCreateStorageFaultIs500(t *testing.T) {
	h, sessions := newTestHandler(t, brokenStore{}, brokenPosts{})
	req := formRequest("/create", url.Values{"title": {"t"}})
	req = req.WithContext(utils.WithUser(req.Context(), &models.User{ID: 1, Username: "test"}))

	rec := serve(sessions, h.Posts.Create, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetPostRejectsMalformedID(t *testing.T) {
	h, sessions := newTestHandler(t, brokenStore{}, brokenPosts{})

	req := httptest.NewRequest(http.MethodPost, "/abc/delete", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := serve(sessions, h.Posts.Delete, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post id abc doesn't exist.")
}

func TestLogoutClearsCookie(t *testing.T) {
	h, sessions := newTestHandler(t, brokenStore{}, brokenPosts{})

	s := &session.Session{}
	s.SetUserID(1)
	saved := httptest.NewRecorder()
	require.NoError(t, sessions.Save(saved, s))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	for _, c := range saved.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := serve(sessions, h.Auth.Logout, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
