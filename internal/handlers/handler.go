package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/quill/internal/models"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/utils"
	"github.com/vaughan-dsouza/quill/internal/views"
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type PostStore interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (models.Post, error)
	Create(ctx context.Context, authorID int64, title, body string) (int64, error)
	Update(ctx context.Context, id int64, title, body string) error
	Delete(ctx context.Context, id int64) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Users      UserStore
	Posts      PostStore
	Pinger     Pinger
	Sessions   *session.Manager
	Views      *views.Renderer
	Log        logrus.FieldLogger
	BcryptCost int
}

type Handler struct {
	Auth   *AuthHandler
	Posts  *PostHandler
	pinger Pinger
}

func NewHandler(d Deps) *Handler {
	b := &base{sessions: d.Sessions, views: d.Views, log: d.Log}
	return &Handler{
		Auth:   NewAuthHandler(b, d.Users, d.BcryptCost),
		Posts:  NewPostHandler(b, d.Posts),
		pinger: d.Pinger,
	}
}

func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, world!"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		utils.JSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// base holds what every page handler needs to answer a request.
type base struct {
	sessions *session.Manager
	views    *views.Renderer
	log      logrus.FieldLogger
}

// commit writes the session cookie when the request changed it.
func (b *base) commit(w http.ResponseWriter, r *http.Request) error {
	sess := session.FromContext(r.Context())
	if !sess.Modified() {
		return nil
	}
	return b.sessions.Save(w, sess)
}

func (b *base) render(w http.ResponseWriter, r *http.Request, name string, page views.Page) {
	page.User, _ = utils.CurrentUser(r.Context())
	page.Flashes = session.FromContext(r.Context()).PopFlashes()

	if err := b.commit(w, r); err != nil {
		b.fail(w, r, err, "save session")
		return
	}
	if err := b.views.Render(w, http.StatusOK, name, page); err != nil {
		b.fail(w, r, err, "render "+name)
	}
}

func (b *base) redirect(w http.ResponseWriter, r *http.Request, location string) {
	if err := b.commit(w, r); err != nil {
		b.fail(w, r, err, "save session")
		return
	}
	utils.Redirect(w, r, location)
}

// fail logs an unexpected fault and answers 500.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	b.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error(op)
	utils.Error(w, http.StatusInternalServerError, "")
}
