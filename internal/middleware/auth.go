package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/quill/internal/models"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/store"
	"github.com/vaughan-dsouza/quill/internal/utils"
)

// LoginPath is where anonymous visitors are sent by RequireLogin.
const LoginPath = "/auth/login"

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// LoadUser resolves the session's user id to a User once per request.
// A session naming a user that no longer exists is treated as anonymous.
func LoadUser(users UserLookup, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.FromContext(r.Context()).UserID()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByID(r.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.WithError(err).WithField("user_id", id).Error("load session user")
				utils.Error(w, http.StatusInternalServerError, "")
				return
			}

			// push user into context
			next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), &u)))
		})
	}
}

// RequireLogin redirects anonymous requests to the login page; the wrapped
// handler never runs for them.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.CurrentUser(r.Context()); !ok {
			utils.Redirect(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}
