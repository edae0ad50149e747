// Package server assembles the HTTP routes and middleware chain.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/quill/internal/db"
	"github.com/vaughan-dsouza/quill/internal/handlers"
	"github.com/vaughan-dsouza/quill/internal/metrics"
	"github.com/vaughan-dsouza/quill/internal/middleware"
	"github.com/vaughan-dsouza/quill/internal/session"
)

type Options struct {
	// Pool, when set, gives every request its own lazily acquired
	// connection, released when the request ends.
	Pool     *sqlx.DB
	Handler  *handlers.Handler
	Users    middleware.UserLookup
	Sessions *session.Manager
	Log      logrus.FieldLogger
}

func NewRouter(o Options) http.Handler {
	h := o.Handler
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(o.Log))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	// Operational endpoints skip sessions and storage scoping.
	r.Get("/hello", h.Hello)
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if o.Pool != nil {
			r.Use(db.Middleware(o.Pool))
		}
		r.Use(o.Sessions.Middleware)
		r.Use(middleware.LoadUser(o.Users, o.Log))

		// Public
		r.Get("/", h.Posts.Index)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/register", h.Auth.Register)
			r.Post("/register", h.Auth.Register)
			r.Get("/login", h.Auth.Login)
			r.Post("/login", h.Auth.Login)
			r.Get("/logout", h.Auth.Logout)
		})

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)

			r.Get("/create", h.Posts.Create)
			r.Post("/create", h.Posts.Create)
			r.Get("/{id}/update", h.Posts.Update)
			r.Post("/{id}/update", h.Posts.Update)
			r.Post("/{id}/delete", h.Posts.Delete)
		})
	})

	return r
}
