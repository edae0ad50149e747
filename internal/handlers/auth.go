package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/quill/internal/metrics"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/store"
	"github.com/vaughan-dsouza/quill/internal/views"
)

type AuthHandler struct {
	*base
	users UserStore
	cost  int
}

func NewAuthHandler(b *base, users UserStore, cost int) *AuthHandler {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthHandler{base: b, users: users, cost: cost}
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, views.Register, views.Page{})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var msg string
	switch {
	case username == "":
		msg = "Username is required."
	case password == "":
		msg = "Password is required."
	}

	if msg == "" {
		_, err := h.users.GetByUsername(r.Context(), username)
		switch {
		case err == nil:
			msg = alreadyRegistered(username)
		case !errors.Is(err, store.ErrNotFound):
			h.fail(w, r, err, "lookup username")
			return
		}
	}

	if msg == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			msg = "Password is too long."
		} else if err != nil {
			h.fail(w, r, err, "hash password")
			return
		}

		if msg == "" {
			_, err = h.users.Create(r.Context(), username, string(hash))
			switch {
			case errors.Is(err, store.ErrDuplicateUsername):
				msg = alreadyRegistered(username)
			case err != nil:
				h.fail(w, r, err, "create user")
				return
			default:
				metrics.RecordAuth("register", true)
				h.log.WithField("username", username).Info("user registered")
				h.redirect(w, r, "/auth/login")
				return
			}
		}
	}

	metrics.RecordAuth("register", false)
	session.FromContext(r.Context()).AddFlash(msg)
	h.render(w, r, views.Register, views.Page{Form: views.Form{Username: username}})
}

func alreadyRegistered(username string) string {
	return fmt.Sprintf("User %s is already registered.", username)
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, views.Login, views.Page{})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var msg string
	u, err := h.users.GetByUsername(r.Context(), username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg = "Incorrect username."
	case err != nil:
		h.fail(w, r, err, "lookup username")
		return
	case bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil:
		msg = "Incorrect password."
	}

	sess := session.FromContext(r.Context())
	if msg != "" {
		metrics.RecordAuth("login", false)
		sess.AddFlash(msg)
		h.render(w, r, views.Login, views.Page{Form: views.Form{Username: username}})
		return
	}

	sess.Clear()
	sess.SetUserID(u.ID)
	metrics.RecordAuth("login", true)
	h.redirect(w, r, "/")
}

// -------------- LOGOUT -----------------------

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Clear()
	metrics.RecordAuth("logout", true)
	h.redirect(w, r, "/")
}
