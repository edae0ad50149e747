package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/quill/internal/metrics"
	"github.com/vaughan-dsouza/quill/internal/models"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/store"
	"github.com/vaughan-dsouza/quill/internal/utils"
	"github.com/vaughan-dsouza/quill/internal/views"
)

type PostHandler struct {
	*base
	posts PostStore
}

func NewPostHandler(b *base, posts PostStore) *PostHandler {
	return &PostHandler{base: b, posts: posts}
}

// ---------------------- LIST ----------------------

func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "list posts")
		return
	}
	h.render(w, r, views.Index, views.Page{Posts: posts})
}

// ---------------------- CREATE ----------------------

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, views.Create, views.Page{})
		return
	}

	form := views.Form{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}
	if form.Title == "" {
		session.FromContext(r.Context()).AddFlash("Title is required.")
		h.render(w, r, views.Create, views.Page{Form: form})
		return
	}

	u, _ := utils.CurrentUser(r.Context())
	id, err := h.posts.Create(r.Context(), u.ID, form.Title, form.Body)
	if err != nil {
		h.fail(w, r, err, "create post")
		return
	}

	metrics.RecordPostMutation("create")
	h.log.WithField("post_id", id).WithField("user_id", u.ID).Info("post created")
	h.redirect(w, r, "/")
}

// ---------------------- UPDATE ----------------------

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := h.getPost(w, r, true)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, views.Update, views.Page{
			Post: post,
			Form: views.Form{Title: post.Title, Body: post.Body},
		})
		return
	}

	form := views.Form{Title: r.PostFormValue("title"), Body: r.PostFormValue("body")}
	if form.Title == "" {
		session.FromContext(r.Context()).AddFlash("Title is required.")
		h.render(w, r, views.Update, views.Page{Post: post, Form: form})
		return
	}

	err := h.posts.Update(r.Context(), post.ID, form.Title, form.Body)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, missingPost(post.ID))
		return
	}
	if err != nil {
		h.fail(w, r, err, "update post")
		return
	}

	metrics.RecordPostMutation("update")
	h.redirect(w, r, "/")
}

// ---------------------- DELETE ----------------------

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.getPost(w, r, true)
	if !ok {
		return
	}

	err := h.posts.Delete(r.Context(), post.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, err, "delete post")
		return
	}

	metrics.RecordPostMutation("delete")
	h.log.WithField("post_id", post.ID).Info("post deleted")
	h.redirect(w, r, "/")
}

// getPost loads the post named by the {id} route parameter. It answers 404
// when the post does not exist and, if checkAuthor is set, 403 when the
// current user did not write it. ok is false once a response was written.
func (h *PostHandler) getPost(w http.ResponseWriter, r *http.Request, checkAuthor bool) (models.Post, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := utils.ParseID(idStr)
	if err != nil {
		utils.Error(w, http.StatusNotFound, fmt.Sprintf("Post id %s doesn't exist.", idStr))
		return models.Post{}, false
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, missingPost(id))
		return models.Post{}, false
	}
	if err != nil {
		h.fail(w, r, err, "get post")
		return models.Post{}, false
	}

	if checkAuthor {
		u, ok := utils.CurrentUser(r.Context())
		if !ok || u.ID != post.AuthorID {
			utils.Error(w, http.StatusForbidden, "")
			return models.Post{}, false
		}
	}
	return post, true
}

func missingPost(id int64) string {
	return fmt.Sprintf("Post id %d doesn't exist.", id)
}
