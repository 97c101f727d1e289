package web

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

// addComment добавляет комментарий к видимому посту. Невалидная форма
// показывается на странице поста.
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	p, ok := h.visiblePost(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		h.renderDetail(w, r, http.StatusOK, p, forms.NewCommentForm(""))
		return
	}

	form, err := forms.BindCommentForm(r)
	if err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}
	if !form.Validate() {
		h.renderDetail(w, r, http.StatusOK, p, form)
		return
	}

	_, err = h.CommentStore.CreateComment(r.Context(), p.ID, form.Text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	redirect(w, r, postURL(p.ID))
}

// authorComment загружает комментарий поста из URL.
// Комментарий другого поста или отсутствующий - 404, чужой - редирект на пост.
func (h *Handler) authorComment(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	postID, ok := urlID(r, "post_id")
	if !ok {
		h.notFound(w, r)
		return nil, false
	}
	commentID, ok := urlID(r, "comment_id")
	if !ok {
		h.notFound(w, r)
		return nil, false
	}

	c, err := h.CommentStore.GetComment(r.Context(), postID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
		} else {
			h.serverError(w, r, err)
		}
		return nil, false
	}

	if c.AuthorID != auth.UserIDOrZero(r.Context()) {
		redirect(w, r, postURL(postID))
		return nil, false
	}
	return c, true
}

func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorComment(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "blog/comment.html", &templateData{
			Comment:     c,
			CommentForm: forms.NewCommentForm(c.Text),
		})
		return
	}

	form, err := forms.BindCommentForm(r)
	if err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}
	if !form.Validate() {
		h.render(w, r, http.StatusOK, "blog/comment.html", &templateData{Comment: c, CommentForm: form})
		return
	}

	_, err = h.CommentStore.UpdateComment(r.Context(), c.PostID, c.ID, form.Text)
	if err != nil && !errors.Is(err, storage.ErrForbidden) {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	redirect(w, r, postURL(c.PostID))
}

// deleteComment: GET - подтверждение без формы, POST - удаление
func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.authorComment(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "blog/comment.html", &templateData{Comment: c, Deleting: true})
		return
	}

	err := h.CommentStore.DeleteComment(r.Context(), c.PostID, c.ID)
	if err != nil && !errors.Is(err, storage.ErrForbidden) {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	redirect(w, r, postURL(c.PostID))
}
