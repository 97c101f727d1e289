package web

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/paginator"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/go-chi/chi/v5"
)

// feed отдает страницу постов по фильтру с числом комментариев
func (h *Handler) feed(w http.ResponseWriter, r *http.Request, page string, filter post.Filter, data *templateData) {
	ctx := r.Context()
	filter.Now = h.now()

	count, err := h.PostStore.CountPosts(ctx, filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	p := paginator.GetPage(r.URL.Query().Get("page"), count, h.pageSize())
	posts, err := h.PostStore.ListPosts(ctx, filter, p.Limit(), p.Offset())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.withCommentCounts(ctx, posts); err != nil {
		h.serverError(w, r, err)
		return
	}

	data.Page = &p
	data.Posts = posts
	h.render(w, r, http.StatusOK, page, data)
}

// index - лента опубликованных постов
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, "blog/index.html", post.Filter{PublicOnly: true}, &templateData{})
}

// postDetail - пост, его комментарии и форма нового комментария
func (h *Handler) postDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.visiblePost(w, r)
	if !ok {
		return
	}
	h.renderDetail(w, r, http.StatusOK, p, forms.NewCommentForm(""))
}

// visiblePost загружает пост из URL; чужой непубличный пост - 404
func (h *Handler) visiblePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, ok := urlID(r, "post_id")
	if !ok {
		h.notFound(w, r)
		return nil, false
	}

	p, err := h.PostStore.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
		} else {
			h.serverError(w, r, err)
		}
		return nil, false
	}

	if !p.VisibleTo(auth.UserIDOrZero(r.Context()), h.now()) {
		h.notFound(w, r)
		return nil, false
	}
	return p, true
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, status int, p *models.Post, form *forms.CommentForm) {
	comments, err := h.CommentStore.GetComments(r.Context(), p.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, status, "blog/detail.html", &templateData{
		Post:        p,
		Comments:    comments,
		CommentForm: form,
	})
}

// categoryPosts - лента опубликованной категории
func (h *Handler) categoryPosts(w http.ResponseWriter, r *http.Request) {
	c, err := h.CategoryStore.GetCategoryBySlug(r.Context(), chi.URLParam(r, "category_slug"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	if !c.IsPublished {
		h.notFound(w, r)
		return
	}

	filter := post.Filter{CategoryID: c.ID, PublicOnly: true}
	h.feed(w, r, "blog/category.html", filter, &templateData{Category: c})
}

// profile - посты пользователя. Владелец видит все свои посты,
// остальные только публичные.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserStore.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	filter := post.Filter{
		AuthorID:   u.ID,
		PublicOnly: auth.UserIDOrZero(r.Context()) != u.ID,
	}
	h.feed(w, r, "blog/profile.html", filter, &templateData{Profile: u})
}

// editProfile - форма имени, фамилии, username и email текущего пользователя
func (h *Handler) editProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.requestUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		form := forms.NewProfileEditForm(u.FirstName, u.LastName, u.Username, u.Email)
		h.render(w, r, http.StatusOK, "blog/user.html", &templateData{ProfileForm: form, CurrentUser: u})
		return
	}

	form, err := forms.BindProfileEditForm(r)
	if err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}

	if form.Validate() {
		updated, err := h.UserStore.UpdateProfile(r.Context(), &models.User{
			Username:  form.Username,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
		})
		switch {
		case err == nil:
			redirect(w, r, profileURL(updated.Username))
			return
		case errors.Is(err, storage.ErrAlreadyExists):
			form.Errors.Add("username", "Пользователь с таким именем уже существует.")
		default:
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusOK, "blog/user.html", &templateData{ProfileForm: form, CurrentUser: u})
}
