package web

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

// createPost - форма нового поста; после сохранения переходим в профиль
func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		form := forms.NewPostForm(nil)
		if err := h.loadChoices(ctx, form); err != nil {
			h.serverError(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, "blog/create.html", &templateData{PostForm: form})
		return
	}

	form, ok := h.bindPostForm(w, r)
	if !ok {
		return
	}
	defer form.Close()

	if err := h.loadChoices(ctx, form); err != nil {
		h.serverError(w, r, err)
		return
	}

	image, ok := h.validatePostForm(w, r, form, nil)
	if !ok {
		return
	}

	p := &models.Post{IsPublished: true, Image: image}
	form.Apply(p)
	if _, err := h.PostStore.CreatePost(ctx, p); err != nil {
		h.removeImage(image)
		h.serverError(w, r, err)
		return
	}

	u, err := h.requestUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	redirect(w, r, profileURL(u.Username))
}

// bindPostForm читает форму поста; тело уже ограничено maxRequestBody
// в Routes. При ошибке ответ уже отправлен.
func (h *Handler) bindPostForm(w http.ResponseWriter, r *http.Request) (*forms.PostForm, bool) {
	form, err := forms.BindPostForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.clientError(w, http.StatusRequestEntityTooLarge)
		} else {
			h.clientError(w, http.StatusBadRequest)
		}
		return nil, false
	}
	return form, true
}

// validatePostForm проверяет форму и сохраняет загруженную картинку.
// При ошибках форма уже отрисована заново, возвращается false.
func (h *Handler) validatePostForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, p *models.Post) (string, bool) {
	if !form.Validate() {
		h.render(w, r, http.StatusOK, "blog/create.html", &templateData{PostForm: form, Post: p})
		return "", false
	}
	if form.ImageFile == nil {
		return "", true
	}

	image, err := h.Media.SaveImage(form.ImageFile)
	switch {
	case err == nil:
		return image, true
	case errors.Is(err, media.ErrNotImage):
		form.Errors.Add("image", "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением.")
	case errors.Is(err, media.ErrTooLarge):
		form.Errors.Add("image", "Размер файла не должен превышать 10 МБ.")
	default:
		h.serverError(w, r, err)
		return "", false
	}

	h.render(w, r, http.StatusOK, "blog/create.html", &templateData{PostForm: form, Post: p})
	return "", false
}

func (h *Handler) removeImage(name string) {
	if name == "" {
		return
	}
	if err := h.Media.Delete(name); err != nil {
		logger.Warn.Printf("could not remove image %s: %v", name, err)
	}
}

// authorPost загружает пост из URL для редактирования или удаления.
// Отсутствующий пост - 404, чужой - редирект на страницу поста.
func (h *Handler) authorPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
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

	if p.AuthorID != auth.UserIDOrZero(r.Context()) {
		redirect(w, r, postURL(p.ID))
		return nil, false
	}
	return p, true
}

// editPost - та же форма, что и при создании; после сохранения
// переходим на страницу поста
func (h *Handler) editPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.authorPost(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		form := forms.NewPostForm(p)
		if err := h.loadChoices(ctx, form); err != nil {
			h.serverError(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, "blog/create.html", &templateData{PostForm: form, Post: p})
		return
	}

	form, ok := h.bindPostForm(w, r)
	if !ok {
		return
	}
	defer form.Close()
	form.CurrentImage = p.Image

	if err := h.loadChoices(ctx, form); err != nil {
		h.serverError(w, r, err)
		return
	}

	image, ok := h.validatePostForm(w, r, form, p)
	if !ok {
		return
	}

	oldImage := ""
	switch {
	case image != "":
		oldImage, p.Image = p.Image, image
	case form.ClearImage:
		oldImage, p.Image = p.Image, ""
	}

	form.Apply(p)
	_, err := h.PostStore.UpdatePost(ctx, p)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrForbidden):
		h.removeImage(image)
		redirect(w, r, postURL(p.ID))
		return
	case errors.Is(err, storage.ErrNotFound):
		h.removeImage(image)
		h.notFound(w, r)
		return
	default:
		h.removeImage(image)
		h.serverError(w, r, err)
		return
	}

	h.removeImage(oldImage)
	redirect(w, r, postURL(p.ID))
}

// deletePost: GET показывает пост в форме для подтверждения,
// POST удаляет его вместе с комментариями
func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := h.authorPost(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		form := forms.NewPostForm(p)
		if err := h.loadChoices(ctx, form); err != nil {
			h.serverError(w, r, err)
			return
		}
		h.render(w, r, http.StatusOK, "blog/create.html", &templateData{PostForm: form, Post: p, Deleting: true})
		return
	}

	err := h.PostStore.DeletePostByID(ctx, p.ID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrForbidden):
		redirect(w, r, postURL(p.ID))
		return
	case errors.Is(err, storage.ErrNotFound):
		h.notFound(w, r)
		return
	default:
		h.serverError(w, r, err)
		return
	}
	h.removeImage(p.Image)

	u, err := h.requestUser(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	redirect(w, r, profileURL(u.Username))
}
