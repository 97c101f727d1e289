package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/models"
	"github.com/go-chi/chi/v5"
)

// urlID достает числовой параметр маршрута; false - параметр не число
func urlID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// safeNext пропускает только локальные пути вида /..., но не //host.
// Браузеры выбрасывают из URL табуляции и переводы строк, поэтому управляющие
// символы и обратный слеш отсекаются в любом месте.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.ContainsRune(next, '\\') || strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

// requestUser загружает пользователя, вошедшего в систему
func (h *Handler) requestUser(r *http.Request) (*models.User, error) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return h.UserStore.GetUserByID(r.Context(), userID)
}

// withCommentCounts проставляет постам ленты число комментариев
func (h *Handler) withCommentCounts(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	counts, err := h.CommentStore.CountComments(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.CommentCount = counts[p.ID]
	}
	return nil
}

// loadChoices заполняет варианты категорий и местоположений формы поста
func (h *Handler) loadChoices(ctx context.Context, form *forms.PostForm) error {
	categories, err := h.CategoryStore.ListCategories(ctx, false)
	if err != nil {
		return err
	}
	locations, err := h.LocationStore.ListLocations(ctx, false)
	if err != nil {
		return err
	}
	form.Categories = categories
	form.Locations = locations
	return nil
}
