package web

import (
	"net/http"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/category"
	"github.com/VitaminP8/blogicum/internal/comment"
	"github.com/VitaminP8/blogicum/internal/location"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/session"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
)

const (
	// MediaPrefix - URL, под которым отдаются загруженные картинки
	MediaPrefix     = "/media/"
	loginURL        = "/auth/login/"
	defaultPageSize = 10
	// maxRequestBody - картинка поста плюс запас на текстовые поля формы
	maxRequestBody = media.MaxImageSize + 1<<20
)

// Handler служит корневой точкой для всех views.
// Сюда внедряются хранилища и сервисы.
type Handler struct {
	PostStore     post.PostStorage
	CommentStore  comment.CommentStorage
	UserStore     user.UserStorage
	CategoryStore category.CategoryStorage
	LocationStore location.LocationStorage

	Tokens   *auth.TokenManager
	Sessions session.Store
	Media    *media.Storage

	// CSRFKey подписывает CSRF-cookie; пустой ключ - случайный на время жизни процесса
	CSRFKey       []byte
	// SecureCookies - сайт работает по HTTPS
	SecureCookies bool

	PageSize int
	// Now подменяется в тестах
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) pageSize() int {
	if h.PageSize > 0 {
		return h.PageSize
	}
	return defaultPageSize
}

// Routes собирает роутер приложения
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestSize(maxRequestBody))
	router.Use(h.plaintextHTTP)
	router.Use(csrf.Protect(h.csrfKey(),
		csrf.Secure(h.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailure)),
	))
	router.Use(h.Tokens.Middleware(h.Sessions))

	router.NotFound(h.notFound)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle(MediaPrefix+"*", h.Media.Handler())

	router.Get("/", h.index)
	router.Get("/posts/{post_id}/", h.postDetail)
	router.Get("/category/{category_slug}/", h.categoryPosts)
	router.Get("/profile/{username}/", h.profile)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(loginURL))

		getPost(r, "/edit_profile/", h.editProfile)
		getPost(r, "/posts/create/", h.createPost)
		getPost(r, "/posts/{post_id}/edit/", h.editPost)
		getPost(r, "/posts/{post_id}/delete/", h.deletePost)
		getPost(r, "/posts/{post_id}/comment/", h.addComment)
		getPost(r, "/posts/{post_id}/edit_comment/{comment_id}/", h.editComment)
		getPost(r, "/posts/{post_id}/delete_comment/{comment_id}/", h.deleteComment)
	})

	router.Route("/auth", func(r chi.Router) {
		getPost(r, "/registration/", h.registration)
		getPost(r, "/login/", h.login)
		getPost(r, "/logout/", h.logout)
	})

	return router
}

func (h *Handler) csrfKey() []byte {
	if len(h.CSRFKey) > 0 {
		return h.CSRFKey
	}
	return securecookie.GenerateRandomKey(32)
}

// plaintextHTTP помечает запросы сайта без HTTPS, иначе csrf требует
// Referer с https-схемой
func (h *Handler) plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.SecureCookies {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

func getPost(r chi.Router, pattern string, fn http.HandlerFunc) {
	r.Get(pattern, fn)
	r.Post(pattern, fn)
}
