package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/media"
	"github.com/VitaminP8/blogicum/internal/session"
	"github.com/VitaminP8/blogicum/internal/storage/memory"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/require"
)

// testApp - приложение на in-memory хранилищах
type testApp struct {
	t          *testing.T
	h          *Handler
	router     http.Handler
	users      *memory.UserMemoryStorage
	categories *memory.CategoryMemoryStorage
	locations  *memory.LocationMemoryStorage
	posts      *memory.PostMemoryStorage
	comments   *memory.CommentMemoryStorage
	sessions   *session.MemoryStore

	csrfCookie *http.Cookie
	csrfToken  string
}

const (
	csrfCookieName = "_gorilla_csrf"
	csrfField      = "gorilla.csrf.Token"
	csrfHeader     = "X-CSRF-Token"
)

var csrfInput = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

func newTestApp(t *testing.T) *testApp {
	users := memory.NewUserMemoryStorage()
	categories := memory.NewCategoryMemoryStorage()
	locations := memory.NewLocationMemoryStorage()
	posts := memory.NewPostMemoryStorage(users, categories, locations)
	comments := memory.NewCommentMemoryStorage(posts, users)
	sessions := session.NewMemoryStore()

	mediaStorage, err := media.New(t.TempDir(), MediaPrefix)
	require.NoError(t, err)

	h := &Handler{
		PostStore:     posts,
		CommentStore:  comments,
		UserStore:     users,
		CategoryStore: categories,
		LocationStore: locations,
		Tokens:        auth.NewTokenManager("test_jwt_secret", time.Hour),
		Sessions:      sessions,
		Media:         mediaStorage,
		PageSize:      10,
	}

	return &testApp{
		t:          t,
		h:          h,
		router:     h.Routes(),
		users:      users,
		categories: categories,
		locations:  locations,
		posts:      posts,
		comments:   comments,
		sessions:   sessions,
	}
}

func (a *testApp) user(username string) *models.User {
	u, err := a.users.RegisterUser(context.Background(), username, username+"@example.com", "password123")
	require.NoError(a.t, err)
	return u
}

func (a *testApp) category(slug string, published bool) *models.Category {
	c, err := a.categories.CreateCategory(context.Background(), &models.Category{
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: published,
	})
	require.NoError(a.t, err)
	return c
}

func (a *testApp) post(author *models.User, title string, c *models.Category, pubDate time.Time, published bool) *models.Post {
	p := &models.Post{
		Title:       title,
		Text:        "Text of " + title,
		PubDate:     pubDate,
		IsPublished: published,
	}
	if c != nil {
		p.CategoryID = &c.ID
	}
	created, err := a.posts.CreatePost(auth.WithUserID(context.Background(), author.ID), p)
	require.NoError(a.t, err)
	return created
}

func (a *testApp) comment(author *models.User, p *models.Post, text string) *models.Comment {
	c, err := a.comments.CreateComment(auth.WithUserID(context.Background(), author.ID), p.ID, text)
	require.NoError(a.t, err)
	return c
}

// sessionCookie выдает cookie сессии, как после входа
func (a *testApp) sessionCookie(u *models.User) *http.Cookie {
	token, err := a.h.Tokens.Issue(u)
	require.NoError(a.t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

// csrf выдает CSRF-cookie и токен так, как их получает браузер
// вместе со страницей формы
func (a *testApp) csrf() (*http.Cookie, string) {
	if a.csrfCookie != nil {
		return a.csrfCookie, a.csrfToken
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, loginURL, nil))
	m := csrfInput.FindStringSubmatch(w.Body.String())
	require.Len(a.t, m, 2, "no csrf field on login page")
	for _, c := range w.Result().Cookies() {
		if c.Name == csrfCookieName {
			a.csrfCookie = &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	require.NotNil(a.t, a.csrfCookie, "no csrf cookie in response")
	a.csrfToken = m[1]
	return a.csrfCookie, a.csrfToken
}

func (a *testApp) do(req *http.Request, u *models.User) *httptest.ResponseRecorder {
	if u != nil {
		req.AddCookie(a.sessionCookie(u))
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		cookie, token := a.csrf()
		req.AddCookie(cookie)
		req.Header.Set(csrfHeader, token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(target string, u *models.User) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, target, nil), u)
}

func (a *testApp) postForm(target string, u *models.User, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, u)
}

func newRequestWithCookie(method, target string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(cookie)
	return req
}
