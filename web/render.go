package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/paginator"
	"github.com/VitaminP8/blogicum/models"
	"github.com/gorilla/csrf"
)

//go:embed templates
var templateFS embed.FS

// templateData - все, что может понадобиться шаблонам страниц
type templateData struct {
	Path        string
	CurrentUser *models.User
	// CSRFField - скрытое поле с токеном для каждой POST-формы
	CSRFField template.HTML

	Page     *paginator.Page
	Posts    []*models.Post
	Post     *models.Post
	Comments []*models.Comment
	Comment  *models.Comment
	Category *models.Category
	Profile  *models.User

	PostForm         *forms.PostForm
	CommentForm      *forms.CommentForm
	ProfileForm      *forms.ProfileEditForm
	RegistrationForm *forms.RegistrationForm
	LoginForm        *forms.LoginForm

	// Deleting - страница подтверждения удаления
	Deleting bool
}

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(time.Local).Format("02.01.2006 15:04")
	},
	"mediaURL": func(name string) string {
		if name == "" {
			return ""
		}
		return MediaPrefix + name
	},
	"truncateWords": func(n int, s string) string {
		words := strings.Fields(s)
		if len(words) <= n {
			return s
		}
		return strings.Join(words[:n], " ") + " …"
	},
	// selected сравнивает id варианта со значением поля формы
	"selected": func(id uint, value string) bool {
		return strconv.FormatUint(uint64(id), 10) == value
	},
	"owns": func(u *models.User, authorID uint) bool {
		return u != nil && u.ID == authorID
	},
}

var templateCache = mustParseTemplates()

// mustParseTemplates разбирает каждую страницу вместе с base.html и includes
func mustParseTemplates() map[string]*template.Template {
	cache := map[string]*template.Template{}

	for _, dir := range []string{"blog", "pages", "registration"} {
		pages, err := fs.Glob(templateFS, path.Join("templates", dir, "*.html"))
		if err != nil {
			panic(err)
		}
		for _, page := range pages {
			ts := template.Must(template.New("").Funcs(functions).ParseFS(templateFS,
				"templates/base.html",
				"templates/includes/*.html",
				page,
			))
			cache[path.Join(dir, path.Base(page))] = ts
		}
	}

	return cache
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	ts, ok := templateCache[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("template %s does not exist", page))
		return
	}

	if data == nil {
		data = &templateData{}
	}
	data.Path = r.URL.Path
	data.CSRFField = csrf.TemplateField(r)
	if data.CurrentUser == nil {
		data.CurrentUser = h.currentUser(r)
	}

	// Рендерим в буфер, чтобы ошибка шаблона не оставила полстраницы
	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", data)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// currentUser возвращает вошедшего пользователя или nil
func (h *Handler) currentUser(r *http.Request) *models.User {
	userID := auth.UserIDOrZero(r.Context())
	if userID == 0 {
		return nil
	}
	u, err := h.UserStore.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return u
}
