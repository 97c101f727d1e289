package web

import (
	"bytes"
	"net/http"
	"runtime/debug"

	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/gorilla/csrf"
)

// serverError пишет ошибку со стеком в лог и отдает страницу 500
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error.Printf("%s %s: %s\n%s", r.Method, r.URL.Path, err.Error(), debug.Stack())

	buf := new(bytes.Buffer)
	if ts, ok := templateCache["pages/500.html"]; ok {
		if ts.ExecuteTemplate(buf, "base", &templateData{Path: r.URL.Path}) == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			buf.WriteTo(w)
			return
		}
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "pages/404.html", nil)
}

// csrfFailure отвечает на запрос без действительного CSRF-токена
func (h *Handler) csrfFailure(w http.ResponseWriter, r *http.Request) {
	logger.Warn.Printf("%s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	h.render(w, r, http.StatusForbidden, "pages/403csrf.html", nil)
}
