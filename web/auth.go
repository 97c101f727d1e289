package web

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/forms"
	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/VitaminP8/blogicum/internal/storage"
)

func (h *Handler) registration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "registration/registration_form.html", &templateData{
			RegistrationForm: &forms.RegistrationForm{Errors: forms.Errors{}},
		})
		return
	}

	form, err := forms.BindRegistrationForm(r)
	if err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}

	if form.Validate() {
		_, err := h.UserStore.RegisterUser(r.Context(), form.Username, form.Email, form.Password1)
		switch {
		case err == nil:
			logger.Info.Printf("registered user %s", form.Username)
			redirect(w, r, loginURL)
			return
		case errors.Is(err, storage.ErrAlreadyExists):
			form.Errors.Add("username", "Пользователь с таким именем уже существует.")
		default:
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, http.StatusOK, "registration/registration_form.html", &templateData{RegistrationForm: form})
}

// login выдает токен сессии в cookie и переходит на next или в ленту
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "registration/login.html", &templateData{
			LoginForm: &forms.LoginForm{Next: safeNext(r.URL.Query().Get("next")), Errors: forms.Errors{}},
		})
		return
	}

	form, err := forms.BindLoginForm(r)
	if err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}
	form.Next = safeNext(form.Next)

	if form.Validate() {
		u, err := h.UserStore.Authenticate(r.Context(), form.Username, form.Password)
		switch {
		case err == nil:
			token, err := h.Tokens.Issue(u)
			if err != nil {
				h.serverError(w, r, err)
				return
			}
			h.Tokens.SetSessionCookie(w, token)

			target := form.Next
			if target == "" {
				target = "/"
			}
			redirect(w, r, target)
			return
		case errors.Is(err, storage.ErrInvalidLogin):
			form.Errors.Add(forms.NonFieldErrors, "Пожалуйста, введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру.")
		default:
			h.serverError(w, r, err)
			return
		}
	}

	form.Password = ""
	h.render(w, r, http.StatusOK, "registration/login.html", &templateData{LoginForm: form})
}

// logout отзывает токен до конца его срока и стирает cookie
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.ExpiresAt != nil {
		err := h.Sessions.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	auth.ClearSessionCookie(w)

	// Пользователь уже вышел, шапка должна это показывать
	r = r.WithContext(auth.WithUserID(r.Context(), 0))
	h.render(w, r, http.StatusOK, "registration/logged_out.html", &templateData{})
}
