package forms

import (
	"net/http"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	msgRequired = "Обязательное поле."
	// NonFieldErrors - ключ для ошибок, не привязанных к полю
	NonFieldErrors = "__all__"
)

var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Errors - ошибки валидации по полям формы
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Any() bool {
	return len(e) > 0
}

func required(errs Errors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, msgRequired)
		return false
	}
	return true
}

func maxLength(errs Errors, field, value string, max int) bool {
	if n := utf8.RuneCountInString(value); n > max {
		errs.Add(field, "Убедитесь, что значение содержит не более "+strconv.Itoa(max)+" символов.")
		return false
	}
	return true
}

func validUsername(errs Errors, field, value string) {
	if !required(errs, field, value) {
		return
	}
	if !maxLength(errs, field, value, 150) {
		return
	}
	if !usernameRe.MatchString(value) {
		errs.Add(field, "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_.")
	}
}

func validEmail(errs Errors, field, value string) {
	if value == "" {
		return
	}
	if !maxLength(errs, field, value, 254) {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		errs.Add(field, "Введите правильный адрес электронной почты.")
	}
}

func parse(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// ProfileEditForm редактирует имя, фамилию, username и email пользователя
type ProfileEditForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Errors    Errors
}

func NewProfileEditForm(firstName, lastName, username, email string) *ProfileEditForm {
	return &ProfileEditForm{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     email,
		Errors:    Errors{},
	}
}

func BindProfileEditForm(r *http.Request) (*ProfileEditForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	return NewProfileEditForm(
		strings.TrimSpace(r.PostForm.Get("first_name")),
		strings.TrimSpace(r.PostForm.Get("last_name")),
		strings.TrimSpace(r.PostForm.Get("username")),
		strings.TrimSpace(r.PostForm.Get("email")),
	), nil
}

func (f *ProfileEditForm) Validate() bool {
	maxLength(f.Errors, "first_name", f.FirstName, 150)
	maxLength(f.Errors, "last_name", f.LastName, 150)
	validUsername(f.Errors, "username", f.Username)
	validEmail(f.Errors, "email", f.Email)
	return !f.Errors.Any()
}

// CommentForm - единственное поле text
type CommentForm struct {
	Text   string
	Errors Errors
}

func NewCommentForm(text string) *CommentForm {
	return &CommentForm{Text: text, Errors: Errors{}}
}

func BindCommentForm(r *http.Request) (*CommentForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	return NewCommentForm(strings.TrimSpace(r.PostForm.Get("text"))), nil
}

func (f *CommentForm) Validate() bool {
	required(f.Errors, "text", f.Text)
	return !f.Errors.Any()
}

type RegistrationForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	Errors    Errors
}

func BindRegistrationForm(r *http.Request) (*RegistrationForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	return &RegistrationForm{
		Username:  strings.TrimSpace(r.PostForm.Get("username")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Password1: r.PostForm.Get("password1"),
		Password2: r.PostForm.Get("password2"),
		Errors:    Errors{},
	}, nil
}

func (f *RegistrationForm) Validate() bool {
	validUsername(f.Errors, "username", f.Username)
	validEmail(f.Errors, "email", f.Email)
	if required(f.Errors, "password1", f.Password1) && utf8.RuneCountInString(f.Password1) < 8 {
		f.Errors.Add("password1", "Введённый пароль слишком короткий. Он должен содержать как минимум 8 символов.")
	}
	if required(f.Errors, "password2", f.Password2) && f.Password1 != f.Password2 {
		f.Errors.Add("password2", "Введенные пароли не совпадают.")
	}
	return !f.Errors.Any()
}

type LoginForm struct {
	Username string
	Password string
	Next     string
	Errors   Errors
}

func BindLoginForm(r *http.Request) (*LoginForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	return &LoginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
		Next:     r.PostForm.Get("next"),
		Errors:   Errors{},
	}, nil
}

func (f *LoginForm) Validate() bool {
	required(f.Errors, "username", f.Username)
	required(f.Errors, "password", f.Password)
	return !f.Errors.Any()
}
