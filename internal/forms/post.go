package forms

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/VitaminP8/blogicum/models"
)

const (
	maxMemory = 32 << 20
	// DateTimeLocal - формат поля <input type="datetime-local">
	DateTimeLocal = "2006-01-02T15:04"
)

var pubDateLayouts = []string{
	DateTimeLocal,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// PostForm - поля title, text, pub_date, location, category, image
type PostForm struct {
	Title      string
	Text       string
	PubDate    string
	CategoryID string
	LocationID string
	ClearImage bool
	// CurrentImage - уже сохраненная картинка редактируемого поста
	CurrentImage string
	ImageFile    multipart.File

	Categories []*models.Category
	Locations  []*models.Location
	Errors     Errors

	pubDate    time.Time
	categoryID *uint
	locationID *uint
}

// NewPostForm заполняет форму значениями поста; для нового поста
// дата публикации - текущий момент
func NewPostForm(post *models.Post) *PostForm {
	f := &PostForm{Errors: Errors{}}
	if post == nil {
		f.PubDate = time.Now().In(time.Local).Format(DateTimeLocal)
		return f
	}

	f.Title = post.Title
	f.Text = post.Text
	f.PubDate = post.PubDate.In(time.Local).Format(DateTimeLocal)
	f.CurrentImage = post.Image
	if post.CategoryID != nil {
		f.CategoryID = strconv.FormatUint(uint64(*post.CategoryID), 10)
	}
	if post.LocationID != nil {
		f.LocationID = strconv.FormatUint(uint64(*post.LocationID), 10)
	}
	return f
}

func BindPostForm(r *http.Request) (*PostForm, error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	f := &PostForm{
		Title:      strings.TrimSpace(r.PostForm.Get("title")),
		Text:       strings.TrimSpace(r.PostForm.Get("text")),
		PubDate:    strings.TrimSpace(r.PostForm.Get("pub_date")),
		CategoryID: strings.TrimSpace(r.PostForm.Get("category")),
		LocationID: strings.TrimSpace(r.PostForm.Get("location")),
		ClearImage: r.PostForm.Get("image-clear") != "",
		Errors:     Errors{},
	}

	if r.MultipartForm != nil {
		file, _, err := r.FormFile("image")
		switch {
		case err == nil:
			f.ImageFile = file
		case !errors.Is(err, http.ErrMissingFile):
			return nil, err
		}
	}

	return f, nil
}

// Close закрывает загруженный файл, если он был
func (f *PostForm) Close() {
	if f.ImageFile != nil {
		f.ImageFile.Close()
	}
}

// Validate проверяет поля; category и location должны быть среди Categories
// и Locations формы
func (f *PostForm) Validate() bool {
	if required(f.Errors, "title", f.Title) {
		maxLength(f.Errors, "title", f.Title, 256)
	}
	required(f.Errors, "text", f.Text)

	if required(f.Errors, "pub_date", f.PubDate) {
		pubDate, ok := parsePubDate(f.PubDate)
		if !ok {
			f.Errors.Add("pub_date", "Введите правильную дату и время.")
		}
		f.pubDate = pubDate
	}

	if required(f.Errors, "category", f.CategoryID) {
		id, ok := f.choice(f.CategoryID, categoryIDs(f.Categories))
		if !ok {
			f.Errors.Add("category", "Выберите корректный вариант. Вашего варианта нет среди допустимых значений.")
		}
		f.categoryID = id
	}

	if f.LocationID != "" {
		id, ok := f.choice(f.LocationID, locationIDs(f.Locations))
		if !ok {
			f.Errors.Add("location", "Выберите корректный вариант. Вашего варианта нет среди допустимых значений.")
		}
		f.locationID = id
	}

	if f.ClearImage && f.ImageFile != nil {
		f.Errors.Add("image", "Пожалуйста, загрузите файл или поставьте флажок «Очистить», но не то и другое одновременно.")
	}

	return !f.Errors.Any()
}

// Apply переносит проверенные значения в пост
func (f *PostForm) Apply(post *models.Post) {
	post.Title = f.Title
	post.Text = f.Text
	post.PubDate = f.pubDate
	post.CategoryID = f.categoryID
	post.LocationID = f.locationID
}

func (f *PostForm) choice(raw string, allowed map[uint]bool) (*uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	id := uint(n)
	if !allowed[id] {
		return nil, false
	}
	return &id, true
}

func parsePubDate(raw string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func categoryIDs(categories []*models.Category) map[uint]bool {
	ids := make(map[uint]bool, len(categories))
	for _, c := range categories {
		ids[c.ID] = true
	}
	return ids
}

func locationIDs(locations []*models.Location) map[uint]bool {
	ids := make(map[uint]bool, len(locations))
	for _, l := range locations {
		ids[l.ID] = true
	}
	return ids
}
