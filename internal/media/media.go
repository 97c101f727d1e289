package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 10 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image is too large")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Storage хранит загруженные картинки постов на диске и отдает их по URLPrefix
type Storage struct {
	dir       string
	urlPrefix string
}

func New(dir, urlPrefix string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(dir, "posts_images"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create media dir: %w", err)
	}
	return &Storage{dir: dir, urlPrefix: urlPrefix}, nil
}

// SaveImage сохраняет картинку под случайным именем и возвращает путь
// относительно каталога media
func (s *Storage) SaveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrNotImage
	}

	name := "posts_images/" + uuid.NewString() + ext
	err = os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(name)), data, 0o644)
	if err != nil {
		return "", fmt.Errorf("could not save image: %w", err)
	}

	return name, nil
}

func (s *Storage) Delete(name string) error {
	if name == "" || strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete image: %w", err)
	}
	return nil
}

func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix, http.FileServer(filesOnly{http.Dir(s.dir)}))
}

// filesOnly прячет каталоги: вместо листинга отдается 404
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
