package post

import (
	"context"
	"time"

	"github.com/VitaminP8/blogicum/models"
)

// Filter задает выборку постов для лент.
type Filter struct {
	AuthorID   uint // 0 - любой автор
	CategoryID uint // 0 - любая категория
	// PublicOnly оставляет только опубликованные посты с наступившей датой
	// из опубликованных категорий
	PublicOnly bool
	Now        time.Time
}

type PostStorage interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	DeletePostByID(ctx context.Context, id uint) error
	// ListPosts возвращает посты по убыванию даты публикации
	ListPosts(ctx context.Context, filter Filter, limit, offset int) ([]*models.Post, error)
	CountPosts(ctx context.Context, filter Filter) (int, error)
}
