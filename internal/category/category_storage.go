package category

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type CategoryStorage interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, publishedOnly bool) ([]*models.Category, error)
}
