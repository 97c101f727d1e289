package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type CategoryMemoryStorage struct {
	mu         sync.Mutex
	categories map[uint]*models.Category
	nextID     uint
}

func NewCategoryMemoryStorage() *CategoryMemoryStorage {
	return &CategoryMemoryStorage{
		categories: make(map[uint]*models.Category),
		nextID:     1,
	}
}

func (s *CategoryMemoryStorage) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == category.Slug {
			return nil, fmt.Errorf("category %s: %w", category.Slug, storage.ErrAlreadyExists)
		}
	}

	stored := *category
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.nextID++
	s.categories[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (s *CategoryMemoryStorage) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.categories[id]
	if !exists {
		return nil, fmt.Errorf("category %d: %w", id, storage.ErrNotFound)
	}

	result := *c
	return &result, nil
}

func (s *CategoryMemoryStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			result := *c
			return &result, nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", slug, storage.ErrNotFound)
}

func (s *CategoryMemoryStorage) ListCategories(ctx context.Context, publishedOnly bool) ([]*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if publishedOnly && !c.IsPublished {
			continue
		}
		result := *c
		categories = append(categories, &result)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Title < categories[j].Title
	})
	return categories, nil
}
