package database

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type CategoryStorage struct {
	db *gorm.DB
}

func NewCategoryStorage(db *gorm.DB) *CategoryStorage {
	return &CategoryStorage{db: db}
}

func (s *CategoryStorage) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	var count int
	err := s.db.Model(&models.Category{}).Where("slug = ?", category.Slug).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("could not check slug: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("category %s: %w", category.Slug, storage.ErrAlreadyExists)
	}

	created := *category
	err = s.db.Create(&created).Error
	if err != nil {
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	return &created, nil
}

func (s *CategoryStorage) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.First(&category, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("category %d", id))
	}
	return &category, nil
}

func (s *CategoryStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, notFound(err, "category "+slug)
	}
	return &category, nil
}

func (s *CategoryStorage) ListCategories(ctx context.Context, publishedOnly bool) ([]*models.Category, error) {
	q := s.db.Order("title ASC")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var categories []*models.Category
	err := q.Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("could not get categories: %w", err)
	}
	return categories, nil
}

type LocationStorage struct {
	db *gorm.DB
}

func NewLocationStorage(db *gorm.DB) *LocationStorage {
	return &LocationStorage{db: db}
}

func (s *LocationStorage) CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error) {
	created := *location
	err := s.db.Create(&created).Error
	if err != nil {
		return nil, fmt.Errorf("could not create location: %w", err)
	}
	return &created, nil
}

func (s *LocationStorage) GetLocationByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := s.db.First(&location, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("location %d", id))
	}
	return &location, nil
}

func (s *LocationStorage) ListLocations(ctx context.Context, publishedOnly bool) ([]*models.Location, error) {
	q := s.db.Order("name ASC")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var locations []*models.Location
	err := q.Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("could not get locations: %w", err)
	}
	return locations, nil
}
