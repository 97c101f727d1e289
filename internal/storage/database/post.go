package database

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type PostStorage struct {
	db *gorm.DB
}

func NewPostStorage(db *gorm.DB) *PostStorage {
	return &PostStorage{db: db}
}

func (s *PostStorage) withRelations() *gorm.DB {
	return s.db.Preload("Author").Preload("Category").Preload("Location")
}

func (s *PostStorage) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	stored := &models.Post{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.UTC(),
		Image:       p.Image,
		IsPublished: p.IsPublished,
		AuthorID:    userID,
		CategoryID:  p.CategoryID,
		LocationID:  p.LocationID,
	}

	err = s.db.Set("gorm:save_associations", false).Create(stored).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return s.GetPostByID(ctx, stored.ID)
}

func (s *PostStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.withRelations().First(&p, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}

	p.Author.Password = ""
	return &p, nil
}

// ownPost загружает пост и проверяет, что его автор - пользователь из ctx
func (s *PostStorage) ownPost(ctx context.Context, id uint) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var p models.Post
	err = s.db.First(&p, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}

	if p.AuthorID != userID {
		return nil, storage.ErrForbidden
	}
	return &p, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	existing, err := s.ownPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	err = s.db.Set("gorm:save_associations", false).Model(existing).Updates(map[string]interface{}{
		"title":        p.Title,
		"text":         p.Text,
		"pub_date":     p.PubDate.UTC(),
		"image":        p.Image,
		"is_published": p.IsPublished,
		"category_id":  p.CategoryID,
		"location_id":  p.LocationID,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}

	return s.GetPostByID(ctx, p.ID)
}

func (s *PostStorage) DeletePostByID(ctx context.Context, id uint) error {
	if _, err := s.ownPost(ctx, id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}

	return nil
}

func (s *PostStorage) filtered(filter post.Filter) *gorm.DB {
	q := s.db.Model(&models.Post{})
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.PublicOnly {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id AND categories.deleted_at IS NULL").
			Where("posts.is_published = ? AND posts.pub_date <= ? AND categories.is_published = ?",
				true, filter.Now.UTC(), true)
	}
	return q
}

func (s *PostStorage) ListPosts(ctx context.Context, filter post.Filter, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.filtered(filter).
		Select("posts.*").
		Preload("Author").Preload("Category").Preload("Location").
		Order("posts.pub_date DESC").Order("posts.id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	for _, p := range posts {
		p.Author.Password = ""
	}
	return posts, nil
}

func (s *PostStorage) CountPosts(ctx context.Context, filter post.Filter) (int, error) {
	var count int
	err := s.filtered(filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count posts: %w", err)
	}
	return count, nil
}
