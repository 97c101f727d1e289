package database

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
)

type CommentStorage struct {
	db *gorm.DB
}

func NewCommentStorage(db *gorm.DB) *CommentStorage {
	return &CommentStorage{db: db}
}

func (s *CommentStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var p models.Post
	err = s.db.First(&p, postID).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}

	c := &models.Comment{
		Text:     text,
		PostID:   postID,
		AuthorID: userID,
	}
	err = s.db.Set("gorm:save_associations", false).Create(c).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	return s.GetComment(ctx, postID, c.ID)
}

func (s *CommentStorage) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var c models.Comment
	err := s.db.Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&c).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("comment %d of post %d", commentID, postID))
	}

	c.Author.Password = ""
	return &c, nil
}

func (s *CommentStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	for _, c := range comments {
		c.Author.Password = ""
	}
	return comments, nil
}

// ownComment загружает комментарий поста и проверяет авторство
func (s *CommentStorage) ownComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var c models.Comment
	err = s.db.Where("id = ? AND post_id = ?", commentID, postID).First(&c).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("comment %d of post %d", commentID, postID))
	}

	if c.AuthorID != userID {
		return nil, storage.ErrForbidden
	}
	return &c, nil
}

func (s *CommentStorage) UpdateComment(ctx context.Context, postID, commentID uint, text string) (*models.Comment, error) {
	c, err := s.ownComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(c).Update("text", text).Error
	if err != nil {
		return nil, fmt.Errorf("could not update comment: %w", err)
	}

	return s.GetComment(ctx, postID, commentID)
}

func (s *CommentStorage) DeleteComment(ctx context.Context, postID, commentID uint) error {
	c, err := s.ownComment(ctx, postID, commentID)
	if err != nil {
		return err
	}

	err = s.db.Delete(c).Error
	if err != nil {
		return fmt.Errorf("could not delete comment: %w", err)
	}
	return nil
}

func (s *CommentStorage) CountComments(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		Total  int
	}
	err := s.db.Model(&models.Comment{}).
		Select("post_id, count(*) AS total").
		Where("post_id IN (?)", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count comments: %w", err)
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
