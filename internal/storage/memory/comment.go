package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint

	posts *PostMemoryStorage
	users user.UserStorage
}

func NewCommentMemoryStorage(posts *PostMemoryStorage, users user.UserStorage) *CommentMemoryStorage {
	s := &CommentMemoryStorage{
		comments: make(map[uint]*models.Comment),
		nextID:   1,
		posts:    posts,
		users:    users,
	}
	posts.comments = s
	return s
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	// проверка поста под блокировкой комментариев: DeletePostByID чистит
	// комментарии через ту же блокировку и не оставит сироту
	s.mu.Lock()
	if !s.posts.exists(postID) {
		s.mu.Unlock()
		return nil, fmt.Errorf("post %d: %w", postID, storage.ErrNotFound)
	}
	c := &models.Comment{
		Text:     text,
		PostID:   postID,
		AuthorID: userID,
	}
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.nextID++
	s.comments[c.ID] = c
	stored := *c
	s.mu.Unlock()

	return s.hydrate(ctx, stored), nil
}

func (s *CommentMemoryStorage) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	s.mu.Lock()
	c, exists := s.comments[commentID]
	var stored models.Comment
	if exists {
		stored = *c
	}
	s.mu.Unlock()

	if !exists || stored.PostID != postID {
		return nil, fmt.Errorf("comment %d of post %d: %w", commentID, postID, storage.ErrNotFound)
	}
	return s.hydrate(ctx, stored), nil
}

func (s *CommentMemoryStorage) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	s.mu.Lock()
	var stored []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			stored = append(stored, *c)
		}
	}
	s.mu.Unlock()

	comments := make([]*models.Comment, 0, len(stored))
	for _, c := range stored {
		comments = append(comments, s.hydrate(ctx, c))
	}

	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *CommentMemoryStorage) UpdateComment(ctx context.Context, postID, commentID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	c, exists := s.comments[commentID]
	if !exists || c.PostID != postID {
		s.mu.Unlock()
		return nil, fmt.Errorf("comment %d of post %d: %w", commentID, postID, storage.ErrNotFound)
	}
	if c.AuthorID != userID {
		s.mu.Unlock()
		return nil, storage.ErrForbidden
	}
	c.Text = text
	c.UpdatedAt = time.Now()
	stored := *c
	s.mu.Unlock()

	return s.hydrate(ctx, stored), nil
}

func (s *CommentMemoryStorage) DeleteComment(ctx context.Context, postID, commentID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.comments[commentID]
	if !exists || c.PostID != postID {
		return fmt.Errorf("comment %d of post %d: %w", commentID, postID, storage.ErrNotFound)
	}
	if c.AuthorID != userID {
		return storage.ErrForbidden
	}

	delete(s.comments, commentID)
	return nil
}

func (s *CommentMemoryStorage) CountComments(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	wanted := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uint]int, len(postIDs))
	for _, c := range s.comments {
		if wanted[c.PostID] {
			counts[c.PostID]++
		}
	}
	return counts, nil
}

func (s *CommentMemoryStorage) deleteByPostID(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
}

func (s *CommentMemoryStorage) hydrate(ctx context.Context, c models.Comment) *models.Comment {
	result := c
	if author, err := s.users.GetUserByID(ctx, c.AuthorID); err == nil {
		author.Password = ""
		result.Author = *author
	}
	return &result
}
