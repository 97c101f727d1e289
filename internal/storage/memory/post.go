package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/category"
	"github.com/VitaminP8/blogicum/internal/location"
	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
)

type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[uint]*models.Post
	nextID uint

	users      user.UserStorage
	categories category.CategoryStorage
	locations  location.LocationStorage
	// comments выставляется NewCommentMemoryStorage, чтобы удаление поста
	// удаляло и его комментарии
	comments *CommentMemoryStorage
}

func NewPostMemoryStorage(users user.UserStorage, categories category.CategoryStorage, locations location.LocationStorage) *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:      make(map[uint]*models.Post),
		nextID:     1,
		users:      users,
		categories: categories,
		locations:  locations,
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	stored := stripRelations(*p)
	stored.ID = s.nextID
	stored.AuthorID = userID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.nextID++
	s.posts[stored.ID] = &stored
	s.mu.Unlock()

	return s.hydrate(ctx, stored), nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	s.mu.Lock()
	p, exists := s.posts[id]
	var stored models.Post
	if exists {
		stored = *p
	}
	s.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}

	return s.hydrate(ctx, stored), nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	existing, exists := s.posts[p.ID]
	if !exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("post %d: %w", p.ID, storage.ErrNotFound)
	}
	if existing.AuthorID != userID {
		s.mu.Unlock()
		return nil, storage.ErrForbidden
	}

	existing.Title = p.Title
	existing.Text = p.Text
	existing.PubDate = p.PubDate
	existing.Image = p.Image
	existing.IsPublished = p.IsPublished
	existing.CategoryID = p.CategoryID
	existing.LocationID = p.LocationID
	existing.UpdatedAt = time.Now()
	stored := *existing
	s.mu.Unlock()

	return s.hydrate(ctx, stored), nil
}

func (s *PostMemoryStorage) DeletePostByID(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	p, exists := s.posts[id]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	if p.AuthorID != userID {
		s.mu.Unlock()
		return storage.ErrForbidden
	}
	delete(s.posts, id)
	s.mu.Unlock()

	if s.comments != nil {
		s.comments.deleteByPostID(id)
	}
	return nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, filter post.Filter, limit, offset int) ([]*models.Post, error) {
	posts := s.filtered(ctx, filter)

	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (s *PostMemoryStorage) CountPosts(ctx context.Context, filter post.Filter) (int, error) {
	return len(s.filtered(ctx, filter)), nil
}

// filtered возвращает посты под фильтр, от новых к старым
func (s *PostMemoryStorage) filtered(ctx context.Context, filter post.Filter) []*models.Post {
	s.mu.Lock()
	candidates := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		candidates = append(candidates, *p)
	}
	s.mu.Unlock()

	posts := make([]*models.Post, 0, len(candidates))
	for _, c := range candidates {
		p := s.hydrate(ctx, c)
		if filter.PublicOnly && !p.IsPublic(filter.Now) {
			continue
		}
		posts = append(posts, p)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].PubDate.After(posts[j].PubDate)
	})
	return posts
}

func (s *PostMemoryStorage) exists(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.posts[id]
	return ok
}

// hydrate подтягивает автора, категорию и местоположение
func (s *PostMemoryStorage) hydrate(ctx context.Context, p models.Post) *models.Post {
	result := p
	if author, err := s.users.GetUserByID(ctx, p.AuthorID); err == nil {
		author.Password = ""
		result.Author = *author
	}
	if p.CategoryID != nil {
		if c, err := s.categories.GetCategoryByID(ctx, *p.CategoryID); err == nil {
			result.Category = c
		}
	}
	if p.LocationID != nil {
		if l, err := s.locations.GetLocationByID(ctx, *p.LocationID); err == nil {
			result.Location = l
		}
	}
	return &result
}

func stripRelations(p models.Post) models.Post {
	p.Author = models.User{}
	p.Category = nil
	p.Location = nil
	p.Comments = nil
	p.CommentCount = 0
	return p
}
