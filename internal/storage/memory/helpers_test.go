package memory

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/require"
)

type stores struct {
	users      *UserMemoryStorage
	categories *CategoryMemoryStorage
	locations  *LocationMemoryStorage
	posts      *PostMemoryStorage
	comments   *CommentMemoryStorage
}

func newStores() *stores {
	s := &stores{
		users:      NewUserMemoryStorage(),
		categories: NewCategoryMemoryStorage(),
		locations:  NewLocationMemoryStorage(),
	}
	s.posts = NewPostMemoryStorage(s.users, s.categories, s.locations)
	s.comments = NewCommentMemoryStorage(s.posts, s.users)
	return s
}

func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

func (s *stores) user(t *testing.T, username string) *models.User {
	u, err := s.users.RegisterUser(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	return u
}

func (s *stores) category(t *testing.T, slug string, published bool) *models.Category {
	c, err := s.categories.CreateCategory(context.Background(), &models.Category{
		Title:       slug,
		Slug:        slug,
		IsPublished: published,
	})
	require.NoError(t, err)
	return c
}

func (s *stores) post(t *testing.T, authorID uint, c *models.Category, pubDate time.Time, published bool) *models.Post {
	p := &models.Post{
		Title:       "Post",
		Text:        "Text",
		PubDate:     pubDate,
		IsPublished: published,
	}
	if c != nil {
		p.CategoryID = &c.ID
	}
	created, err := s.posts.CreatePost(createUserContext(authorID), p)
	require.NoError(t, err)
	return created
}
