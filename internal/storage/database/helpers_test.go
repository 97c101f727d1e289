package database

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

// setupTestDB создает SQLite в памяти с мигрированной схемой
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to connect to in-memory SQLite")
	// Отключаем логирование запросов для тестов
	db.LogMode(false)
	t.Cleanup(func() { Close(db) })
	return db
}

// Создает контекст с ID пользователя
func createUserContext(userID uint) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user, err := NewUserStorage(db).RegisterUser(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err, "Failed to create test user")
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	c, err := NewCategoryStorage(db).CreateCategory(context.Background(), &models.Category{
		Title:       slug,
		Slug:        slug,
		IsPublished: published,
	})
	require.NoError(t, err, "Failed to create test category")
	return c
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, c *models.Category, pubDate time.Time, published bool) *models.Post {
	p := &models.Post{
		Title:       "Test Post Title",
		Text:        "This is a test post content",
		PubDate:     pubDate,
		IsPublished: published,
	}
	if c != nil {
		p.CategoryID = &c.ID
	}
	created, err := NewPostStorage(db).CreatePost(createUserContext(authorID), p)
	require.NoError(t, err, "Failed to create test post")
	return created
}
