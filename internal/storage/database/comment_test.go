package database

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentStorage_CreateComment(t *testing.T) {
	db := setupTestDB(t)
	s := NewCommentStorage(db)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	p := createTestPost(t, db, author.ID, createTestCategory(t, db, "travel", true), time.Now(), true)

	t.Run("Success comment creation", func(t *testing.T) {
		c, err := s.CreateComment(createUserContext(reader.ID), p.ID, "Nice post")
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, p.ID, c.PostID)
		assert.Equal(t, "reader", c.Author.Username)
		assert.Empty(t, c.Author.Password)
	})

	t.Run("Error: no authorization", func(t *testing.T) {
		_, err := s.CreateComment(context.Background(), p.ID, "text")
		assert.ErrorIs(t, err, storage.ErrUnauthorized)
	})

	t.Run("Error: post not found", func(t *testing.T) {
		_, err := s.CreateComment(createUserContext(reader.ID), 999, "text")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCommentStorage_GetComments(t *testing.T) {
	db := setupTestDB(t)
	s := NewCommentStorage(db)
	author := createTestUser(t, db, "author")
	c := createTestCategory(t, db, "travel", true)
	p1 := createTestPost(t, db, author.ID, c, time.Now(), true)
	p2 := createTestPost(t, db, author.ID, c, time.Now(), true)
	ctx := createUserContext(author.ID)

	first, err := s.CreateComment(ctx, p1.ID, "first")
	require.NoError(t, err)
	second, err := s.CreateComment(ctx, p1.ID, "second")
	require.NoError(t, err)
	other, err := s.CreateComment(ctx, p2.ID, "other")
	require.NoError(t, err)

	t.Run("Comments of post oldest first", func(t *testing.T) {
		comments, err := s.GetComments(context.Background(), p1.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, first.ID, comments[0].ID)
		assert.Equal(t, second.ID, comments[1].ID)
		assert.Equal(t, "author", comments[0].Author.Username)
	})

	t.Run("GetComment checks post", func(t *testing.T) {
		got, err := s.GetComment(context.Background(), p1.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Text)

		_, err = s.GetComment(context.Background(), p1.ID, other.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Counts", func(t *testing.T) {
		counts, err := s.CountComments(context.Background(), []uint{p1.ID, p2.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, 2, counts[p1.ID])
		assert.Equal(t, 1, counts[p2.ID])
		assert.Zero(t, counts[999])

		empty, err := s.CountComments(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestCommentStorage_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	s := NewCommentStorage(db)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	p := createTestPost(t, db, author.ID, createTestCategory(t, db, "travel", true), time.Now(), true)
	c, err := s.CreateComment(createUserContext(reader.ID), p.ID, "text")
	require.NoError(t, err)

	t.Run("Update by not author", func(t *testing.T) {
		_, err := s.UpdateComment(createUserContext(author.ID), p.ID, c.ID, "hacked")
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("Update with wrong post", func(t *testing.T) {
		_, err := s.UpdateComment(createUserContext(reader.ID), p.ID+1, c.ID, "text")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Update by author", func(t *testing.T) {
		updated, err := s.UpdateComment(createUserContext(reader.ID), p.ID, c.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Text)
	})

	t.Run("Delete by not author", func(t *testing.T) {
		err := s.DeleteComment(createUserContext(author.ID), p.ID, c.ID)
		assert.ErrorIs(t, err, storage.ErrForbidden)
	})

	t.Run("Delete by author", func(t *testing.T) {
		err := s.DeleteComment(createUserContext(reader.ID), p.ID, c.ID)
		require.NoError(t, err)

		_, err = s.GetComment(context.Background(), p.ID, c.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
