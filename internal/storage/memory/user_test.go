package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMemoryStorage_RegisterUser(t *testing.T) {
	s := NewUserMemoryStorage()
	ctx := context.Background()

	t.Run("Success registration", func(t *testing.T) {
		u, err := s.RegisterUser(ctx, "ivan", "ivan@example.com", "password123")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "ivan", u.Username)
		assert.NotEqual(t, "password123", u.Password, "password must be hashed")
	})

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := s.RegisterUser(ctx, "ivan", "other@example.com", "password123")
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestUserMemoryStorage_Authenticate(t *testing.T) {
	s := NewUserMemoryStorage()
	ctx := context.Background()
	_, err := s.RegisterUser(ctx, "ivan", "ivan@example.com", "password123")
	require.NoError(t, err)

	t.Run("Correct password", func(t *testing.T) {
		u, err := s.Authenticate(ctx, "ivan", "password123")
		require.NoError(t, err)
		assert.Equal(t, "ivan", u.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "ivan", "wrong")
		assert.ErrorIs(t, err, storage.ErrInvalidLogin)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "petr", "password123")
		assert.ErrorIs(t, err, storage.ErrInvalidLogin)
	})
}

func TestUserMemoryStorage_UpdateProfile(t *testing.T) {
	s := NewUserMemoryStorage()
	ctx := context.Background()
	ivan, err := s.RegisterUser(ctx, "ivan", "", "password123")
	require.NoError(t, err)
	_, err = s.RegisterUser(ctx, "petr", "", "password123")
	require.NoError(t, err)

	t.Run("Rename and fill names", func(t *testing.T) {
		updated, err := s.UpdateProfile(createUserContext(ivan.ID), &models.User{
			Username:  "ivan2",
			FirstName: "Ivan",
			LastName:  "Ivanov",
			Email:     "ivan@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "ivan2", updated.Username)
		assert.Equal(t, "Ivan", updated.FirstName)

		_, err = s.GetUserByUsername(ctx, "ivan")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		byName, err := s.GetUserByUsername(ctx, "ivan2")
		require.NoError(t, err)
		assert.Equal(t, ivan.ID, byName.ID)
	})

	t.Run("Taken username", func(t *testing.T) {
		_, err := s.UpdateProfile(createUserContext(ivan.ID), &models.User{Username: "petr"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Keep own username", func(t *testing.T) {
		_, err := s.UpdateProfile(createUserContext(ivan.ID), &models.User{Username: "ivan2"})
		assert.NoError(t, err)
	})

	t.Run("No authorization", func(t *testing.T) {
		_, err := s.UpdateProfile(ctx, &models.User{Username: "x"})
		assert.ErrorIs(t, err, storage.ErrUnauthorized)
	})
}

func TestUserMemoryStorage_ConcurrentRegistration(t *testing.T) {
	s := NewUserMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RegisterUser(ctx, "same", "", "password123")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}
