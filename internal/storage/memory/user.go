package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"

	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	byUsername map[string]uint
	nextID     uint
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:      make(map[uint]*models.User),
		byUsername: make(map[string]uint),
		nextID:     1,
	}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.nextID++

	s.users[user.ID] = user
	s.byUsername[username] = user.ID

	result := *user
	return &result, nil
}

func (s *UserMemoryStorage) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	id, exists := s.byUsername[username]
	var user models.User
	if exists {
		user = *s.users[id]
	}
	s.mu.Unlock()

	if !exists {
		return nil, storage.ErrInvalidLogin
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, storage.ErrInvalidLogin
	}

	return &user, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}

	result := *user
	return &result, nil
}

func (s *UserMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byUsername[username]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
	}

	result := *s.users[id]
	return &result, nil
}

func (s *UserMemoryStorage) UpdateProfile(ctx context.Context, profile *models.User) (*models.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, storage.ErrNotFound)
	}

	if owner, taken := s.byUsername[profile.Username]; taken && owner != userID {
		return nil, fmt.Errorf("user %s: %w", profile.Username, storage.ErrAlreadyExists)
	}

	delete(s.byUsername, user.Username)
	user.Username = profile.Username
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.Email = profile.Email
	user.UpdatedAt = time.Now()
	s.byUsername[user.Username] = userID

	result := *user
	return &result, nil
}
