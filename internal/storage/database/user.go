package database

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogicum/internal/auth"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"

	"golang.org/x/crypto/bcrypt"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := s.db.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not check user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	err = s.db.Create(user).Error
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserStorage) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, storage.ErrInvalidLogin
		}
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, storage.ErrInvalidLogin
	}

	return &user, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &user, nil
}

func (s *UserStorage) UpdateProfile(ctx context.Context, profile *models.User) (*models.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnauthorized, err)
	}

	var user models.User
	err = s.db.First(&user, userID).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", userID))
	}

	var taken int
	err = s.db.Model(&models.User{}).Where("username = ? AND id <> ?", profile.Username, userID).Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("could not check username: %w", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("user %s: %w", profile.Username, storage.ErrAlreadyExists)
	}

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"username":   profile.Username,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"email":      profile.Email,
	}).Error
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("user %s: %w", profile.Username, storage.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("could not update profile: %w", err)
	}

	return &user, nil
}
