package user

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type UserStorage interface {
	RegisterUser(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateProfile меняет имя, фамилию, username и email текущего пользователя
	UpdateProfile(ctx context.Context, profile *models.User) (*models.User, error)
}
