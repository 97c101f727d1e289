package comment

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error)
	// GetComment находит комментарий только если он относится к посту postID
	GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	GetComments(ctx context.Context, postID uint) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID uint, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID uint) error
	CountComments(ctx context.Context, postIDs []uint) (map[uint]int, error)
}
