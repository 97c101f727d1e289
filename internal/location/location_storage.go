package location

import (
	"context"

	"github.com/VitaminP8/blogicum/models"
)

type LocationStorage interface {
	CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error)
	GetLocationByID(ctx context.Context, id uint) (*models.Location, error)
	ListLocations(ctx context.Context, publishedOnly bool) ([]*models.Location, error)
}
