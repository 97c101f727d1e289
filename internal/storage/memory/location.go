package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

type LocationMemoryStorage struct {
	mu        sync.Mutex
	locations map[uint]*models.Location
	nextID    uint
}

func NewLocationMemoryStorage() *LocationMemoryStorage {
	return &LocationMemoryStorage{
		locations: make(map[uint]*models.Location),
		nextID:    1,
	}
}

func (s *LocationMemoryStorage) CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *location
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.nextID++
	s.locations[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (s *LocationMemoryStorage) GetLocationByID(ctx context.Context, id uint) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.locations[id]
	if !exists {
		return nil, fmt.Errorf("location %d: %w", id, storage.ErrNotFound)
	}

	result := *l
	return &result, nil
}

func (s *LocationMemoryStorage) ListLocations(ctx context.Context, publishedOnly bool) ([]*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	locations := make([]*models.Location, 0, len(s.locations))
	for _, l := range s.locations {
		if publishedOnly && !l.IsPublished {
			continue
		}
		result := *l
		locations = append(locations, &result)
	}

	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})
	return locations, nil
}
