package main

import (
	"context"
	"errors"

	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
)

// fillWithDemoData создает категории и местоположения, без которых
// нельзя опубликовать пост. Повторный запуск ничего не дублирует.
func fillWithDemoData(s stores) {
	ctx := context.Background()

	categories := []models.Category{
		{Title: "Путешествия", Slug: "travel", Description: "Заметки о поездках.", IsPublished: true},
		{Title: "Не моя Москва", Slug: "moscow", Description: "Город глазами приезжих.", IsPublished: true},
		{Title: "Кулинария", Slug: "cooking", Description: "Рецепты и гастрономия.", IsPublished: true},
		{Title: "Черновики", Slug: "drafts", Description: "Скрытая категория.", IsPublished: false},
	}
	for i := range categories {
		_, err := s.categories.CreateCategory(ctx, &categories[i])
		if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
			logger.Error.Fatalf("fillWithDemoData: failed to create category %s: %v", categories[i].Slug, err)
		}
	}

	existing, err := s.locations.ListLocations(ctx, false)
	if err != nil {
		logger.Error.Fatalf("fillWithDemoData: failed to list locations: %v", err)
	}
	if len(existing) == 0 {
		for _, name := range []string{"Москва", "Санкт-Петербург", "Остров отчаянья"} {
			_, err := s.locations.CreateLocation(ctx, &models.Location{Name: name, IsPublished: true})
			if err != nil {
				logger.Error.Fatalf("fillWithDemoData: failed to create location %s: %v", name, err)
			}
		}
	}

	logger.Info.Println("Демо-данные загружены")
}
