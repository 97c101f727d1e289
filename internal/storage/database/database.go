package database

import (
	"errors"
	"fmt"
	"os"

	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/VitaminP8/blogicum/internal/logger"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// PostgresDSN берет DATABASE_URL, а если его нет - собирает DSN из DB_*
func PostgresDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetEnv("DB_HOST"),
		config.GetEnv("DB_USER"),
		config.GetEnv("DB_PASSWORD"),
		config.GetEnv("DB_NAME"),
		config.GetEnvDefault("DB_PORT", "5432"),
		config.GetEnvDefault("DB_SSLMODE", "disable"),
	)
}

// Open подключается к базе ("postgres" или "sqlite3") и выполняет миграции
func Open(dialect, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if dialect == "sqlite3" {
		// одно соединение: sqlite не любит параллельную запись, а ":memory:"
		// у каждого соединения свой
		db.DB().SetMaxOpenConns(1)
		db.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info.Printf("Successfully connected to the %s database.", dialect)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой данных
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	err := db.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	logger.Info.Println("Database connection closed.")
	return nil
}

// notFound переводит gorm.ErrRecordNotFound в storage.ErrNotFound
func notFound(err error, what string) error {
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return fmt.Errorf("could not get %s: %w", what, err)
}

// isUniqueViolation - нарушен уникальный индекс. Предварительная проверка
// не спасает от гонки двух запросов и не видит мягко удаленные записи.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
