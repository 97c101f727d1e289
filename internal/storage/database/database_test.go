package database

import (
	"testing"

	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, model := range []interface{}{
		&models.User{}, &models.Category{}, &models.Location{}, &models.Post{}, &models.Comment{},
	} {
		assert.True(t, db.HasTable(model))
	}
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open("nosuchdb", "whatever")
	assert.Error(t, err)
}

// Тест для проверки поведения Close с nil-базой данных
func TestCloseWithNilDB(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestPostgresDSN(t *testing.T) {
	t.Run("DATABASE_URL wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://u:p@localhost/blog")
		assert.Equal(t, "postgres://u:p@localhost/blog", PostgresDSN())
	})

	t.Run("Built from parts", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_USER", "blog")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_NAME", "blogicum")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_SSLMODE", "")
		require.Equal(t,
			"host=db user=blog password=secret dbname=blogicum port=5432 sslmode=disable",
			PostgresDSN())
	})
}
