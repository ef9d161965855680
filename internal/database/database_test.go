package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBName:   filepath.Join(t.TempDir(), "foodgram.db"),
		LogLevel: "off",
	}
	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestNewSQLiteAndMigrate(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RunMigrations(db, "unused"))

	for _, table := range []string{"users", "follows", "ingredients", "tags", "recipes",
		"recipe_ingredients", "recipe_tags", "favorites", "shopping_carts"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestIsUniqueViolation(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RunMigrations(db, "unused"))

	tag := models.Tag{Name: "Dinner", Slug: "dinner", Color: "#8775D2"}
	require.NoError(t, db.Create(&tag).Error)
	err := db.Create(&models.Tag{Name: "Dinner", Slug: "dinner-2", Color: "#8775D2"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsMigrationFile(t *testing.T) {
	assert.True(t, IsMigrationFile("0001_init.sql"))
	assert.False(t, IsMigrationFile("0001_init_rollback.sql"))
	assert.False(t, IsMigrationFile("README.md"))
}
