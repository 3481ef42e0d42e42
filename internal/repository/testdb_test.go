package repository

import (
	"fmt"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	))
	return db
}

var testUserSeq int

// createTestUser persists a user with a unique email.
func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	testUserSeq++
	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Password: "hashed-password",
		Name:     "Test User",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestRecipe(t *testing.T, db *gorm.DB, userID uint, title string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:       title,
		TimeMinutes: 10,
		Price:       5.50,
		UserID:      userID,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
