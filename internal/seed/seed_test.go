package seed

import (
	"os"
	"path/filepath"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
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

func TestSeederRun(t *testing.T) {
	db := newSeedTestDB(t)
	opts := Options{
		Users:          2,
		TagsPerUser:    3,
		IngredientsPer: 4,
		RecipesPerUser: 2,
		Password:       "password123",
	}

	require.NoError(t, NewSeeder(db, opts).Run())

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "password123", u.Password)
	}

	var tagCount, ingredientCount, recipeCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredientCount).Error)
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipeCount).Error)
	assert.EqualValues(t, 6, tagCount)
	assert.EqualValues(t, 8, ingredientCount)
	assert.EqualValues(t, 4, recipeCount)

	// Every recipe belongs to its creator and references owned attributes.
	var recipes []models.Recipe
	require.NoError(t, db.Preload("Tags").Preload("Ingredients").Find(&recipes).Error)
	for _, r := range recipes {
		for _, tag := range r.Tags {
			assert.Equal(t, r.UserID, tag.UserID)
		}
		for _, ing := range r.Ingredients {
			assert.Equal(t, r.UserID, ing.UserID)
		}
	}
}

func TestSeederClearAll(t *testing.T) {
	db := newSeedTestDB(t)
	seeder := NewSeeder(db, Options{
		Users: 1, TagsPerUser: 2, IngredientsPer: 2, RecipesPerUser: 1, Password: "password123",
	})
	require.NoError(t, seeder.Run())
	require.NoError(t, seeder.ClearAll())

	for _, model := range []any{&models.User{}, &models.Tag{}, &models.Ingredient{}, &models.Recipe{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte("users: 3\nrecipes_per_user: 1\n"), 0o600))

	opts, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Users)
	assert.Equal(t, 1, opts.RecipesPerUser)
	// Unset fields keep their defaults.
	assert.Equal(t, DefaultOptions().TagsPerUser, opts.TagsPerUser)
	assert.Equal(t, DefaultOptions().Password, opts.Password)
}

func TestLoadPresetRejectsZeroUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte("users: 0\n"), 0o600))

	_, err := LoadPreset(path)
	assert.Error(t, err)
}

func TestLoadPresetMissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
