package repository

import (
	"context"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestTag(t *testing.T, db *gorm.DB, userID uint, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, UserID: userID}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, userID uint, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, UserID: userID}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func TestAttributeRepositoryListScopedAndOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	bob := createTestUser(t, db)

	createTestTag(t, db, alice.ID, "Dessert")
	createTestTag(t, db, alice.ID, "Vegan")
	createTestTag(t, db, bob.ID, "Breakfast")

	tags, err := repo.List(ctx, alice.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	// Ordered by name descending.
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
}

func TestAttributeRepositoryListAssignedOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)

	assigned := createTestTag(t, db, alice.ID, "Dinner")
	createTestTag(t, db, alice.ID, "Unassigned")

	r1 := createTestRecipe(t, db, alice.ID, "Curry")
	r2 := createTestRecipe(t, db, alice.ID, "Stew")
	require.NoError(t, db.Model(r1).Association("Tags").Append(assigned))
	require.NoError(t, db.Model(r2).Association("Tags").Append(assigned))

	tags, err := repo.List(ctx, alice.ID, true)
	require.NoError(t, err)
	// Assigned to two recipes but returned once.
	require.Len(t, tags, 1)
	assert.Equal(t, "Dinner", tags[0].Name)
}

func TestAttributeRepositoryGetByIDScoped(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	ingredient := createTestIngredient(t, db, alice.ID, "Salt")

	got, err := repo.GetByID(ctx, ingredient.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salt", got.Name)

	// Someone else's ingredient looks missing.
	_, err = repo.GetByID(ctx, ingredient.ID, bob.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestAttributeRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	tag := createTestTag(t, db, alice.ID, "Old")

	tag.Name = "New"
	require.NoError(t, repo.Update(ctx, tag))

	got, err := repo.GetByID(ctx, tag.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

func TestAttributeRepositoryDeleteDetachesFromRecipes(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	tag := createTestTag(t, db, alice.ID, "Dinner")
	recipe := createTestRecipe(t, db, alice.ID, "Curry")
	require.NoError(t, db.Model(recipe).Association("Tags").Append(tag))

	require.NoError(t, repo.Delete(ctx, tag.ID, alice.ID))

	// The recipe survives with the link removed.
	var reloaded models.Recipe
	require.NoError(t, db.Preload("Tags").First(&reloaded, recipe.ID).Error)
	assert.Empty(t, reloaded.Tags)

	var joinCount int64
	require.NoError(t, db.Table("recipe_tags").Where("tag_id = ?", tag.ID).Count(&joinCount).Error)
	assert.Zero(t, joinCount)
}

func TestAttributeRepositoryDeleteScoped(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	tag := createTestTag(t, db, alice.ID, "Dinner")

	err := repo.Delete(ctx, tag.ID, bob.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// Still present for the owner.
	_, err = repo.GetByID(ctx, tag.ID, alice.ID)
	assert.NoError(t, err)
}

func TestAttributeRepositoryCountOwned(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db)
	bob := createTestUser(t, db)
	mine := createTestTag(t, db, alice.ID, "Mine")
	theirs := createTestTag(t, db, bob.ID, "Theirs")

	count, err := repo.CountOwned(ctx, []uint{mine.ID, theirs.ID}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountOwned(ctx, nil, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
