package repository

import (
	"context"
	"errors"
	"fmt"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// AttributeRepository is the shared persistence contract for recipe
// attributes (tags and ingredients). Both kinds behave identically apart
// from table names, so one generic implementation serves both.
type AttributeRepository[T any] interface {
	// List returns the user's attributes ordered by name descending.
	// With assignedOnly, only attributes referenced by at least one of the
	// user's recipes are returned, deduplicated.
	List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error)
	GetByID(ctx context.Context, id, userID uint) (*T, error)
	Create(ctx context.Context, attr *T) error
	Update(ctx context.Context, attr *T) error
	// Delete removes the attribute and detaches it from any recipes.
	Delete(ctx context.Context, id, userID uint) error
	// CountOwned reports how many of the given ids belong to the user.
	CountOwned(ctx context.Context, ids []uint, userID uint) (int64, error)
}

type attributeRepository[T any] struct {
	db        *gorm.DB
	kind      string
	table     string
	joinTable string
	joinFK    string
}

// NewTagRepository returns the tag-backed AttributeRepository.
func NewTagRepository(db *gorm.DB) AttributeRepository[models.Tag] {
	return &attributeRepository[models.Tag]{
		db:        db,
		kind:      "Tag",
		table:     "tags",
		joinTable: "recipe_tags",
		joinFK:    "tag_id",
	}
}

// NewIngredientRepository returns the ingredient-backed AttributeRepository.
func NewIngredientRepository(db *gorm.DB) AttributeRepository[models.Ingredient] {
	return &attributeRepository[models.Ingredient]{
		db:        db,
		kind:      "Ingredient",
		table:     "ingredients",
		joinTable: "recipe_ingredients",
		joinFK:    "ingredient_id",
	}
}

func (r *attributeRepository[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T)).
		Where(r.table+".user_id = ?", userID)

	if assignedOnly {
		q = q.Distinct(r.table+".*").
			Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", r.joinTable, r.joinTable, r.joinFK, r.table)).
			Joins(fmt.Sprintf("JOIN recipes ON recipes.id = %s.recipe_id", r.joinTable)).
			Where("recipes.user_id = ?", userID)
	}

	var attrs []T
	if err := q.Order(r.table + ".name DESC").Find(&attrs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return attrs, nil
}

func (r *attributeRepository[T]) GetByID(ctx context.Context, id, userID uint) (*T, error) {
	var attr T
	err := r.db.WithContext(ctx).
		Where(r.table+".id = ? AND "+r.table+".user_id = ?", id, userID).
		First(&attr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(r.kind, id)
		}
		return nil, models.NewInternalError(err)
	}
	return &attr, nil
}

func (r *attributeRepository[T]) Create(ctx context.Context, attr *T) error {
	if err := r.db.WithContext(ctx).Create(attr).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *attributeRepository[T]) Update(ctx context.Context, attr *T) error {
	if err := r.db.WithContext(ctx).Save(attr).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *attributeRepository[T]) Delete(ctx context.Context, id, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(r.table+".id = ? AND "+r.table+".user_id = ?", id, userID).Delete(new(T))
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError(r.kind, id)
		}
		// Detach from recipes; the join row is owned by neither side.
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.joinTable, r.joinFK), id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

func (r *attributeRepository[T]) CountOwned(ctx context.Context, ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.table+".id IN ? AND "+r.table+".user_id = ?", ids, userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
