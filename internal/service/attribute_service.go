package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// AttributeService provides the shared list/create/retrieve/rename/delete
// behavior for recipe attributes. Tags and ingredients differ only in their
// backing repository and display kind, so one generic service covers both.
type AttributeService[T any] struct {
	repo   repository.AttributeRepository[T]
	kind   string
	make   func(userID uint, name string) T
	rename func(attr *T, name string)
}

// NewTagService returns the AttributeService for tags.
func NewTagService(repo repository.AttributeRepository[models.Tag]) *AttributeService[models.Tag] {
	return &AttributeService[models.Tag]{
		repo: repo,
		kind: "Tag",
		make: func(userID uint, name string) models.Tag {
			return models.Tag{Name: name, UserID: userID}
		},
		rename: func(attr *models.Tag, name string) { attr.Name = name },
	}
}

// NewIngredientService returns the AttributeService for ingredients.
func NewIngredientService(repo repository.AttributeRepository[models.Ingredient]) *AttributeService[models.Ingredient] {
	return &AttributeService[models.Ingredient]{
		repo: repo,
		kind: "Ingredient",
		make: func(userID uint, name string) models.Ingredient {
			return models.Ingredient{Name: name, UserID: userID}
		},
		rename: func(attr *models.Ingredient, name string) { attr.Name = name },
	}
}

// List returns the caller's attributes, optionally restricted to those
// assigned to at least one of the caller's recipes.
func (s *AttributeService[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	return s.repo.List(ctx, userID, assignedOnly)
}

// Create persists a new attribute owned by the caller. Any owner supplied in
// the payload is ignored.
func (s *AttributeService[T]) Create(ctx context.Context, userID uint, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewFieldValidationError("name", s.kind+" name must not be blank")
	}
	attr := s.make(userID, name)
	if err := s.repo.Create(ctx, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// Get retrieves one owned attribute by id.
func (s *AttributeService[T]) Get(ctx context.Context, id, userID uint) (*T, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Rename changes the attribute's name.
func (s *AttributeService[T]) Rename(ctx context.Context, id, userID uint, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewFieldValidationError("name", s.kind+" name must not be blank")
	}
	attr, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.rename(attr, name)
	if err := s.repo.Update(ctx, attr); err != nil {
		return nil, err
	}
	return attr, nil
}

// Delete removes the attribute and detaches it from the caller's recipes.
func (s *AttributeService[T]) Delete(ctx context.Context, id, userID uint) error {
	return s.repo.Delete(ctx, id, userID)
}
