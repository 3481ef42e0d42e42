package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RecipeService coordinates recipe CRUD, attribute assignment and image
// uploads. All operations act on the caller's own recipes; cross-user ids
// surface as not-found.
type RecipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.AttributeRepository[models.Tag]
	ingredientRepo repository.AttributeRepository[models.Ingredient]
	images         *ImageStore
}

// CreateRecipeInput is the payload for creating a recipe. Tag and
// ingredient ids must reference attributes owned by the same user.
type CreateRecipeInput struct {
	UserID        uint
	Title         string
	TimeMinutes   int
	Price         float64
	Link          string
	TagIDs        []uint
	IngredientIDs []uint
}

// UpdateRecipeInput carries a recipe update. With Partial, nil fields are
// left untouched; otherwise omitted attribute sets are cleared and the
// required fields must all be present.
type UpdateRecipeInput struct {
	UserID        uint
	RecipeID      uint
	Title         *string
	TimeMinutes   *int
	Price         *float64
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
	Partial       bool
}

// NewRecipeService returns a RecipeService wired to its repositories.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.AttributeRepository[models.Tag],
	ingredientRepo repository.AttributeRepository[models.Ingredient],
	images *ImageStore,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
	}
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID uint) ([]models.Recipe, error) {
	return s.recipeRepo.List(ctx, userID)
}

// Get returns one owned recipe with its tags and ingredients.
func (s *RecipeService) Get(ctx context.Context, id, userID uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id, userID)
}

// Create validates and persists a new recipe with its attribute links.
func (s *RecipeService) Create(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateRecipeFields(title, in.TimeMinutes, in.Price); err != nil {
		return nil, err
	}

	tagIDs := dedupeIDs(in.TagIDs)
	ingredientIDs := dedupeIDs(in.IngredientIDs)
	if err := s.verifyOwnedAttributes(ctx, in.UserID, tagIDs, ingredientIDs); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:       title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Link:        in.Link,
		UserID:      in.UserID,
		Tags:        tagsFromIDs(tagIDs),
		Ingredients: ingredientsFromIDs(ingredientIDs),
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, recipe.ID, in.UserID)
}

// Update applies a full or partial update to an owned recipe.
func (s *RecipeService) Update(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, in.RecipeID, in.UserID)
	if err != nil {
		return nil, err
	}

	if !in.Partial {
		if in.Title == nil {
			return nil, models.NewFieldValidationError("title", "Title is required")
		}
		if in.TimeMinutes == nil {
			return nil, models.NewFieldValidationError("time_minutes", "Time in minutes is required")
		}
		if in.Price == nil {
			return nil, models.NewFieldValidationError("price", "Price is required")
		}
	}

	if in.Title != nil {
		recipe.Title = strings.TrimSpace(*in.Title)
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		recipe.Price = *in.Price
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}
	if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price); err != nil {
		return nil, err
	}

	// Full updates reset omitted attribute sets; partial updates only touch
	// sets that were sent.
	tagIDs := in.TagIDs
	ingredientIDs := in.IngredientIDs
	if !in.Partial {
		if tagIDs == nil {
			tagIDs = &[]uint{}
		}
		if ingredientIDs == nil {
			ingredientIDs = &[]uint{}
		}
	}

	var dedupedTags, dedupedIngredients []uint
	if tagIDs != nil {
		dedupedTags = dedupeIDs(*tagIDs)
	}
	if ingredientIDs != nil {
		dedupedIngredients = dedupeIDs(*ingredientIDs)
	}
	if err := s.verifyOwnedAttributes(ctx, in.UserID, dedupedTags, dedupedIngredients); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	if tagIDs != nil {
		if err := s.recipeRepo.ReplaceTags(ctx, recipe, tagsFromIDs(dedupedTags)); err != nil {
			return nil, err
		}
	}
	if ingredientIDs != nil {
		if err := s.recipeRepo.ReplaceIngredients(ctx, recipe, ingredientsFromIDs(dedupedIngredients)); err != nil {
			return nil, err
		}
	}
	return s.recipeRepo.GetByID(ctx, recipe.ID, in.UserID)
}

// Delete removes an owned recipe and its stored image files.
func (s *RecipeService) Delete(ctx context.Context, id, userID uint) error {
	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.recipeRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	if s.images != nil {
		s.images.Remove(recipe.ImagePath)
	}
	return nil
}

// UploadImage stores a new image for an owned recipe, replacing any
// previous one.
func (s *RecipeService) UploadImage(ctx context.Context, id, userID uint, content []byte) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "recipe.upload_image")
	defer span.End()
	span.AddAttributes(attribute.Int("recipe.id", int(id)), attribute.Int("upload.bytes", len(content)))

	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	rel, err := s.images.Save(recipe.ID, content)
	if err != nil {
		span.SetError(err)
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return nil, err
	}

	previous := recipe.ImagePath
	recipe.ImagePath = rel
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		span.SetError(err)
		s.images.Remove(rel)
		return nil, err
	}
	if previous != "" && previous != rel {
		s.images.Remove(previous)
	}

	observability.ImageUploads.WithLabelValues("accepted").Inc()
	return recipe, nil
}

// ImageURL maps a recipe's stored image path to its public URL.
func (s *RecipeService) ImageURL(recipe *models.Recipe) string {
	if s.images == nil {
		return ""
	}
	return s.images.URL(recipe.ImagePath)
}

func (s *RecipeService) verifyOwnedAttributes(ctx context.Context, userID uint, tagIDs, ingredientIDs []uint) error {
	if len(tagIDs) > 0 {
		count, err := s.tagRepo.CountOwned(ctx, tagIDs, userID)
		if err != nil {
			return err
		}
		if count != int64(len(tagIDs)) {
			return models.NewFieldValidationError("tags", "Tags must belong to the authenticated user")
		}
	}
	if len(ingredientIDs) > 0 {
		count, err := s.ingredientRepo.CountOwned(ctx, ingredientIDs, userID)
		if err != nil {
			return err
		}
		if count != int64(len(ingredientIDs)) {
			return models.NewFieldValidationError("ingredients", "Ingredients must belong to the authenticated user")
		}
	}
	return nil
}

func validateRecipeFields(title string, timeMinutes int, price float64) error {
	if title == "" {
		return models.NewFieldValidationError("title", "Title must not be blank")
	}
	if len(title) > 255 {
		return models.NewFieldValidationError("title", "Title must be at most 255 characters")
	}
	if timeMinutes < 0 {
		return models.NewFieldValidationError("time_minutes", "Time in minutes must not be negative")
	}
	if price < 0 {
		return models.NewFieldValidationError("price", "Price must not be negative")
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func tagsFromIDs(ids []uint) []models.Tag {
	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, models.Tag{ID: id})
	}
	return tags
}

func ingredientsFromIDs(ids []uint) []models.Ingredient {
	ingredients := make([]models.Ingredient, 0, len(ids))
	for _, id := range ids {
		ingredients = append(ingredients, models.Ingredient{ID: id})
	}
	return ingredients
}
