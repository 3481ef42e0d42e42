package server

import (
	"io"

	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// recipeListItem is the list shape: attributes appear as id arrays.
type recipeListItem struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
}

// recipeDetail is the detail shape: attributes are nested objects and the
// image URL is included.
type recipeDetail struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       float64             `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
	Image       string              `json:"image"`
}

type recipeRequest struct {
	Title         *string  `json:"title"`
	TimeMinutes   *int     `json:"time_minutes"`
	Price         *float64 `json:"price"`
	Link          *string  `json:"link"`
	TagIDs        *[]uint  `json:"tags"`
	IngredientIDs *[]uint  `json:"ingredients"`
}

func (s *Server) recipeListResponse(recipes []models.Recipe) []recipeListItem {
	items := make([]recipeListItem, 0, len(recipes))
	for _, r := range recipes {
		tagIDs := make([]uint, 0, len(r.Tags))
		for _, t := range r.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
		ingredientIDs := make([]uint, 0, len(r.Ingredients))
		for _, i := range r.Ingredients {
			ingredientIDs = append(ingredientIDs, i.ID)
		}
		items = append(items, recipeListItem{
			ID:          r.ID,
			Title:       r.Title,
			TimeMinutes: r.TimeMinutes,
			Price:       r.Price,
			Link:        r.Link,
			Tags:        tagIDs,
			Ingredients: ingredientIDs,
		})
	}
	return items
}

func (s *Server) recipeDetailResponse(r *models.Recipe) recipeDetail {
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return recipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
		Image:       s.recipeSvc().ImageURL(r),
	}
}

// GetRecipes handles GET /recipe/recipes
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	recipes, err := s.recipeSvc().List(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(s.recipeListResponse(recipes))
}

// CreateRecipe handles POST /recipe/recipes
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateRecipeInput{UserID: userID}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		in.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Link != nil {
		in.Link = *req.Link
	}
	if req.TagIDs != nil {
		in.TagIDs = *req.TagIDs
	}
	if req.IngredientIDs != nil {
		in.IngredientIDs = *req.IngredientIDs
	}

	recipe, err := s.recipeSvc().Create(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.recipeDetailResponse(recipe))
}

// GetRecipe handles GET /recipe/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeSvc().Get(c.UserContext(), id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(s.recipeDetailResponse(recipe))
}

// UpdateRecipe handles PUT /recipe/recipes/:id. Attribute sets omitted from
// the payload are cleared.
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	return s.updateRecipe(c, false)
}

// PatchRecipe handles PATCH /recipe/recipes/:id. Omitted fields are left
// untouched.
func (s *Server) PatchRecipe(c *fiber.Ctx) error {
	return s.updateRecipe(c, true)
}

func (s *Server) updateRecipe(c *fiber.Ctx, partial bool) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeSvc().Update(c.UserContext(), service.UpdateRecipeInput{
		UserID:        userID,
		RecipeID:      id,
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
		Partial:       partial,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(s.recipeDetailResponse(recipe))
}

// DeleteRecipe handles DELETE /recipe/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeSvc().Delete(c.UserContext(), id, userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadRecipeImage handles POST /recipe/recipes/:id/upload-image
func (s *Server) UploadRecipeImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("image", "No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("image", "Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("image", "Unable to read uploaded file"))
	}

	recipe, err := s.recipeSvc().UploadImage(c.UserContext(), id, userID, content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"id":    recipe.ID,
		"image": s.recipeSvc().ImageURL(recipe),
	})
}
