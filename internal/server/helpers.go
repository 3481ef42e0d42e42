package server

import (
	"errors"

	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// mapServiceError translates an AppError code into its HTTP status.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "METHOD_NOT_ALLOWED":
		return fiber.StatusMethodNotAllowed
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) userSvc() *service.UserService {
	if s.userService == nil {
		s.userService = service.NewUserService(s.userRepo, s.tokenRepo, s.config.PasswordMinLength)
	}
	return s.userService
}

func (s *Server) tagSvc() *service.AttributeService[models.Tag] {
	if s.tagService == nil {
		s.tagService = service.NewTagService(s.tagRepo)
	}
	return s.tagService
}

func (s *Server) ingredientSvc() *service.AttributeService[models.Ingredient] {
	if s.ingredientService == nil {
		s.ingredientService = service.NewIngredientService(s.ingredientRepo)
	}
	return s.ingredientService
}

func (s *Server) recipeSvc() *service.RecipeService {
	if s.recipeService == nil {
		if s.imageStore == nil && s.config != nil {
			s.imageStore = service.NewImageStore(s.config)
		}
		s.recipeService = service.NewRecipeService(s.recipeRepo, s.tagRepo, s.ingredientRepo, s.imageStore)
	}
	return s.recipeService
}
