package server

import (
	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Tag and ingredient endpoints share one generic implementation; fiber
// handlers must be methods, so thin wrappers below bind each route to its
// service.

func listAttributes[T any](s *Server, c *fiber.Ctx, svc *service.AttributeService[T]) error {
	userID := c.Locals("userID").(uint)
	assignedOnly := c.QueryBool("assigned_only", false)

	attrs, err := svc.List(c.UserContext(), userID, assignedOnly)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(attrs)
}

func createAttribute[T any](s *Server, c *fiber.Ctx, svc *service.AttributeService[T]) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	attr, err := svc.Create(c.UserContext(), userID, req.Name)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(attr)
}

func getAttribute[T any](s *Server, c *fiber.Ctx, svc *service.AttributeService[T]) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	attr, err := svc.Get(c.UserContext(), id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(attr)
}

func updateAttribute[T any](s *Server, c *fiber.Ctx, svc *service.AttributeService[T]) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	attr, err := svc.Rename(c.UserContext(), id, userID, req.Name)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(attr)
}

func deleteAttribute[T any](s *Server, c *fiber.Ctx, svc *service.AttributeService[T]) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := svc.Delete(c.UserContext(), id, userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTags handles GET /recipe/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	return listAttributes(s, c, s.tagSvc())
}

// CreateTag handles POST /recipe/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	return createAttribute(s, c, s.tagSvc())
}

// GetTag handles GET /recipe/tags/:id
func (s *Server) GetTag(c *fiber.Ctx) error {
	return getAttribute(s, c, s.tagSvc())
}

// UpdateTag handles PATCH /recipe/tags/:id
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	return updateAttribute(s, c, s.tagSvc())
}

// DeleteTag handles DELETE /recipe/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	return deleteAttribute(s, c, s.tagSvc())
}

// GetIngredients handles GET /recipe/ingredients
func (s *Server) GetIngredients(c *fiber.Ctx) error {
	return listAttributes(s, c, s.ingredientSvc())
}

// CreateIngredient handles POST /recipe/ingredients
func (s *Server) CreateIngredient(c *fiber.Ctx) error {
	return createAttribute(s, c, s.ingredientSvc())
}

// GetIngredient handles GET /recipe/ingredients/:id
func (s *Server) GetIngredient(c *fiber.Ctx) error {
	return getAttribute(s, c, s.ingredientSvc())
}

// UpdateIngredient handles PATCH /recipe/ingredients/:id
func (s *Server) UpdateIngredient(c *fiber.Ctx) error {
	return updateAttribute(s, c, s.ingredientSvc())
}

// DeleteIngredient handles DELETE /recipe/ingredients/:id
func (s *Server) DeleteIngredient(c *fiber.Ctx) error {
	return deleteAttribute(s, c, s.ingredientSvc())
}
