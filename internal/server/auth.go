package server

import (
	"context"
	"strings"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// TokenRequired returns the authentication middleware. Clients authenticate
// with an "Authorization: Token <key>" header; the key is resolved to its
// owning user through the token repository. Lookups are cached, so deleting
// a token row revokes access once the cached entry expires (TokenTTL) or is
// invalidated with cache.InvalidateToken.
func (s *Server) TokenRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := tokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			observability.AuthFailures.WithLabelValues("missing_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided"))
		}

		token, err := s.tokenRepo.GetByKey(c.UserContext(), key)
		if err != nil {
			observability.AuthFailures.WithLabelValues("invalid_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", token.UserID)
		// Sync to UserContext for logging and downstream services.
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, token.UserID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// tokenFromHeader extracts the key from an "Authorization: Token <key>"
// header value.
func tokenFromHeader(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Token" {
		return "", false
	}
	key := strings.TrimSpace(parts[1])
	if key == "" {
		return "", false
	}
	return key, true
}
