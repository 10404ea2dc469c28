// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"vendora/internal/models"
	"vendora/internal/services/auth"
	"vendora/internal/utils"
)

// Auth validates the Bearer token and stores the claims in c.Locals
// under "claims". The token's version must match the user's current
// version, so a logout invalidates every token minted before it.
func Auth(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.Unauthorized(c, "invalid authorization format")
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return utils.Unauthorized(c, "invalid token")
		}

		currentVersion, err := authService.TokenVersion(c.Context(), claims.UserID)
		if err != nil {
			log.Printf("token version lookup failed for user %d: %v", claims.UserID, err)
			return utils.Unauthorized(c, "invalid token")
		}
		if claims.TokenVersion != currentVersion {
			return utils.Unauthorized(c, "session expired")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// RequireRole rejects requests whose claims do not carry the role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok || claims == nil {
			return utils.Unauthorized(c, "invalid claims")
		}
		if claims.Role != role {
			return utils.Forbidden(c, "insufficient permissions")
		}
		return c.Next()
	}
}

// Claims extracts the authenticated claims from the request context.
func Claims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}
