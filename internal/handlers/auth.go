package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"vendora/internal/middleware"
	"vendora/internal/services/auth"
	"vendora/internal/utils"
)

// AuthHandler serves login for the affiliate dashboard and admin back
// office.
type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges credentials for an access/refresh token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "email and password are required")
	}

	user, access, refresh, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		return utils.Unauthorized(c, "invalid credentials")
	}

	return utils.Success(c, fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout bumps the user's token version, invalidating every
// outstanding token pair at once.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if err := h.authService.Logout(c.Context(), claims.UserID); err != nil {
		log.Printf("logout for user %d failed: %v", claims.UserID, err)
		return utils.InternalError(c, "logout failed")
	}
	return utils.Success(c, fiber.Map{"success": true})
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Check returns a static ok payload.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"status": "ok"})
}
