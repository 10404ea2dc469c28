package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories/memstore"
	"vendora/internal/services/auth"
	"vendora/internal/utils"
)

func TestAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	store := memstore.New()
	user := &models.User{Email: "partner@example.com", Password: "x", Role: models.RoleAffiliate}
	require.NoError(t, store.Users().Create(ctx, user))
	authService := auth.NewService(store)

	app := fiber.New()
	app.Get("/protected", Auth(authService), func(c *fiber.Ctx) error {
		claims, err := Claims(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})

	token := func(t *testing.T, userID uint, version int) string {
		t.Helper()
		access, _, err := utils.GenerateTokens(&models.UserClaims{
			UserID:       userID,
			Email:        user.Email,
			Role:         user.Role,
			TokenVersion: version,
		})
		require.NoError(t, err)
		return access
	}

	request := func(t *testing.T, header string) int {
		t.Helper()
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, request(t, ""))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, request(t, "Token abc"))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, request(t, "Bearer not-a-jwt"))
	})

	t.Run("current token version passes", func(t *testing.T) {
		assert.Equal(t, fiber.StatusOK, request(t, "Bearer "+token(t, user.ID, 0)))
	})

	t.Run("logout invalidates outstanding tokens", func(t *testing.T) {
		stale := token(t, user.ID, 0)
		require.NoError(t, authService.Logout(ctx, user.ID))

		assert.Equal(t, fiber.StatusUnauthorized, request(t, "Bearer "+stale))

		// A token minted after the logout carries the new version.
		assert.Equal(t, fiber.StatusOK, request(t, "Bearer "+token(t, user.ID, 1)))
	})

	t.Run("token for an unknown user is rejected", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, request(t, "Bearer "+token(t, 9999, 0)))
	})
}
