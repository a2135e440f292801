package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studenthub/backend/internal/config"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/pkg/utils"
)

const refreshTokenCookie = "refreshToken"

// attachSession sets both token cookies and writes the success body that
// echoes the user and tokens. Both cookies are HttpOnly; the refresh cookie
// lives exactly as long as the refresh token it carries.
func attachSession(c *fiber.Ctx, cfg config.JWTConfig, status int, user *models.User, pair utils.TokenPair, message string) error {
	now := time.Now()

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Expires:  now.Add(time.Duration(cfg.CookieExpireDays) * 24 * time.Hour),
		HTTPOnly: true,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Expires:  now.Add(cfg.RefreshTTL),
		HTTPOnly: true,
	})

	return c.Status(status).JSON(fiber.Map{
		"success":      true,
		"user":         user,
		"message":      message,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// clearSession overwrites both cookies with empty, already-expired values.
// Logout is stateless; nothing server-side is consulted.
func clearSession(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Expires:  expired,
		HTTPOnly: true,
	})
}
