package middleware

import (
	"strings"

	"schoolrec/internal/config"
	"schoolrec/internal/pkg/jwt"
	"schoolrec/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware is the request-authentication gate: it verifies the
// bearer token's signature and expiry and exposes the session claims to
// downstream handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		claims, err := jwt.ValidateSessionToken(token, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Session token expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		c.Locals("principalID", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("isAdmin", claims.IsAdmin)

		return c.Next()
	}
}

// AdminOnly allows only principals carrying the admin flag
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !isAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}
