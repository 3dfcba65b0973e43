package middleware

import (
	"assixx/internal/common/models"
	"assixx/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    models.CodeUnauthorized,
			"message": message,
		},
	})
}

// AuthMiddleware validates JWT tokens and injects user claims into both
// fiber Locals and the request context (services read them from there).
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Inject dummy context for dev
			dummyClaims := &utils.UserClaims{
				UserID:   1,
				TenantID: 1,
				Role:     string(models.RoleRoot),
			}
			c.Locals(utils.UserClaimsKey, dummyClaims)
			c.SetUserContext(utils.WithClaims(c.UserContext(), dummyClaims))
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header required")
		}

		// Extract token from "Bearer <token>"
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return unauthorized(c, "Invalid authorization header format")
		}

		token := authHeader[7:]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		c.Locals(utils.UserClaimsKey, claims)
		c.SetUserContext(utils.WithClaims(c.UserContext(), claims))
		return c.Next()
	}
}

// Claims pulls the authenticated principal out of fiber Locals.
func Claims(c *fiber.Ctx) (*utils.UserClaims, bool) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims, ok
}
