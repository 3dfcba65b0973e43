package middleware

import (
	"assixx/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    models.CodeForbidden,
			"message": message,
		},
	})
}

// RootOnly restricts a route to the tenant root account.
func RootOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		if models.Role(claims.Role) != models.RoleRoot {
			return forbidden(c, "Root role required")
		}
		return c.Next()
	}
}

// AdminOrRoot restricts a route to admins and root.
func AdminOrRoot() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		role := models.Role(claims.Role)
		if role != models.RoleRoot && role != models.RoleAdmin {
			return forbidden(c, "Admin role required")
		}
		return c.Next()
	}
}
