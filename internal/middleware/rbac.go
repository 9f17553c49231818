package middleware

import (
	"slices"

	"khesed-tek/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	RoleAdmin      = "ADMIN"
	RolePastor     = "PASTOR"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// RequireRole lets the request through when the user holds any of the roles
func RequireRole(skipAuth bool, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range claims.Roles {
			if slices.Contains(roles, role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
