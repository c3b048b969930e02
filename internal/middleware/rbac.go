package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// RequireRole ensures the authenticated user's rank is at least min. It must
// run after SessionAuth.
func RequireRole(min permission.Role) fiber.Handler {
	return requireRank(min, "Insufficient permissions")
}

// RequireRoleMessage is RequireRole with a route specific denial message.
func RequireRoleMessage(min permission.Role, denied string) fiber.Handler {
	return requireRank(min, denied)
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin() fiber.Handler {
	return requireRank(permission.Admin, service.ErrAdminRequired.Error())
}

func requireRank(min permission.Role, denied string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localUserRole).(permission.Role)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, service.ErrUnauthenticated.Error())
		}
		if !permission.Allows(role, min) {
			return utils.SendError(c, fiber.StatusForbidden, denied)
		}
		return c.Next()
	}
}
