package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// Permissions reports the caller's role and the pages it may open.
func Permissions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFromContext(c)
		return utils.SendJSON(c, fiber.StatusOK, dto.PermissionsResponse{
			Role:  string(actor.Role),
			Rank:  permission.Rank(actor.Role),
			Pages: permission.VisiblePages(actor.Role),
		})
	}
}
