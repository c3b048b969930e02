package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

const (
	defaultActivityPageSize = 50
	maxActivityPageSize     = 200
)

// ActivityHandler exposes the audit trail to managers.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the audit trail route.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activity-logs", middleware.RequireRole(permission.Manager), h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	actorID, err := parseOptionalUint(c, "actorId")
	if err != nil {
		return invalidID(c, "actor")
	}
	entityID, err := parseOptionalUint(c, "entityId")
	if err != nil {
		return invalidID(c, "entity")
	}
	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil || pageSize < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid page size")
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultActivityPageSize
	}
	if pageSize > maxActivityPageSize {
		pageSize = maxActivityPageSize
	}

	entries, total, err := h.service.List(c.UserContext(), repository.ActivityLogFilter{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    actorID,
		Action:     strings.ToLower(strings.TrimSpace(c.Query("action"))),
		EntityType: strings.ToLower(strings.TrimSpace(c.Query("entityType"))),
		EntityID:   entityID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, dto.ActivityLogPage{
		Items:    entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
