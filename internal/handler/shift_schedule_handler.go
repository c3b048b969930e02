package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// ScheduleHandler exposes shift schedule endpoints.
type ScheduleHandler struct {
	service service.ScheduleService
	logger  zerolog.Logger
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger.With().Str("component", "schedule_handler").Logger(),
	}
}

// Register wires schedule routes.
func (h *ScheduleHandler) Register(router fiber.Router) {
	manager := middleware.RequireRole(permission.Manager)
	router.Get("/shift-schedules", h.list)
	router.Get("/shift-schedules/:id", h.get)
	router.Post("/shift-schedules", manager, h.create)
	router.Put("/shift-schedules/:id", manager, h.update)
	router.Delete("/shift-schedules/:id", manager, h.delete)
}

func (h *ScheduleHandler) list(c *fiber.Ctx) error {
	venueID, err := parseOptionalUint(c, "venueId")
	if err != nil {
		return invalidID(c, "venue")
	}
	schedules, err := h.service.List(c.UserContext(), venueID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, schedules)
}

func (h *ScheduleHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "schedule")
	}
	schedule, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, schedule)
}

func (h *ScheduleHandler) create(c *fiber.Ctx) error {
	var payload dto.ScheduleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	schedule, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, schedule)
}

func (h *ScheduleHandler) update(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "schedule")
	}
	var payload dto.ScheduleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	schedule, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, schedule)
}

func (h *ScheduleHandler) delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "schedule")
	}
	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendNoContent(c)
}
