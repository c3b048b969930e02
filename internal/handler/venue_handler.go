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

// VenueHandler exposes venue endpoints.
type VenueHandler struct {
	service service.VenueService
	logger  zerolog.Logger
}

// NewVenueHandler constructs the handler.
func NewVenueHandler(service service.VenueService, logger zerolog.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		logger:  logger.With().Str("component", "venue_handler").Logger(),
	}
}

// Register wires venue routes.
func (h *VenueHandler) Register(router fiber.Router) {
	router.Get("/venues", h.list)
	router.Get("/venues/:id", h.get)
	router.Post("/venues", h.create)
	router.Put("/venues/:id", h.update)
	router.Delete("/venues/:id", middleware.RequireRole(permission.Manager), h.delete)
}

func (h *VenueHandler) list(c *fiber.Ctx) error {
	venues, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, venues)
}

func (h *VenueHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "venue")
	}
	venue, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, venue)
}

func (h *VenueHandler) create(c *fiber.Ctx) error {
	var payload dto.VenueCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	venue, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, venue)
}

func (h *VenueHandler) update(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "venue")
	}
	var payload dto.VenueUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	venue, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, venue)
}

func (h *VenueHandler) delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "venue")
	}
	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendNoContent(c)
}
