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

// IncidentHandler exposes incident reporting and review endpoints.
type IncidentHandler struct {
	service service.IncidentService
	logger  zerolog.Logger
}

// NewIncidentHandler constructs the handler.
func NewIncidentHandler(service service.IncidentService, logger zerolog.Logger) *IncidentHandler {
	return &IncidentHandler{
		service: service,
		logger:  logger.With().Str("component", "incident_handler").Logger(),
	}
}

// Register wires incident routes.
func (h *IncidentHandler) Register(router fiber.Router) {
	router.Get("/incidents", h.list)
	router.Get("/incidents/status/:status", h.listByStatus)
	router.Get("/incidents/user/:userId", h.listByUser)
	router.Get("/incidents/:id", h.get)
	router.Post("/incidents", h.create)
	router.Put("/incidents/:id", middleware.RequireRole(permission.Security), h.update)
	router.Delete("/incidents/:id", middleware.RequireRole(permission.Manager), h.delete)
	router.Post("/incidents/:id/approve",
		middleware.RequireRoleMessage(permission.Manager, "Not authorized. Only admin or manager can approve incidents."), h.approve)
	router.Post("/incidents/:id/reject",
		middleware.RequireRoleMessage(permission.Manager, "Not authorized. Only admin or manager can reject incidents."), h.reject)
}

func (h *IncidentHandler) list(c *fiber.Ctx) error {
	venueID, err := parseOptionalUint(c, "venueId")
	if err != nil {
		return invalidID(c, "venue")
	}
	userID, err := parseOptionalUint(c, "userId")
	if err != nil {
		return invalidID(c, "user")
	}

	incidents, err := h.service.List(c.UserContext(), dto.IncidentListQuery{
		VenueID: venueID,
		Status:  c.Query("status"),
		UserID:  userID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incidents)
}

func (h *IncidentHandler) listByStatus(c *fiber.Ctx) error {
	incidents, err := h.service.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incidents)
}

func (h *IncidentHandler) listByUser(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return invalidID(c, "user")
	}
	incidents, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incidents)
}

func (h *IncidentHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "incident")
	}
	incident, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) create(c *fiber.Ctx) error {
	var payload dto.IncidentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	incident, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, incident)
}

func (h *IncidentHandler) update(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "incident")
	}
	var payload dto.IncidentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	incident, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "incident")
	}
	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendNoContent(c)
}

func (h *IncidentHandler) approve(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "incident")
	}
	var payload dto.IncidentReviewRequest
	if err := bindBody(c, &payload); err != nil {
		return invalidBody(c)
	}
	incident, err := h.service.Approve(c.UserContext(), actorFromContext(c), id, payload.Notes)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) reject(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "incident")
	}
	var payload dto.IncidentReviewRequest
	if err := bindBody(c, &payload); err != nil {
		return invalidBody(c)
	}
	notes := ""
	if payload.Notes != nil {
		notes = *payload.Notes
	}
	incident, err := h.service.Reject(c.UserContext(), actorFromContext(c), id, notes)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, incident)
}
