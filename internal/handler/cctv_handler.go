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

// CctvHandler exposes camera registry and check endpoints.
type CctvHandler struct {
	service service.CctvService
	logger  zerolog.Logger
}

// NewCctvHandler constructs the handler.
func NewCctvHandler(service service.CctvService, logger zerolog.Logger) *CctvHandler {
	return &CctvHandler{
		service: service,
		logger:  logger.With().Str("component", "cctv_handler").Logger(),
	}
}

// Register wires camera and check routes.
func (h *CctvHandler) Register(router fiber.Router) {
	security := middleware.RequireRole(permission.Security)
	manager := middleware.RequireRole(permission.Manager)

	router.Get("/cctv/cameras", security, h.listCameras)
	router.Get("/cctv/cameras/:id", security, h.getCamera)
	router.Post("/cctv/cameras", manager, h.createCamera)
	router.Put("/cctv/cameras/:id", manager, h.updateCamera)
	router.Delete("/cctv/cameras/:id", manager, h.deleteCamera)

	router.Get("/cctv/checks", security, h.listChecks)
	router.Get("/cctv/checks/:id", security, h.getCheck)
	router.Post("/cctv/checks", security, h.createCheck)
	router.Post("/cctv/checks/:id/resolve", security, h.resolve)
}

func (h *CctvHandler) listCameras(c *fiber.Ctx) error {
	venueID, err := parseOptionalUint(c, "venueId")
	if err != nil {
		return invalidID(c, "venue")
	}
	cameras, err := h.service.ListCameras(c.UserContext(), venueID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, cameras)
}

func (h *CctvHandler) getCamera(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "camera")
	}
	camera, err := h.service.GetCamera(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, camera)
}

func (h *CctvHandler) createCamera(c *fiber.Ctx) error {
	var payload dto.CameraCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	camera, err := h.service.CreateCamera(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, camera)
}

func (h *CctvHandler) updateCamera(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "camera")
	}
	var payload dto.CameraUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	camera, err := h.service.UpdateCamera(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, camera)
}

func (h *CctvHandler) deleteCamera(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "camera")
	}
	if err := h.service.DeleteCamera(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendNoContent(c)
}

func (h *CctvHandler) listChecks(c *fiber.Ctx) error {
	venueID, err := parseOptionalUint(c, "venueId")
	if err != nil {
		return invalidID(c, "venue")
	}
	cameraID, err := parseOptionalUint(c, "cameraId")
	if err != nil {
		return invalidID(c, "camera")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid limit")
	}

	checks, err := h.service.ListChecks(c.UserContext(), dto.CheckListQuery{
		VenueID:  venueID,
		CameraID: cameraID,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, checks)
}

func (h *CctvHandler) getCheck(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "check")
	}
	check, err := h.service.GetCheck(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, check)
}

func (h *CctvHandler) createCheck(c *fiber.Ctx) error {
	var payload dto.CheckCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	check, err := h.service.CreateCheck(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, check)
}

func (h *CctvHandler) resolve(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "check")
	}
	var payload dto.CheckResolveRequest
	if err := bindBody(c, &payload); err != nil {
		return invalidBody(c)
	}
	check, err := h.service.Resolve(c.UserContext(), actorFromContext(c), id, payload.ActionTaken)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, check)
}
