package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// SignInHandler exposes security shift sign-in endpoints.
type SignInHandler struct {
	service service.SignInService
	logger  zerolog.Logger
}

// NewSignInHandler constructs the handler.
func NewSignInHandler(service service.SignInService, logger zerolog.Logger) *SignInHandler {
	return &SignInHandler{
		service: service,
		logger:  logger.With().Str("component", "sign_in_handler").Logger(),
	}
}

// Register wires sign-in routes. Every route requires the security role.
func (h *SignInHandler) Register(router fiber.Router) {
	security := middleware.RequireRole(permission.Security)
	router.Get("/security-sign-ins", security, h.list)
	router.Get("/security-sign-ins/:id", security, h.get)
	router.Post("/security-sign-ins", security, h.create)
	router.Put("/security-sign-ins/:id", security, h.update)
	router.Post("/security-sign-ins/:id/sign-out", security, h.signOut)
}

func (h *SignInHandler) list(c *fiber.Ctx) error {
	venueID, err := parseOptionalUint(c, "venueId")
	if err != nil {
		return invalidID(c, "venue")
	}

	signIns, err := h.service.List(c.UserContext(), dto.SignInListQuery{
		VenueID:    venueID,
		ActiveOnly: strings.EqualFold(c.Query("active"), "true"),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, signIns)
}

func (h *SignInHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "sign-in")
	}
	signIn, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, signIn)
}

func (h *SignInHandler) create(c *fiber.Ctx) error {
	var payload dto.SignInCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	signIn, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, signIn)
}

func (h *SignInHandler) update(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "sign-in")
	}
	var payload dto.SignInUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	signIn, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, signIn)
}

func (h *SignInHandler) signOut(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c, "sign-in")
	}
	var payload dto.SignOutRequest
	if err := bindBody(c, &payload); err != nil {
		return invalidBody(c)
	}
	signIn, err := h.service.SignOut(c.UserContext(), actorFromContext(c), id, payload.TimeOut)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, signIn)
}
