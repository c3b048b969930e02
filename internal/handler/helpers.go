package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

const internalErrorMessage = "Internal server error"

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

// parseOptionalUint reads a positive integer query value; absent values give nil.
func parseOptionalUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(parsed)
	return &id, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	actor, _ := middleware.CurrentActor(c)
	return actor
}

// bindBody decodes an optional JSON body. An empty body leaves dest untouched.
func bindBody(c *fiber.Ctx, dest interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(dest)
}

func invalidBody(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusBadRequest, "Invalid request body")
}

func invalidID(c *fiber.Ctx, what string) error {
	return utils.SendError(c, fiber.StatusBadRequest, "Invalid "+what+" ID")
}

// respondError maps service errors onto HTTP responses.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	if validationErr, ok := service.IsValidation(err); ok {
		var details interface{}
		if len(validationErr.Fields) > 0 {
			details = validationErr.Fields
		}
		return utils.Fail(c, fiber.StatusBadRequest, validationErr.Message, details)
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reqLogger := middleware.RequestLogger(c, logger)
	reqLogger.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")

	message := internalErrorMessage
	if middleware.ExposeInternalErrors(c) {
		message = err.Error()
	}
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
