package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	service      service.AuthService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthHandler constructs the handler. secureCookie marks the session
// cookie as HTTPS only.
func NewAuthHandler(service service.AuthService, secureCookie bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated routes. limiter guards login.
func (h *AuthHandler) RegisterPublic(router fiber.Router, limiter fiber.Handler) {
	router.Post("/register", h.register)
	if limiter != nil {
		router.Post("/login", limiter, h.login)
		return
	}
	router.Post("/login", h.login)
}

// RegisterSession wires routes that only need a valid session.
func (h *AuthHandler) RegisterSession(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Get("/user", h.currentUser)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	user, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendCreated(c, user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	result, err := h.service.Login(c.UserContext(), payload, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(h.sessionCookie(result.Token, result.ExpiresAt))
	return utils.SendJSON(c, fiber.StatusOK, dto.LoginResponse{Token: result.Token, User: result.User})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), middleware.CurrentSessionID(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return utils.SendNoContent(c)
}

func (h *AuthHandler) currentUser(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrUnauthenticated.Error())
	}
	return utils.SendJSON(c, fiber.StatusOK, principal.User)
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
