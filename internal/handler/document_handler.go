package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// DocumentHandler exposes identity document upload, download and review.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register wires document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("/documents/upload", h.upload)
	router.Post("/documents/verify/:userId", middleware.RequireAdmin(), h.verify)
	router.Get("/documents/:filename", h.download)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	// A missing or malformed multipart part is reported by the service.
	file, err := c.FormFile("document")
	if err != nil {
		file = nil
	}

	user, err := h.service.Upload(c.UserContext(), actorFromContext(c), c.FormValue("documentType"), file)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendJSON(c, fiber.StatusOK, dto.UserMessageResponse{
		Message: "Document uploaded successfully",
		User:    user,
	})
}

func (h *DocumentHandler) verify(c *fiber.Ctx) error {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return invalidID(c, "user")
	}
	var payload dto.DocumentVerifyRequest
	if err := bindBody(c, &payload); err != nil {
		return invalidBody(c)
	}

	user, err := h.service.Verify(c.UserContext(), actorFromContext(c), userID, payload.Verified)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	message := "Document rejected successfully"
	if *payload.Verified {
		message = "Document verified successfully"
	}
	return utils.SendJSON(c, fiber.StatusOK, dto.UserMessageResponse{Message: message, User: user})
}

func (h *DocumentHandler) download(c *fiber.Ctx) error {
	document, err := h.service.Open(c.UserContext(), actorFromContext(c), c.Params("filename"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Set(fiber.HeaderContentType, document.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.SendStream(document.Body)
}
