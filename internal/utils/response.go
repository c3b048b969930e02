package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// SendJSON writes data as the bare response body.
func SendJSON(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(data)
}

// SendCreated writes a newly created entity.
func SendCreated(c *fiber.Ctx, data interface{}) error {
	return SendJSON(c, fiber.StatusCreated, data)
}

// SendNoContent finishes the request without a body.
func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail sends an error JSON response carrying optional field level details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		Errors:  details,
	})
}
