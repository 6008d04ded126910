package response

import "github.com/gofiber/fiber/v2"

// ErrorBody is the body of every failed request
type ErrorBody struct {
	Error string `json:"error"`
}

// Success sends a 200 response carrying a message plus the given fields
func Success(c *fiber.Ctx, message string, data fiber.Map) error {
	return c.JSON(withMessage(message, data))
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(withMessage(message, data))
}

// List sends a bare JSON array
func List(c *fiber.Ctx, items interface{}) error {
	return c.JSON(items)
}

func withMessage(message string, data fiber.Map) fiber.Map {
	body := fiber.Map{}
	for k, v := range data {
		body[k] = v
	}
	if message != "" {
		body["message"] = message
	}
	return body
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
