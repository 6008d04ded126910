package handlers

import (
	"errors"

	"qraksha/internal/core/domain"
	"qraksha/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// handleError converts a service error into the matching status code.
// Unknown errors are logged and answered with a generic 500.
func handleError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Message)
	case errors.Is(err, domain.ErrUsernameTaken):
		return response.BadRequest(c, "Username already taken. Please choose a different one.")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid credentials.")
	case errors.Is(err, domain.ErrTokenExpired):
		return response.Unauthorized(c, "Access token expired")
	case errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, "Invalid access token")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return response.NotFound(c, "Employee not found")
	case errors.Is(err, domain.ErrAlertNotFound):
		return response.NotFound(c, "SOS alert not found")
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return response.InternalServerError(c, "Internal Server Error")
	}
}
