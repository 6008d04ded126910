package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"qraksha/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", domain.Invalid("name cannot be empty"), fiber.StatusBadRequest, "name cannot be empty"},
		{"wrapped validation", fmt.Errorf("register: %w", domain.Invalid("bad")), fiber.StatusBadRequest, "bad"},
		{"username taken", domain.ErrUsernameTaken, fiber.StatusBadRequest, "Username already taken. Please choose a different one."},
		{"credentials", domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials."},
		{"expired", domain.ErrTokenExpired, fiber.StatusUnauthorized, "Access token expired"},
		{"invalid token", domain.ErrTokenInvalid, fiber.StatusUnauthorized, "Invalid access token"},
		{"employee", domain.ErrEmployeeNotFound, fiber.StatusNotFound, "Employee not found"},
		{"alert", fmt.Errorf("resolve: %w", domain.ErrAlertNotFound), fiber.StatusNotFound, "SOS alert not found"},
		{"store failure", errors.New("connection refused"), fiber.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return handleError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}
