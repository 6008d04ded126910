package middleware

import (
	"errors"
	"strconv"
	"strings"

	"qraksha/internal/core/domain"
	"qraksha/internal/pkg/jwt"
	"qraksha/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalPrincipalID = "principalID"
	LocalUsername    = "username"
	LocalRole        = "role"
)

// Authorizer turns a bearer token into claims
type Authorizer interface {
	Authorize(token string) (*jwt.Claims, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(auth Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "Access token required")
		}
		accessToken, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(accessToken) == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := auth.Authorize(strings.TrimSpace(accessToken))
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalPrincipalID, claims.PrincipalID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only admins
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// EmployeeOnly middleware allows only employees
func EmployeeOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleEmployee)
}

// PrincipalID returns the authenticated principal id
func PrincipalID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalPrincipalID).(string)
	return id
}

// AdminID returns the authenticated admin's numeric id
func AdminID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(PrincipalID(c), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
