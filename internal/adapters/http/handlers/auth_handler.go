package handlers

import (
	"qraksha/internal/core/domain"
	"qraksha/internal/core/services"
	"qraksha/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login for admins and employees
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin handles admin login
// @Summary Admin login
// @Description Authenticate an admin and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	result, err := h.login(c, domain.RoleAdmin)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Login successful!", fiber.Map{
		"token": result.Token,
	})
}

// EmployeeLogin handles employee login
// @Summary Employee login
// @Description Authenticate an employee and return a bearer token with the employee id
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /employees/login [post]
func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	result, err := h.login(c, domain.RoleEmployee)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Login successful!", fiber.Map{
		"token":  result.Token,
		"userId": result.PrincipalID,
	})
}

func (h *AuthHandler) login(c *fiber.Ctx, role domain.Role) (*services.LoginResult, error) {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, domain.Invalid("Invalid request body")
	}

	return h.authService.Login(c.UserContext(), role, &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
}
