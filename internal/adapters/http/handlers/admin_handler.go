package handlers

import (
	"qraksha/internal/adapters/http/middleware"
	"qraksha/internal/core/domain"
	"qraksha/internal/core/services"
	"qraksha/internal/pkg/pagination"
	"qraksha/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin dashboard: the employee directory and SOS alerts
type AdminHandler struct {
	directory *services.DirectoryService
	alerts    *services.AlertService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(directory *services.DirectoryService, alerts *services.AlertService) *AdminHandler {
	return &AdminHandler{
		directory: directory,
		alerts:    alerts,
	}
}

// ListEmployees lists all employees
// @Summary List employees
// @Description List employees, optionally filtered by free text, department or blood type
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Matches name or a medical condition, case-insensitive"
// @Param department query string false "Exact department"
// @Param bloodType query string false "Exact blood type"
// @Param page query int false "Page number; with page or limit the list is wrapped in {data, meta}"
// @Param limit query int false "Items per page"
// @Success 200 {array} models.EmployeeResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admin/employees [get]
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	filter := domain.EmployeeFilter{
		Query:      c.Query("q"),
		Department: c.Query("department"),
		BloodType:  c.Query("bloodType"),
	}

	employees, err := h.directory.ListEmployees(c.UserContext(), filter)
	if err != nil {
		return handleError(c, err)
	}
	if params, ok := pagination.FromQuery(c); ok {
		return c.JSON(pagination.Slice(employees, params))
	}
	return response.List(c, employees)
}

// GetEmployee returns one employee
// @Summary Get employee
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Failure 404 {object} response.ErrorBody
// @Router /admin/employee/{id} [get]
func (h *AdminHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.directory.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(employee)
}

// DeleteEmployee removes an employee
// @Summary Delete employee
// @Description Hard delete an employee. Alerts are kept or removed depending on ALERT_DELETE_POLICY.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /admin/employee/{id} [delete]
func (h *AdminHandler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.directory.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Employee deleted successfully", nil)
}

// ListAlerts lists SOS alerts newest first
// @Summary List SOS alerts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "active or resolved"
// @Param page query int false "Page number; with page or limit the list is wrapped in {data, meta}"
// @Param limit query int false "Items per page"
// @Success 200 {array} models.AlertResponse
// @Failure 400 {object} response.ErrorBody
// @Router /admin/sos-alerts [get]
func (h *AdminHandler) ListAlerts(c *fiber.Ctx) error {
	status, err := domain.ParseAlertStatus(c.Query("status"))
	if err != nil {
		return handleError(c, err)
	}

	alerts, err := h.alerts.ListAlerts(c.UserContext(), status)
	if err != nil {
		return handleError(c, err)
	}
	if params, ok := pagination.FromQuery(c); ok {
		return c.JSON(pagination.Slice(alerts, params))
	}
	return response.List(c, alerts)
}

// ResolveAlert marks an SOS alert resolved
// @Summary Resolve SOS alert
// @Description Resolving an already resolved alert succeeds and changes nothing
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /admin/sos-alerts/{id}/resolve [put]
func (h *AdminHandler) ResolveAlert(c *fiber.Ctx) error {
	adminID, ok := middleware.AdminID(c)
	if !ok {
		return response.Unauthorized(c, "Invalid access token")
	}

	alert, err := h.alerts.ResolveAlert(c.UserContext(), c.Params("id"), adminID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "SOS alert resolved", fiber.Map{
		"alert": alert,
	})
}
