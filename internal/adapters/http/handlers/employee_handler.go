package handlers

import (
	"qraksha/internal/adapters/http/middleware"
	"qraksha/internal/core/services"
	"qraksha/internal/pkg/qrcode"
	"qraksha/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee registration, self service and the public QR endpoints
type EmployeeHandler struct {
	employees *services.EmployeeService
	alerts    *services.AlertService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employees *services.EmployeeService, alerts *services.AlertService) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		alerts:    alerts,
	}
}

// Register handles employee registration
// @Summary Register employee
// @Description Register an employee and issue its QR payload
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /employees/register [post]
func (h *EmployeeHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employees.Register(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Employee Registered Successfully!", fiber.Map{
		"employee": employee,
	})
}

// Me returns the caller's own profile
// @Summary Own profile
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.EmployeeResponse
// @Failure 401 {object} response.ErrorBody
// @Router /employees/me [get]
func (h *EmployeeHandler) Me(c *fiber.Ctx) error {
	employee, err := h.employees.GetProfile(c.UserContext(), middleware.PrincipalID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(employee)
}

// UpdateMe edits the caller's own profile
// @Summary Update own profile
// @Description Omitted fields stay unchanged. Username, password and QR payload cannot be edited here.
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Fields to change"
// @Success 200 {object} models.EmployeeResponse
// @Failure 400 {object} response.ErrorBody
// @Router /employees/me [put]
func (h *EmployeeHandler) UpdateMe(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employees.UpdateProfile(c.UserContext(), middleware.PrincipalID(c), &req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(employee)
}

// TriggerSOS raises an SOS alert for the caller
// @Summary Trigger SOS
// @Description Raise an active alert, optionally with the caller's position
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.TriggerSOSInput false "Position"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /employees/sos [post]
func (h *EmployeeHandler) TriggerSOS(c *fiber.Ctx) error {
	var req services.TriggerSOSInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	alert, err := h.alerts.TriggerSOS(c.UserContext(), middleware.PrincipalID(c), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "SOS alert sent", fiber.Map{
		"alert": alert,
	})
}

// MyAlerts lists the caller's own alerts
// @Summary Own SOS alerts
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AlertResponse
// @Router /employees/sos [get]
func (h *EmployeeHandler) MyAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.ListOwnAlerts(c.UserContext(), middleware.PrincipalID(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.List(c, alerts)
}

// PublicProfile is what a QR scan opens
// @Summary Public employee profile
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Failure 404 {object} response.ErrorBody
// @Router /employees/{id} [get]
func (h *EmployeeHandler) PublicProfile(c *fiber.Ctx) error {
	employee, err := h.employees.GetPublicProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(employee)
}

// QRCode renders the employee's QR payload as PNG, or as {"qrCode": "data:..."} with format=dataurl
// @Summary Employee QR code
// @Tags Employees
// @Produce png
// @Produce json
// @Param id path string true "Employee ID"
// @Param size query int false "Edge length in pixels, 64 to 1024"
// @Param format query string false "png (default) or dataurl"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /employees/{id}/qr.png [get]
func (h *EmployeeHandler) QRCode(c *fiber.Ctx) error {
	size := c.QueryInt("size", qrcode.DefaultSize)

	switch c.Query("format", "png") {
	case "png":
	case "dataurl":
		url, err := h.employees.QRCodeDataURL(c.UserContext(), c.Params("id"), size)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(fiber.Map{"qrCode": url})
	default:
		return response.BadRequest(c, "format must be png or dataurl")
	}

	png, err := h.employees.QRCodePNG(c.UserContext(), c.Params("id"), size)
	if err != nil {
		return handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
