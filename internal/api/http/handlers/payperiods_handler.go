package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// PayPeriodsHandler manages pay period confirmation endpoints.
type PayPeriodsHandler struct {
	service *service.PayPeriodService
}

// NewPayPeriodsHandler constructs handler.
func NewPayPeriodsHandler(payPeriodService *service.PayPeriodService) *PayPeriodsHandler {
	return &PayPeriodsHandler{service: payPeriodService}
}

// Status GET /api/admin/pay-periods/status.
func (h *PayPeriodsHandler) Status(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	start, okStart := parseDate(c.Query("start_date"))
	end, okEnd := parseDate(c.Query("end_date"))
	if !okStart || !okEnd {
		return apperrors.NewValidationError("start_date and end_date must be YYYY-MM-DD", nil)
	}

	status, err := h.service.Status(c.UserContext(), principal.Actor, start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PayPeriodStatusResponse{
		StartDate: status.StartDate.Format(dateLayout),
		EndDate:   status.EndDate.Format(dateLayout),
		Confirmed: status.Confirmed,
		PayPeriod: payPeriodResponse(status.PayPeriod),
	}})
}

// Confirm POST /api/admin/pay-periods/confirm.
func (h *PayPeriodsHandler) Confirm(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ConfirmPayPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if !okStart || !okEnd {
		return apperrors.NewValidationError("start_date and end_date must be YYYY-MM-DD", nil)
	}

	period, err := h.service.Confirm(c.UserContext(), principal.Actor, start, end)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": payPeriodResponse(period)})
}
