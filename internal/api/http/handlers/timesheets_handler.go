package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// TimesheetsHandler manages self-service timesheet endpoints.
type TimesheetsHandler struct {
	service *service.TimesheetService
}

// NewTimesheetsHandler constructs handler.
func NewTimesheetsHandler(timesheetService *service.TimesheetService) *TimesheetsHandler {
	return &TimesheetsHandler{service: timesheetService}
}

// List GET /api/timesheets.
func (h *TimesheetsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	page, perPage := parsePagination(c)
	sheets, err := h.service.ListOwn(c.UserContext(), principal.Actor, perPage, (page-1)*perPage)
	if err != nil {
		return err
	}
	items := make([]dto.TimesheetSummary, 0, len(sheets))
	for i := range sheets {
		items = append(items, timesheetSummary(&sheets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// EnsureDraft POST /api/timesheets.
func (h *TimesheetsHandler) EnsureDraft(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.EnsureDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	weekStart, ok := parseDate(req.WeekStart)
	if !ok {
		return apperrors.NewValidationError("week_start must be YYYY-MM-DD", nil)
	}

	sheet, err := h.service.EnsureDraft(c.UserContext(), principal.Actor, weekStart)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// Get GET /api/timesheets/:id.
func (h *TimesheetsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	detail, err := h.service.GetForOwner(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetDetail(detail)})
}

// Submit POST /api/timesheets/:id/submit.
func (h *TimesheetsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	sheet, err := h.service.Submit(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// AddNote POST /api/timesheets/:id/notes.
func (h *TimesheetsHandler) AddNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	note, err := h.service.AddNote(c.UserContext(), principal.Actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": noteResponse(note)})
}

func parsePagination(c *fiber.Ctx) (page, perPage int) {
	page = 1
	perPage = 25
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := c.Query("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			perPage = parsed
		}
	}
	return page, perPage
}
