package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/repository"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// AdminTimesheetsHandler manages the approval queue endpoints.
type AdminTimesheetsHandler struct {
	timesheets *service.TimesheetService
	users      repository.UserRepository
}

// NewAdminTimesheetsHandler constructs handler.
func NewAdminTimesheetsHandler(timesheetService *service.TimesheetService, users repository.UserRepository) *AdminTimesheetsHandler {
	return &AdminTimesheetsHandler{timesheets: timesheetService, users: users}
}

// List GET /api/admin/timesheets.
func (h *AdminTimesheetsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	input, page, perPage, err := parseAdminListQuery(c)
	if err != nil {
		return err
	}

	sheets, total, viewMode, err := h.timesheets.List(c.UserContext(), principal.Actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.TimesheetSummary, 0, len(sheets))
	for i := range sheets {
		items = append(items, timesheetSummary(&sheets[i]))
	}
	pages := total / perPage
	if total%perPage > 0 {
		pages++
	}
	return c.JSON(dto.TimesheetListResponse{
		Timesheets: items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		Pages:      pages,
		ViewMode:   viewMode,
	})
}

// Get GET /api/admin/timesheets/:id.
func (h *AdminTimesheetsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	detail, err := h.timesheets.GetForApprover(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetDetail(detail)})
}

// Approve POST /api/admin/timesheets/:id/approve.
func (h *AdminTimesheetsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	sheet, err := h.timesheets.Approve(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// Reject POST /api/admin/timesheets/:id/reject.
func (h *AdminTimesheetsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
	}
	sheet, err := h.timesheets.Reject(c.UserContext(), principal.Actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// Unapprove POST /api/admin/timesheets/:id/unapprove.
func (h *AdminTimesheetsHandler) Unapprove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	sheet, err := h.timesheets.Unapprove(c.UserContext(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// UpdateAdminNotes PUT /api/admin/timesheets/:id/admin-notes.
func (h *AdminTimesheetsHandler) UpdateAdminNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AdminNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	sheet, err := h.timesheets.UpdateAdminNotes(c.UserContext(), principal.Actor, c.Params("id"), req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timesheetSummary(sheet)})
}

// AddNote POST /api/admin/timesheets/:id/notes.
func (h *AdminTimesheetsHandler) AddNote(c *fiber.Ctx) error {
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
	note, err := h.timesheets.AddNote(c.UserContext(), principal.Actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": noteResponse(note)})
}

// ListUsers GET /api/admin/users.
func (h *AdminTimesheetsHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SendReminders POST /api/admin/reminders/unsubmitted.
func (h *AdminTimesheetsHandler) SendReminders(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	raw := c.Query("week_start")
	if raw == "" {
		return apperrors.NewValidationError("week_start required", nil)
	}
	weekStart, parsed := parseDate(raw)
	if !parsed {
		return apperrors.NewValidationError("week_start must be YYYY-MM-DD", nil)
	}
	notified, err := h.timesheets.SendUnsubmittedReminders(c.UserContext(), principal.Actor, weekStart)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReminderResponse{
		WeekStart: weekStart.Format(dateLayout),
		Notified:  notified,
	}})
}

func parseAdminListQuery(c *fiber.Ctx) (service.TimesheetListInput, int, int, error) {
	var input service.TimesheetListInput

	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return input, 0, 0, apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		input.Status = &status
	}
	if raw := c.Query("user_id"); raw != "" {
		input.UserID = &raw
	}
	if raw := c.Query("week_start"); raw != "" {
		weekStart, ok := parseDate(raw)
		if !ok {
			return input, 0, 0, apperrors.NewValidationError("week_start must be YYYY-MM-DD", nil)
		}
		input.WeekStart = &weekStart
	}
	if raw := c.Query("hour_type"); raw != "" {
		input.HourType = &raw
	}

	page, perPage := parsePagination(c)
	input.Limit = perPage
	input.Offset = (page - 1) * perPage
	return input, page, perPage, nil
}
