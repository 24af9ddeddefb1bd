package dto

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// EnsureDraftRequest payload.
type EnsureDraftRequest struct {
	WeekStart string `json:"week_start" validate:"required,datetime=2006-01-02"`
}

// RejectRequest carries the optional reviewer reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// AdminNotesRequest payload for PUT admin-notes.
type AdminNotesRequest struct {
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

// CreateNoteRequest payload.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// OwnerSummary identifies the timesheet owner in responses.
type OwnerSummary struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}

// TimesheetSummary response.
type TimesheetSummary struct {
	ID          string        `json:"id"`
	WeekStart   string        `json:"week_start"`
	Status      domain.Status `json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	ApprovedAt  *time.Time    `json:"approved_at"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TimesheetDetailResponse provides full timesheet info.
type TimesheetDetailResponse struct {
	ID                 string         `json:"id"`
	WeekStart          string         `json:"week_start"`
	Status             domain.Status  `json:"status"`
	SubmittedAt        *time.Time     `json:"submitted_at"`
	ApprovedAt         *time.Time     `json:"approved_at"`
	ApprovedBy         *string        `json:"approved_by"`
	AdminNotes         *string        `json:"admin_notes"`
	Owner              *OwnerSummary  `json:"owner,omitempty"`
	Notes              []NoteResponse `json:"notes"`
	PayPeriodConfirmed bool           `json:"pay_period_confirmed"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// NoteResponse represents one annotation on a timesheet.
type NoteResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// TimesheetListResponse is the paginated envelope for approver listings.
type TimesheetListResponse struct {
	Timesheets []TimesheetSummary `json:"timesheets"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	Pages      int                `json:"pages"`
	ViewMode   string             `json:"view_mode"`
}

// ReminderResponse reports how many reminders were queued.
type ReminderResponse struct {
	WeekStart string `json:"week_start"`
	Notified  int    `json:"notified"`
}
