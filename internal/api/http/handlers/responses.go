package handlers

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/service"
)

const dateLayout = "2006-01-02"

func ownerSummary(owner *domain.User) *dto.OwnerSummary {
	if owner == nil {
		return nil
	}
	return &dto.OwnerSummary{
		ID:          owner.ID,
		Email:       owner.Email,
		DisplayName: owner.DisplayName,
		Role:        owner.Role,
	}
}

func timesheetSummary(ts *domain.Timesheet) dto.TimesheetSummary {
	return dto.TimesheetSummary{
		ID:          ts.ID,
		WeekStart:   ts.WeekStart.Format(dateLayout),
		Status:      ts.Status,
		SubmittedAt: ts.SubmittedAt,
		ApprovedAt:  ts.ApprovedAt,
		Owner:       ownerSummary(ts.Owner),
		CreatedAt:   ts.CreatedAt,
		UpdatedAt:   ts.UpdatedAt,
	}
}

func timesheetDetail(d *service.TimesheetDetail) dto.TimesheetDetailResponse {
	ts := d.Timesheet
	notes := make([]dto.NoteResponse, 0, len(d.Notes))
	for i := range d.Notes {
		notes = append(notes, noteResponse(&d.Notes[i]))
	}
	return dto.TimesheetDetailResponse{
		ID:                 ts.ID,
		WeekStart:          ts.WeekStart.Format(dateLayout),
		Status:             ts.Status,
		SubmittedAt:        ts.SubmittedAt,
		ApprovedAt:         ts.ApprovedAt,
		ApprovedBy:         ts.ApprovedBy,
		AdminNotes:         ts.AdminNotes,
		Owner:              ownerSummary(ts.Owner),
		Notes:              notes,
		PayPeriodConfirmed: d.PayPeriod != nil,
		CreatedAt:          ts.CreatedAt,
		UpdatedAt:          ts.UpdatedAt,
	}
}

func noteResponse(note *domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         note.ID,
		AuthorID:   note.AuthorID,
		AuthorName: note.AuthorName,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
	}
}

func payPeriodResponse(p *domain.PayPeriod) *dto.PayPeriodResponse {
	if p == nil {
		return nil
	}
	return &dto.PayPeriodResponse{
		ID:          p.ID,
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate.Format(dateLayout),
		ConfirmedBy: p.ConfirmedBy,
		ConfirmedAt: p.ConfirmedAt,
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        u.Role,
		SMSOptIn:    u.SMSOptIn,
		CreatedAt:   u.CreatedAt,
	}
}

func parseDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
