package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/access"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/events"
	"github.com/spec-kit/timesheet-service/internal/repository"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// TimesheetService coordinates timesheet workflows. Every status
// transition runs read-check-write inside one serializable transaction
// so concurrent transitions cannot both succeed against a stale
// status, and the pay-period lock check participates in the same
// isolation domain as pay-period confirmation. The lock is re-derived
// on each attempt rather than cached.
type TimesheetService struct {
	uow        repository.UnitOfWork
	timesheets repository.TimesheetRepository
	payperiods repository.PayPeriodRepository
	notes      repository.NoteRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TimesheetDependencies bundles collaborators for the service.
type TimesheetDependencies struct {
	UnitOfWork    repository.UnitOfWork
	TimesheetRepo repository.TimesheetRepository
	PayPeriodRepo repository.PayPeriodRepository
	NoteRepo      repository.NoteRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// NewTimesheetService constructs the service.
func NewTimesheetService(deps TimesheetDependencies) *TimesheetService {
	return &TimesheetService{
		uow:        deps.UnitOfWork,
		timesheets: deps.TimesheetRepo,
		payperiods: deps.PayPeriodRepo,
		notes:      deps.NoteRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TimesheetListInput describes approver listing filters.
type TimesheetListInput struct {
	Status    *domain.Status
	UserID    *string
	WeekStart *time.Time
	HourType  *string
	Limit     int
	Offset    int
}

// TimesheetDetail bundles a timesheet with its notes and lock state.
type TimesheetDetail struct {
	Timesheet *domain.Timesheet
	Notes     []domain.Note
	PayPeriod *domain.PayPeriod
}

// EnsureDraft creates the caller's draft for a week if it does not
// exist yet and returns it either way.
func (s *TimesheetService) EnsureDraft(ctx context.Context, actor access.Actor, weekStart time.Time) (*domain.Timesheet, error) {
	if !domain.IsSunday(weekStart) {
		return nil, apperrors.NewValidationError("week_start must be a Sunday", nil)
	}
	return s.timesheets.EnsureDraft(ctx, actor.ID, weekStart)
}

// ListOwn returns the caller's own timesheets, drafts included.
func (s *TimesheetService) ListOwn(ctx context.Context, actor access.Actor, limit, offset int) ([]domain.Timesheet, error) {
	return s.timesheets.ListByOwner(ctx, actor.ID, limit, offset)
}

// GetForOwner fetches the caller's own timesheet in any status.
// Other users' timesheets are reported absent, not forbidden.
func (s *TimesheetService) GetForOwner(ctx context.Context, actor access.Actor, id string) (*TimesheetDetail, error) {
	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTimesheetErr(err)
	}
	if ts.UserID != actor.ID {
		return nil, apperrors.NewNotFound("timesheet")
	}
	return s.detail(ctx, ts)
}

// Submit moves the caller's draft to SUBMITTED and stamps submitted_at.
func (s *TimesheetService) Submit(ctx context.Context, actor access.Actor, id string) (*domain.Timesheet, error) {
	var result *domain.Timesheet
	err := s.uow.WithinSerializableTx(ctx, func(stores repository.Stores) error {
		ts, err := stores.Timesheets.GetByIDForUpdate(ctx, id)
		if err != nil {
			return mapTimesheetErr(err)
		}
		if ts.UserID != actor.ID {
			return apperrors.NewNotFound("timesheet")
		}
		if err := access.Authorize(actor, ts.Owner, access.OpSelfService); err != nil {
			return err
		}
		if err := checkUnlocked(ctx, stores.PayPeriods, ts.WeekStart); err != nil {
			return err
		}
		// An approved sheet returns to SUBMITTED only through
		// unapprove; owners only ever submit a draft.
		if ts.Status != domain.StatusNew {
			return apperrors.NewInvalidStatusTransition(string(ts.Status), string(domain.StatusSubmitted))
		}
		now := time.Now().UTC()
		ts.Status = domain.StatusSubmitted
		ts.SubmittedAt = &now
		if err := stores.Timesheets.Update(ctx, ts); err != nil {
			return err
		}
		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns non-draft timesheets visible to the approver, with the
// total count and the view mode tag for rendering.
func (s *TimesheetService) List(ctx context.Context, actor access.Actor, input TimesheetListInput) ([]domain.Timesheet, int, string, error) {
	filter := repository.TimesheetFilter{
		Status:        input.Status,
		UserID:        input.UserID,
		WeekStart:     input.WeekStart,
		HourType:      input.HourType,
		ExcludeDrafts: true,
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if actor.Role == domain.RoleSupport {
		traineeRole := domain.RoleTrainee
		filter.OwnerRole = &traineeRole
	}
	items, total, err := s.timesheets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, "", err
	}
	return items, total, access.ViewMode(actor.Role), nil
}

// GetForApprover fetches a non-draft timesheet for review. Drafts are
// reported absent before any role check so their existence never leaks.
func (s *TimesheetService) GetForApprover(ctx context.Context, actor access.Actor, id string) (*TimesheetDetail, error) {
	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTimesheetErr(err)
	}
	if ts.Status == domain.StatusNew {
		return nil, apperrors.NewNotFound("timesheet")
	}
	if err := access.Authorize(actor, ts.Owner, access.OpView); err != nil {
		return nil, err
	}
	return s.detail(ctx, ts)
}

// Approve moves a SUBMITTED or NEEDS_APPROVAL timesheet to APPROVED,
// stamping the approval fields with the acting approver.
func (s *TimesheetService) Approve(ctx context.Context, actor access.Actor, id string) (*domain.Timesheet, error) {
	var result *domain.Timesheet
	err := s.uow.WithinSerializableTx(ctx, func(stores repository.Stores) error {
		ts, err := s.loadForModeration(ctx, stores, actor, id)
		if err != nil {
			return err
		}
		if err := checkUnlocked(ctx, stores.PayPeriods, ts.WeekStart); err != nil {
			return err
		}
		if !domain.CanTransition(ts.Status, domain.StatusApproved) {
			return apperrors.NewInvalidStatusTransition(string(ts.Status), string(domain.StatusApproved))
		}
		now := time.Now().UTC()
		approver := actor.ID
		ts.Status = domain.StatusApproved
		ts.ApprovedAt = &now
		ts.ApprovedBy = &approver
		if err := stores.Timesheets.Update(ctx, ts); err != nil {
			return err
		}
		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTimesheetApproved,
		TimesheetID: result.ID,
		Actor:       events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.TimesheetApprovedPayload{
			OwnerID:    result.UserID,
			WeekStart:  result.WeekStart,
			ApprovedAt: result.ApprovedAt,
		},
	})
	return result, nil
}

// Reject marks a SUBMITTED timesheet NEEDS_APPROVAL. A non-empty
// reason is persisted both as admin_notes and as an appended note.
func (s *TimesheetService) Reject(ctx context.Context, actor access.Actor, id, reason string) (*domain.Timesheet, error) {
	reason = strings.TrimSpace(reason)

	var result *domain.Timesheet
	err := s.uow.WithinSerializableTx(ctx, func(stores repository.Stores) error {
		ts, err := s.loadForModeration(ctx, stores, actor, id)
		if err != nil {
			return err
		}
		if err := checkUnlocked(ctx, stores.PayPeriods, ts.WeekStart); err != nil {
			return err
		}
		if !domain.CanTransition(ts.Status, domain.StatusNeedsApproval) {
			return apperrors.NewInvalidStatusTransition(string(ts.Status), string(domain.StatusNeedsApproval))
		}
		ts.Status = domain.StatusNeedsApproval
		if reason != "" {
			ts.AdminNotes = &reason
			note := &domain.Note{
				TimesheetID: ts.ID,
				AuthorID:    actor.ID,
				Content:     "Needs approval: " + reason,
			}
			if err := stores.Notes.Create(ctx, note); err != nil {
				return err
			}
		}
		if err := stores.Timesheets.Update(ctx, ts); err != nil {
			return err
		}
		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTimesheetNeedsAttention,
		TimesheetID: result.ID,
		Actor:       events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.TimesheetNeedsAttentionPayload{
			OwnerID:   result.UserID,
			WeekStart: result.WeekStart,
			Reason:    reason,
		},
	})
	return result, nil
}

// Unapprove reverts an APPROVED timesheet to SUBMITTED and clears the
// approval fields. Blocked once the pay period is confirmed.
func (s *TimesheetService) Unapprove(ctx context.Context, actor access.Actor, id string) (*domain.Timesheet, error) {
	var result *domain.Timesheet
	err := s.uow.WithinSerializableTx(ctx, func(stores repository.Stores) error {
		ts, err := s.loadForModeration(ctx, stores, actor, id)
		if err != nil {
			return err
		}
		if err := checkUnlocked(ctx, stores.PayPeriods, ts.WeekStart); err != nil {
			return err
		}
		if ts.Status != domain.StatusApproved {
			return apperrors.NewInvalidStatusTransition(string(ts.Status), string(domain.StatusSubmitted))
		}
		ts.Status = domain.StatusSubmitted
		ts.ApprovedAt = nil
		ts.ApprovedBy = nil
		if err := stores.Timesheets.Update(ctx, ts); err != nil {
			return err
		}
		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateAdminNotes replaces the admin notes annotation. Notes do not
// affect payroll state, so the pay-period lock does not apply.
func (s *TimesheetService) UpdateAdminNotes(ctx context.Context, actor access.Actor, id, notes string) (*domain.Timesheet, error) {
	var result *domain.Timesheet
	err := s.uow.WithinTx(ctx, func(stores repository.Stores) error {
		ts, err := s.loadForModeration(ctx, stores, actor, id)
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(notes)
		if trimmed == "" {
			ts.AdminNotes = nil
		} else {
			ts.AdminNotes = &trimmed
		}
		if err := stores.Timesheets.Update(ctx, ts); err != nil {
			return err
		}
		result = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddNote appends a plain note. Allowed after the pay period locks,
// since notes carry no payroll-relevant state.
func (s *TimesheetService) AddNote(ctx context.Context, actor access.Actor, id, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("note content required", nil)
	}

	ts, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTimesheetErr(err)
	}
	if ts.Status == domain.StatusNew && ts.UserID != actor.ID {
		return nil, apperrors.NewNotFound("timesheet")
	}
	if err := access.Authorize(actor, ts.Owner, access.OpAnnotate); err != nil {
		return nil, err
	}

	note := &domain.Note{
		TimesheetID: ts.ID,
		AuthorID:    actor.ID,
		Content:     content,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// SendUnsubmittedReminders publishes a reminder event for every user
// without a submitted timesheet for the week. Delivery is the
// notification collaborator's concern.
func (s *TimesheetService) SendUnsubmittedReminders(ctx context.Context, actor access.Actor, weekStart time.Time) (int, error) {
	if err := access.AuthorizePayPeriod(actor); err != nil {
		return 0, err
	}
	if !domain.IsSunday(weekStart) {
		return 0, apperrors.NewValidationError("week_start must be a Sunday", nil)
	}

	users, err := s.users.ListWithoutSubmission(ctx, weekStart)
	if err != nil {
		return 0, err
	}
	for _, user := range users {
		s.publishEvent(ctx, events.Event{
			Type:  events.EventUnsubmittedReminder,
			Actor: events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.UnsubmittedReminderPayload{
				OwnerID:   user.ID,
				WeekStart: weekStart,
			},
		})
	}
	return len(users), nil
}

// loadForModeration locks the row and applies the visibility and role
// gates shared by all approver mutations. Draft invisibility comes
// before the role check on purpose.
func (s *TimesheetService) loadForModeration(ctx context.Context, stores repository.Stores, actor access.Actor, id string) (*domain.Timesheet, error) {
	ts, err := stores.Timesheets.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapTimesheetErr(err)
	}
	if ts.Status == domain.StatusNew {
		return nil, apperrors.NewNotFound("timesheet")
	}
	if err := access.Authorize(actor, ts.Owner, access.OpModerate); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TimesheetService) detail(ctx context.Context, ts *domain.Timesheet) (*TimesheetDetail, error) {
	notes, err := s.notes.ListByTimesheet(ctx, ts.ID)
	if err != nil {
		return nil, err
	}
	period, err := s.payperiods.GetContaining(ctx, ts.WeekStart)
	if err != nil {
		return nil, err
	}
	return &TimesheetDetail{Timesheet: ts, Notes: notes, PayPeriod: period}, nil
}

func (s *TimesheetService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func checkUnlocked(ctx context.Context, periods repository.PayPeriodRepository, weekStart time.Time) error {
	period, err := periods.GetContaining(ctx, weekStart)
	if err != nil {
		return err
	}
	if period != nil {
		return apperrors.NewPayPeriodLocked(weekStart)
	}
	return nil
}

func mapTimesheetErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("timesheet")
	}
	return err
}
