// Package storemock provides hand-rolled repository fakes for service
// tests. Each fake delegates to an optional function field, so tests
// only wire the calls they expect.
package storemock

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/repository"
)

// TimesheetRepo fakes repository.TimesheetRepository.
type TimesheetRepo struct {
	EnsureDraftFn          func(ctx context.Context, userID string, weekStart time.Time) (*domain.Timesheet, error)
	GetByIDFn              func(ctx context.Context, id string) (*domain.Timesheet, error)
	GetByIDForUpdateFn     func(ctx context.Context, id string) (*domain.Timesheet, error)
	UpdateFn               func(ctx context.Context, ts *domain.Timesheet) error
	ListWithFilterFn       func(ctx context.Context, filter repository.TimesheetFilter) ([]domain.Timesheet, int, error)
	ListByOwnerFn          func(ctx context.Context, userID string, limit, offset int) ([]domain.Timesheet, error)
	CountByStatusInRangeFn func(ctx context.Context, start, end time.Time) (map[domain.Status]int, error)
}

func (m *TimesheetRepo) EnsureDraft(ctx context.Context, userID string, weekStart time.Time) (*domain.Timesheet, error) {
	return m.EnsureDraftFn(ctx, userID, weekStart)
}

func (m *TimesheetRepo) GetByID(ctx context.Context, id string) (*domain.Timesheet, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *TimesheetRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Timesheet, error) {
	return m.GetByIDForUpdateFn(ctx, id)
}

func (m *TimesheetRepo) Update(ctx context.Context, ts *domain.Timesheet) error {
	return m.UpdateFn(ctx, ts)
}

func (m *TimesheetRepo) ListWithFilter(ctx context.Context, filter repository.TimesheetFilter) ([]domain.Timesheet, int, error) {
	return m.ListWithFilterFn(ctx, filter)
}

func (m *TimesheetRepo) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.Timesheet, error) {
	return m.ListByOwnerFn(ctx, userID, limit, offset)
}

func (m *TimesheetRepo) CountByStatusInRange(ctx context.Context, start, end time.Time) (map[domain.Status]int, error) {
	return m.CountByStatusInRangeFn(ctx, start, end)
}

// PayPeriodRepo fakes repository.PayPeriodRepository. The zero value
// behaves as an empty store: nothing confirmed, nothing overlapping.
type PayPeriodRepo struct {
	CreateFn         func(ctx context.Context, period *domain.PayPeriod) error
	GetByStartDateFn func(ctx context.Context, start time.Time) (*domain.PayPeriod, error)
	GetContainingFn  func(ctx context.Context, date time.Time) (*domain.PayPeriod, error)
	GetOverlappingFn func(ctx context.Context, start, end time.Time) (*domain.PayPeriod, error)
}

func (m *PayPeriodRepo) Create(ctx context.Context, period *domain.PayPeriod) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, period)
}

func (m *PayPeriodRepo) GetByStartDate(ctx context.Context, start time.Time) (*domain.PayPeriod, error) {
	if m.GetByStartDateFn == nil {
		return nil, nil
	}
	return m.GetByStartDateFn(ctx, start)
}

func (m *PayPeriodRepo) GetContaining(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
	if m.GetContainingFn == nil {
		return nil, nil
	}
	return m.GetContainingFn(ctx, date)
}

func (m *PayPeriodRepo) GetOverlapping(ctx context.Context, start, end time.Time) (*domain.PayPeriod, error) {
	if m.GetOverlappingFn == nil {
		return nil, nil
	}
	return m.GetOverlappingFn(ctx, start, end)
}

// NoteRepo fakes repository.NoteRepository.
type NoteRepo struct {
	CreateFn          func(ctx context.Context, note *domain.Note) error
	ListByTimesheetFn func(ctx context.Context, timesheetID string) ([]domain.Note, error)
}

func (m *NoteRepo) Create(ctx context.Context, note *domain.Note) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, note)
}

func (m *NoteRepo) ListByTimesheet(ctx context.Context, timesheetID string) ([]domain.Note, error) {
	if m.ListByTimesheetFn == nil {
		return nil, nil
	}
	return m.ListByTimesheetFn(ctx, timesheetID)
}

// UserRepo fakes repository.UserRepository.
type UserRepo struct {
	GetByIDFn               func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn            func(ctx context.Context, email string) (*domain.User, error)
	ListFn                  func(ctx context.Context) ([]domain.User, error)
	ListWithoutSubmissionFn func(ctx context.Context, weekStart time.Time) ([]domain.User, error)
}

func (m *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFn(ctx, id)
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByEmailFn(ctx, email)
}

func (m *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(ctx)
}

func (m *UserRepo) ListWithoutSubmission(ctx context.Context, weekStart time.Time) ([]domain.User, error) {
	if m.ListWithoutSubmissionFn == nil {
		return nil, nil
	}
	return m.ListWithoutSubmissionFn(ctx, weekStart)
}

// UoW fakes repository.UnitOfWork, running callbacks against the
// bundled stores without a database.
type UoW struct {
	Stores               repository.Stores
	WithinTxFn           func(ctx context.Context, fn func(repository.Stores) error) error
	WithinSerializableFn func(ctx context.Context, fn func(repository.Stores) error) error
}

func (u *UoW) WithinTx(ctx context.Context, fn func(repository.Stores) error) error {
	if u.WithinTxFn != nil {
		return u.WithinTxFn(ctx, fn)
	}
	return fn(u.Stores)
}

func (u *UoW) WithinSerializableTx(ctx context.Context, fn func(repository.Stores) error) error {
	if u.WithinSerializableFn != nil {
		return u.WithinSerializableFn(ctx, fn)
	}
	return fn(u.Stores)
}
