package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/timesheet-service/internal/access"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/events"
	"github.com/spec-kit/timesheet-service/internal/repository"
	"github.com/spec-kit/timesheet-service/internal/testutil/storemock"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

type captureDispatcher struct {
	published []events.Event
	err       error
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return d.err
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

var (
	adminActor   = access.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	supportActor = access.Actor{ID: "support-1", Role: domain.RoleSupport}
	weekStart    = time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
)

func traineeSheet(status domain.Status) *domain.Timesheet {
	return &domain.Timesheet{
		ID:        "ts-1",
		UserID:    "trainee-1",
		WeekStart: weekStart,
		Status:    status,
		Owner:     &domain.User{ID: "trainee-1", Role: domain.RoleTrainee, DisplayName: "Trainee One"},
	}
}

func staffSheet(status domain.Status) *domain.Timesheet {
	return &domain.Timesheet{
		ID:        "ts-2",
		UserID:    "staff-1",
		WeekStart: weekStart,
		Status:    status,
		Owner:     &domain.User{ID: "staff-1", Role: domain.RoleStaff, DisplayName: "Staff One"},
	}
}

func newService(stores repository.Stores, dispatcher events.Dispatcher) *TimesheetService {
	return NewTimesheetService(TimesheetDependencies{
		UnitOfWork:    &storemock.UoW{Stores: stores},
		TimesheetRepo: stores.Timesheets,
		PayPeriodRepo: stores.PayPeriods,
		NoteRepo:      stores.Notes,
		UserRepo:      stores.Users,
		Dispatcher:    dispatcher,
	})
}

func assertCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, code, de.Code)
	return de
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approves submitted timesheet and publishes event", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		var updated *domain.Timesheet
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error {
					updated = ts
					return nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		dispatcher := &captureDispatcher{}
		svc := newService(stores, dispatcher)

		result, err := svc.Approve(ctx, adminActor, "ts-1")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, domain.StatusApproved, result.Status)
		require.NotNil(t, result.ApprovedAt)
		require.NotNil(t, result.ApprovedBy)
		assert.Equal(t, "admin-1", *result.ApprovedBy)

		require.Len(t, dispatcher.published, 1)
		event := dispatcher.published[0]
		assert.Equal(t, events.EventTimesheetApproved, event.Type)
		assert.Equal(t, "ts-1", event.TimesheetID)
		assert.NotEmpty(t, event.ID)
	})

	t.Run("re-approves needs approval timesheet", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNeedsApproval)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		result, err := newService(stores, &captureDispatcher{}).Approve(ctx, adminActor, "ts-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, result.Status)
	})

	t.Run("already approved fails with current status", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusApproved)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		dispatcher := &captureDispatcher{}
		_, err := newService(stores, dispatcher).Approve(ctx, adminActor, "ts-1")
		de := assertCode(t, err, "INVALID_STATUS_TRANSITION")
		assert.Equal(t, "APPROVED", de.Details["current_status"])
		assert.Empty(t, dispatcher.published)
	})

	t.Run("locked pay period blocks approval", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{
				GetContainingFn: func(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
					return &domain.PayPeriod{StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 13)}, nil
				},
			},
		}
		_, err := newService(stores, &captureDispatcher{}).Approve(ctx, adminActor, "ts-1")
		assertCode(t, err, "PAY_PERIOD_LOCKED")
	})

	t.Run("draft reported absent to approvers", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Approve(ctx, adminActor, "ts-1")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("missing timesheet", func(t *testing.T) {
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return nil, pgx.ErrNoRows
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Approve(ctx, adminActor, "missing")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("support approves trainee but not staff", func(t *testing.T) {
		sheets := map[string]*domain.Timesheet{
			"ts-1": traineeSheet(domain.StatusSubmitted),
			"ts-2": staffSheet(domain.StatusSubmitted),
		}
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheets[id], nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		svc := newService(stores, &captureDispatcher{})

		_, err := svc.Approve(ctx, supportActor, "ts-1")
		require.NoError(t, err)

		_, err = svc.Approve(ctx, supportActor, "ts-2")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("dispatcher failure does not fail the approval", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		dispatcher := &captureDispatcher{err: assert.AnError}
		result, err := newService(stores, dispatcher).Approve(ctx, adminActor, "ts-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, result.Status)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects submitted with reason, note and event", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		var createdNote *domain.Note
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
			Notes: &storemock.NoteRepo{
				CreateFn: func(ctx context.Context, note *domain.Note) error {
					createdNote = note
					return nil
				},
			},
		}
		dispatcher := &captureDispatcher{}
		result, err := newService(stores, dispatcher).Reject(ctx, adminActor, "ts-1", "missing receipt")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNeedsApproval, result.Status)
		require.NotNil(t, result.AdminNotes)
		assert.Equal(t, "missing receipt", *result.AdminNotes)

		require.NotNil(t, createdNote)
		assert.Equal(t, "Needs approval: missing receipt", createdNote.Content)
		assert.Equal(t, "admin-1", createdNote.AuthorID)

		require.Len(t, dispatcher.published, 1)
		assert.Equal(t, events.EventTimesheetNeedsAttention, dispatcher.published[0].Type)
		payload := dispatcher.published[0].Payload.(events.TimesheetNeedsAttentionPayload)
		assert.Equal(t, "missing receipt", payload.Reason)
	})

	t.Run("reason is optional", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
			Notes: &storemock.NoteRepo{
				CreateFn: func(ctx context.Context, note *domain.Note) error {
					t.Fatal("no note expected without a reason")
					return nil
				},
			},
		}
		result, err := newService(stores, &captureDispatcher{}).Reject(ctx, adminActor, "ts-1", "  ")
		require.NoError(t, err)
		assert.Nil(t, result.AdminNotes)
	})

	t.Run("only submitted timesheets can be rejected", func(t *testing.T) {
		for _, status := range []domain.Status{domain.StatusNeedsApproval, domain.StatusApproved} {
			sheet := traineeSheet(status)
			stores := repository.Stores{
				Timesheets: &storemock.TimesheetRepo{
					GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
						return sheet, nil
					},
				},
				PayPeriods: &storemock.PayPeriodRepo{},
			}
			_, err := newService(stores, &captureDispatcher{}).Reject(ctx, adminActor, "ts-1", "")
			de := assertCode(t, err, "INVALID_STATUS_TRANSITION")
			assert.Equal(t, string(status), de.Details["current_status"])
		}
	})

	t.Run("locked pay period blocks rejection", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{
				GetContainingFn: func(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
					return &domain.PayPeriod{StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 13)}, nil
				},
			},
		}
		_, err := newService(stores, &captureDispatcher{}).Reject(ctx, adminActor, "ts-1", "late")
		assertCode(t, err, "PAY_PERIOD_LOCKED")
	})
}

func TestUnapprove(t *testing.T) {
	ctx := context.Background()

	t.Run("clears approval fields", func(t *testing.T) {
		approvedAt := time.Now().UTC()
		approver := "admin-1"
		sheet := traineeSheet(domain.StatusApproved)
		sheet.ApprovedAt = &approvedAt
		sheet.ApprovedBy = &approver

		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		result, err := newService(stores, &captureDispatcher{}).Unapprove(ctx, adminActor, "ts-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, result.Status)
		assert.Nil(t, result.ApprovedAt)
		assert.Nil(t, result.ApprovedBy)
	})

	t.Run("only approved timesheets can be unapproved", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Unapprove(ctx, adminActor, "ts-1")
		assertCode(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("locked pay period blocks unapprove", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusApproved)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{
				GetContainingFn: func(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
					return &domain.PayPeriod{StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 13)}, nil
				},
			},
		}
		_, err := newService(stores, &captureDispatcher{}).Unapprove(ctx, adminActor, "ts-1")
		assertCode(t, err, "PAY_PERIOD_LOCKED")
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	owner := access.Actor{ID: "trainee-1", Role: domain.RoleTrainee}

	t.Run("submits draft and stamps submitted_at", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		result, err := newService(stores, &captureDispatcher{}).Submit(ctx, owner, "ts-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, result.Status)
		require.NotNil(t, result.SubmittedAt)
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Submit(ctx, owner, "ts-1")
		assertCode(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("owner cannot revert an approved sheet by resubmitting", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusApproved)
		approvedAt := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
		approver := "admin-1"
		sheet.ApprovedAt = &approvedAt
		sheet.ApprovedBy = &approver
		updated := false
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
				UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error {
					updated = true
					return nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Submit(ctx, owner, "ts-1")
		assertCode(t, err, "INVALID_STATUS_TRANSITION")
		assert.False(t, updated)
		assert.Equal(t, domain.StatusApproved, sheet.Status)
		assert.Equal(t, &approvedAt, sheet.ApprovedAt)
		assert.Equal(t, &approver, sheet.ApprovedBy)
	})

	t.Run("needs approval sheet cannot be resubmitted", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNeedsApproval)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Submit(ctx, owner, "ts-1")
		assertCode(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("someone else's sheet is reported absent", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).Submit(ctx, access.Actor{ID: "other", Role: domain.RoleStaff}, "ts-1")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("locked week blocks submission", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{
				GetContainingFn: func(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
					return &domain.PayPeriod{StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 13)}, nil
				},
			},
		}
		_, err := newService(stores, &captureDispatcher{}).Submit(ctx, owner, "ts-1")
		assertCode(t, err, "PAY_PERIOD_LOCKED")
	})
}

func TestTransitionsRunSerializable(t *testing.T) {
	ctx := context.Background()

	// Pay-period confirmation relies on SSI to abort when a transition
	// lands between its scan and insert; that only holds when the
	// transition side is serializable as well.
	cases := []struct {
		name  string
		sheet *domain.Timesheet
		run   func(s *TimesheetService) error
	}{
		{
			name:  "submit",
			sheet: traineeSheet(domain.StatusNew),
			run: func(s *TimesheetService) error {
				_, err := s.Submit(ctx, access.Actor{ID: "trainee-1", Role: domain.RoleTrainee}, "ts-1")
				return err
			},
		},
		{
			name:  "approve",
			sheet: traineeSheet(domain.StatusSubmitted),
			run: func(s *TimesheetService) error {
				_, err := s.Approve(ctx, adminActor, "ts-1")
				return err
			},
		},
		{
			name:  "reject",
			sheet: traineeSheet(domain.StatusSubmitted),
			run: func(s *TimesheetService) error {
				_, err := s.Reject(ctx, adminActor, "ts-1", "hours missing")
				return err
			},
		},
		{
			name:  "unapprove",
			sheet: traineeSheet(domain.StatusApproved),
			run: func(s *TimesheetService) error {
				_, err := s.Unapprove(ctx, adminActor, "ts-1")
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stores := repository.Stores{
				Timesheets: &storemock.TimesheetRepo{
					GetByIDForUpdateFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
						return tc.sheet, nil
					},
					UpdateFn: func(ctx context.Context, ts *domain.Timesheet) error { return nil },
				},
				PayPeriods: &storemock.PayPeriodRepo{},
				Notes:      &storemock.NoteRepo{},
			}
			serializable := false
			uow := &storemock.UoW{
				Stores: stores,
				WithinTxFn: func(ctx context.Context, fn func(repository.Stores) error) error {
					t.Fatalf("%s ran at default isolation", tc.name)
					return nil
				},
			}
			uow.WithinSerializableFn = func(ctx context.Context, fn func(repository.Stores) error) error {
				serializable = true
				return fn(stores)
			}
			svc := NewTimesheetService(TimesheetDependencies{
				UnitOfWork:    uow,
				TimesheetRepo: stores.Timesheets,
				PayPeriodRepo: stores.PayPeriods,
				NoteRepo:      stores.Notes,
				UserRepo:      stores.Users,
				Dispatcher:    &captureDispatcher{},
			})
			require.NoError(t, tc.run(svc))
			assert.True(t, serializable)
		})
	}
}

func TestGetForApprover(t *testing.T) {
	ctx := context.Background()

	t.Run("returns detail with notes and lock state", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusApproved)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{
				GetContainingFn: func(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
					return &domain.PayPeriod{StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 13)}, nil
				},
			},
			Notes: &storemock.NoteRepo{
				ListByTimesheetFn: func(ctx context.Context, timesheetID string) ([]domain.Note, error) {
					return []domain.Note{{ID: "n-1", Content: "checked"}}, nil
				},
			},
		}
		detail, err := newService(stores, &captureDispatcher{}).GetForApprover(ctx, adminActor, "ts-1")
		require.NoError(t, err)
		assert.Len(t, detail.Notes, 1)
		require.NotNil(t, detail.PayPeriod)
	})

	t.Run("draft is absent for every approver role", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		svc := newService(stores, &captureDispatcher{})
		for _, actor := range []access.Actor{adminActor, supportActor} {
			_, err := svc.GetForApprover(ctx, actor, "ts-1")
			assertCode(t, err, "NOT_FOUND")
		}
	})

	t.Run("support denied on staff sheet", func(t *testing.T) {
		sheet := staffSheet(domain.StatusSubmitted)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			PayPeriods: &storemock.PayPeriodRepo{},
		}
		_, err := newService(stores, &captureDispatcher{}).GetForApprover(ctx, supportActor, "ts-2")
		assertCode(t, err, "FORBIDDEN")
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("support listings scope to trainees", func(t *testing.T) {
		var captured repository.TimesheetFilter
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				ListWithFilterFn: func(ctx context.Context, filter repository.TimesheetFilter) ([]domain.Timesheet, int, error) {
					captured = filter
					return []domain.Timesheet{*traineeSheet(domain.StatusSubmitted)}, 1, nil
				},
			},
		}
		items, total, viewMode, err := newService(stores, &captureDispatcher{}).List(ctx, supportActor, TimesheetListInput{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, access.ViewModeTraineeApprovals, viewMode)
		assert.True(t, captured.ExcludeDrafts)
		require.NotNil(t, captured.OwnerRole)
		assert.Equal(t, domain.RoleTrainee, *captured.OwnerRole)
	})

	t.Run("admin listings exclude drafts only", func(t *testing.T) {
		var captured repository.TimesheetFilter
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				ListWithFilterFn: func(ctx context.Context, filter repository.TimesheetFilter) ([]domain.Timesheet, int, error) {
					captured = filter
					return nil, 0, nil
				},
			},
		}
		_, _, viewMode, err := newService(stores, &captureDispatcher{}).List(ctx, adminActor, TimesheetListInput{})
		require.NoError(t, err)
		assert.Equal(t, access.ViewModeAdmin, viewMode)
		assert.True(t, captured.ExcludeDrafts)
		assert.Nil(t, captured.OwnerRole)
	})
}

func TestAddNote(t *testing.T) {
	ctx := context.Background()

	t.Run("content required", func(t *testing.T) {
		svc := newService(repository.Stores{}, &captureDispatcher{})
		_, err := svc.AddNote(ctx, adminActor, "ts-1", "   ")
		assertCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("appends note on visible sheet", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusApproved)
		var created *domain.Note
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			Notes: &storemock.NoteRepo{
				CreateFn: func(ctx context.Context, note *domain.Note) error {
					created = note
					return nil
				},
			},
		}
		note, err := newService(stores, &captureDispatcher{}).AddNote(ctx, supportActor, "ts-1", "looks fine")
		require.NoError(t, err)
		assert.Equal(t, created, note)
		assert.Equal(t, "support-1", note.AuthorID)
	})

	t.Run("approver cannot note a draft", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
		}
		_, err := newService(stores, &captureDispatcher{}).AddNote(ctx, adminActor, "ts-1", "sneaky")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("owner may note their own draft", func(t *testing.T) {
		sheet := traineeSheet(domain.StatusNew)
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				GetByIDFn: func(ctx context.Context, id string) (*domain.Timesheet, error) {
					return sheet, nil
				},
			},
			Notes: &storemock.NoteRepo{},
		}
		owner := access.Actor{ID: "trainee-1", Role: domain.RoleTrainee}
		_, err := newService(stores, &captureDispatcher{}).AddNote(ctx, owner, "ts-1", "wip")
		require.NoError(t, err)
	})
}

func TestEnsureDraft(t *testing.T) {
	ctx := context.Background()
	owner := access.Actor{ID: "staff-1", Role: domain.RoleStaff}

	t.Run("rejects non-sunday week start", func(t *testing.T) {
		svc := newService(repository.Stores{}, &captureDispatcher{})
		_, err := svc.EnsureDraft(ctx, owner, weekStart.AddDate(0, 0, 1))
		assertCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("creates or returns the week's draft", func(t *testing.T) {
		stores := repository.Stores{
			Timesheets: &storemock.TimesheetRepo{
				EnsureDraftFn: func(ctx context.Context, userID string, ws time.Time) (*domain.Timesheet, error) {
					assert.Equal(t, "staff-1", userID)
					assert.True(t, ws.Equal(weekStart))
					return staffSheet(domain.StatusNew), nil
				},
			},
		}
		ts, err := newService(stores, &captureDispatcher{}).EnsureDraft(ctx, owner, weekStart)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, ts.Status)
	})
}

func TestSendUnsubmittedReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		svc := newService(repository.Stores{}, &captureDispatcher{})
		_, err := svc.SendUnsubmittedReminders(ctx, supportActor, weekStart)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("publishes one event per unsubmitted user", func(t *testing.T) {
		stores := repository.Stores{
			Users: &storemock.UserRepo{
				ListWithoutSubmissionFn: func(ctx context.Context, ws time.Time) ([]domain.User, error) {
					return []domain.User{{ID: "u-1"}, {ID: "u-2"}}, nil
				},
			},
		}
		dispatcher := &captureDispatcher{}
		count, err := newService(stores, dispatcher).SendUnsubmittedReminders(ctx, adminActor, weekStart)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		require.Len(t, dispatcher.published, 2)
		assert.Equal(t, events.EventUnsubmittedReminder, dispatcher.published[0].Type)
	})
}
