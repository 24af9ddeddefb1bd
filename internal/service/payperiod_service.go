package service

import (
	"context"
	"time"

	"github.com/spec-kit/timesheet-service/internal/access"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/repository"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// PayPeriodService confirms pay periods. Confirmation scans contained
// timesheets and inserts the period row inside a single serializable
// transaction, so an approval landing between scan and insert aborts
// the confirmation instead of being silently locked in.
type PayPeriodService struct {
	uow        repository.UnitOfWork
	payperiods repository.PayPeriodRepository
}

// NewPayPeriodService constructs the service.
func NewPayPeriodService(uow repository.UnitOfWork, payperiods repository.PayPeriodRepository) *PayPeriodService {
	return &PayPeriodService{uow: uow, payperiods: payperiods}
}

// PayPeriodStatus reports whether a window is confirmed.
type PayPeriodStatus struct {
	StartDate time.Time
	EndDate   time.Time
	Confirmed bool
	PayPeriod *domain.PayPeriod
}

// Confirm validates and confirms the 14-day window [start, end],
// locking every contained timesheet permanently. Admin only.
func (s *PayPeriodService) Confirm(ctx context.Context, actor access.Actor, start, end time.Time) (*domain.PayPeriod, error) {
	if err := access.AuthorizePayPeriod(actor); err != nil {
		return nil, err
	}
	if !domain.ValidPayPeriodSpan(start, end) {
		return nil, apperrors.NewValidationError("pay period must start on Sunday and span 14 days", nil)
	}

	period := &domain.PayPeriod{
		StartDate:   start,
		EndDate:     end,
		ConfirmedBy: actor.ID,
	}
	err := s.uow.WithinSerializableTx(ctx, func(stores repository.Stores) error {
		existing, err := stores.PayPeriods.GetByStartDate(ctx, start)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewAlreadyConfirmed(start)
		}
		overlapping, err := stores.PayPeriods.GetOverlapping(ctx, start, end)
		if err != nil {
			return err
		}
		if overlapping != nil {
			return apperrors.NewValidationError("pay period dates collide with an existing period", map[string]any{
				"conflicting_start": overlapping.StartDate.Format("2006-01-02"),
			})
		}

		counts, err := stores.Timesheets.CountByStatusInRange(ctx, start, end)
		if err != nil {
			return err
		}
		pending := 0
		statusCounts := make(map[string]int)
		for status, count := range counts {
			if status == domain.StatusApproved {
				continue
			}
			pending += count
			statusCounts[string(status)] = count
		}
		if pending > 0 {
			return apperrors.NewPendingApprovals(pending, statusCounts)
		}

		return stores.PayPeriods.Create(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// Status reports confirmation state for a window. The stored end date
// must match the requested one when the period exists.
func (s *PayPeriodService) Status(ctx context.Context, actor access.Actor, start, end time.Time) (*PayPeriodStatus, error) {
	if err := access.AuthorizePayPeriod(actor); err != nil {
		return nil, err
	}

	period, err := s.payperiods.GetByStartDate(ctx, start)
	if err != nil {
		return nil, err
	}
	if period != nil && !period.EndDate.Equal(end) {
		return nil, apperrors.NewValidationError("pay period dates do not match existing record", nil)
	}
	return &PayPeriodStatus{
		StartDate: start,
		EndDate:   end,
		Confirmed: period != nil,
		PayPeriod: period,
	}, nil
}
