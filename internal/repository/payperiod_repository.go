package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// PayPeriodRepository encapsulates pay-period persistence. Pay periods
// are insert-only; there is no update or delete path.
type PayPeriodRepository interface {
	Create(ctx context.Context, period *domain.PayPeriod) error
	GetByStartDate(ctx context.Context, start time.Time) (*domain.PayPeriod, error)
	// GetContaining returns the confirmed period whose [start, end]
	// range covers the date, or nil when the date is unlocked.
	GetContaining(ctx context.Context, date time.Time) (*domain.PayPeriod, error)
	// GetOverlapping returns any confirmed period whose range collides
	// with [start, end], or nil.
	GetOverlapping(ctx context.Context, start, end time.Time) (*domain.PayPeriod, error)
}

type payPeriodRepository struct {
	q Querier
}

// NewPayPeriodRepository instantiates the repository.
func NewPayPeriodRepository(q Querier) PayPeriodRepository {
	return &payPeriodRepository{q: q}
}

const payPeriodColumns = `id, start_date, end_date, confirmed_by, confirmed_at`

func (r *payPeriodRepository) Create(ctx context.Context, period *domain.PayPeriod) error {
	const query = `
        INSERT INTO pay_periods (start_date, end_date, confirmed_by)
        VALUES ($1, $2, $3)
        RETURNING id, confirmed_at`
	return r.q.QueryRow(ctx, query,
		period.StartDate,
		period.EndDate,
		period.ConfirmedBy,
	).Scan(&period.ID, &period.ConfirmedAt)
}

func (r *payPeriodRepository) GetByStartDate(ctx context.Context, start time.Time) (*domain.PayPeriod, error) {
	const query = `SELECT ` + payPeriodColumns + ` FROM pay_periods WHERE start_date=$1`
	return r.fetchSingle(ctx, query, start)
}

func (r *payPeriodRepository) GetContaining(ctx context.Context, date time.Time) (*domain.PayPeriod, error) {
	const query = `
        SELECT ` + payPeriodColumns + `
        FROM pay_periods
        WHERE start_date <= $1 AND end_date >= $1
        LIMIT 1`
	return r.fetchSingle(ctx, query, date)
}

func (r *payPeriodRepository) GetOverlapping(ctx context.Context, start, end time.Time) (*domain.PayPeriod, error) {
	const query = `
        SELECT ` + payPeriodColumns + `
        FROM pay_periods
        WHERE start_date <= $2 AND end_date >= $1
        LIMIT 1`
	return r.fetchSingle(ctx, query, start, end)
}

func (r *payPeriodRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.PayPeriod, error) {
	var period domain.PayPeriod
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&period.ID,
		&period.StartDate,
		&period.EndDate,
		&period.ConfirmedBy,
		&period.ConfirmedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}
