package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// HourTypeHasField is the special listing filter matching any timesheet
// that carries Field hours, regardless of other entries.
const HourTypeHasField = "has_field"

// TimesheetFilter captures approver search parameters.
type TimesheetFilter struct {
	Status        *domain.Status
	UserID        *string
	WeekStart     *time.Time
	OwnerRole     *domain.Role
	HourType      *string
	ExcludeDrafts bool
	Limit         int
	Offset        int
}

// TimesheetRepository encapsulates timesheet persistence.
type TimesheetRepository interface {
	// EnsureDraft creates the NEW record for (user, week) if absent and
	// returns the row either way. The unique constraint on
	// (user_id, week_start) makes concurrent first touches converge.
	EnsureDraft(ctx context.Context, userID string, weekStart time.Time) (*domain.Timesheet, error)
	GetByID(ctx context.Context, id string) (*domain.Timesheet, error)
	// GetByIDForUpdate loads the row with its owner under a row lock,
	// pinning the status for the remainder of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Timesheet, error)
	Update(ctx context.Context, ts *domain.Timesheet) error
	ListWithFilter(ctx context.Context, filter TimesheetFilter) ([]domain.Timesheet, int, error)
	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.Timesheet, error)
	// CountByStatusInRange groups timesheets with week_start inside
	// [start, end] by status.
	CountByStatusInRange(ctx context.Context, start, end time.Time) (map[domain.Status]int, error)
}

type timesheetRepository struct {
	q Querier
}

// NewTimesheetRepository instantiates the repository.
func NewTimesheetRepository(q Querier) TimesheetRepository {
	return &timesheetRepository{q: q}
}

const timesheetJoinColumns = `
        t.id, t.user_id, t.week_start, t.status, t.submitted_at, t.approved_at,
        t.approved_by, t.admin_notes, t.created_at, t.updated_at,
        u.id, u.email, u.display_name, u.phone, u.password_hash, u.role,
        u.sms_opt_in, u.created_at, u.updated_at`

func (r *timesheetRepository) EnsureDraft(ctx context.Context, userID string, weekStart time.Time) (*domain.Timesheet, error) {
	const insert = `
        INSERT INTO timesheets (user_id, week_start, status)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, week_start) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, userID, weekStart, domain.StatusNew); err != nil {
		return nil, err
	}

	const query = `
        SELECT` + timesheetJoinColumns + `
        FROM timesheets t JOIN users u ON u.id = t.user_id
        WHERE t.user_id=$1 AND t.week_start=$2`
	return r.fetchSingle(ctx, query, userID, weekStart)
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (*domain.Timesheet, error) {
	const query = `
        SELECT` + timesheetJoinColumns + `
        FROM timesheets t JOIN users u ON u.id = t.user_id
        WHERE t.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *timesheetRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Timesheet, error) {
	const query = `
        SELECT` + timesheetJoinColumns + `
        FROM timesheets t JOIN users u ON u.id = t.user_id
        WHERE t.id=$1
        FOR UPDATE OF t`
	return r.fetchSingle(ctx, query, id)
}

func (r *timesheetRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Timesheet, error) {
	row := r.q.QueryRow(ctx, query, args...)
	ts, err := scanTimesheetWithOwner(row)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *timesheetRepository) Update(ctx context.Context, ts *domain.Timesheet) error {
	const query = `
        UPDATE timesheets SET status=$1, submitted_at=$2, approved_at=$3,
            approved_by=$4, admin_notes=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.q.Exec(ctx, query,
		ts.Status,
		ts.SubmittedAt,
		ts.ApprovedAt,
		ts.ApprovedBy,
		ts.AdminNotes,
		ts.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timesheetRepository) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.Timesheet, error) {
	filter := TimesheetFilter{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	}
	items, _, err := r.ListWithFilter(ctx, filter)
	return items, err
}

func (r *timesheetRepository) ListWithFilter(ctx context.Context, filter TimesheetFilter) ([]domain.Timesheet, int, error) {
	clauses, args := buildTimesheetClauses(filter)
	where := strings.Join(clauses, " AND ")

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM timesheets t JOIN users u ON u.id = t.user_id WHERE %s`, where)
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT`+timesheetJoinColumns+`
        FROM timesheets t JOIN users u ON u.id = t.user_id
        WHERE %s
        ORDER BY t.submitted_at DESC NULLS LAST, t.week_start DESC
        LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanTimesheets(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *timesheetRepository) CountByStatusInRange(ctx context.Context, start, end time.Time) (map[domain.Status]int, error) {
	const query = `
        SELECT status, COUNT(*)
        FROM timesheets
        WHERE week_start >= $1 AND week_start <= $2
        GROUP BY status`

	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func buildTimesheetClauses(filter TimesheetFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ExcludeDrafts {
		args = append(args, domain.StatusNew)
		clauses = append(clauses, fmt.Sprintf("t.status <> $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("t.user_id = $%d", len(args)))
	}
	if filter.WeekStart != nil {
		args = append(args, *filter.WeekStart)
		clauses = append(clauses, fmt.Sprintf("t.week_start = $%d", len(args)))
	}
	if filter.OwnerRole != nil {
		args = append(args, *filter.OwnerRole)
		clauses = append(clauses, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if filter.HourType != nil && strings.TrimSpace(*filter.HourType) != "" {
		hourType := strings.TrimSpace(*filter.HourType)
		if hourType == HourTypeHasField {
			hourType = string(domain.HourTypeField)
		}
		args = append(args, hourType)
		clauses = append(clauses, fmt.Sprintf(
			"t.id IN (SELECT e.timesheet_id FROM timesheet_entries e WHERE e.hour_type = $%d)", len(args)))
	}
	return clauses, args
}

func scanTimesheets(rows pgx.Rows) ([]domain.Timesheet, error) {
	var result []domain.Timesheet
	for rows.Next() {
		ts, err := scanTimesheetWithOwner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ts)
	}
	return result, rows.Err()
}

func scanTimesheetWithOwner(row pgx.Row) (*domain.Timesheet, error) {
	var ts domain.Timesheet
	var owner domain.User
	if err := row.Scan(
		&ts.ID,
		&ts.UserID,
		&ts.WeekStart,
		&ts.Status,
		&ts.SubmittedAt,
		&ts.ApprovedAt,
		&ts.ApprovedBy,
		&ts.AdminNotes,
		&ts.CreatedAt,
		&ts.UpdatedAt,
		&owner.ID,
		&owner.Email,
		&owner.DisplayName,
		&owner.Phone,
		&owner.PasswordHash,
		&owner.Role,
		&owner.SMSOptIn,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ts.Owner = &owner
	return &ts, nil
}
