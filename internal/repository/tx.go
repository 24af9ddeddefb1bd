package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so the same repositories serve pooled reads and transactional
// read-check-write flows.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles the repositories bound to one Querier.
type Stores struct {
	Users      UserRepository
	Timesheets TimesheetRepository
	PayPeriods PayPeriodRepository
	Notes      NoteRepository
}

// NewStores builds repositories over the given Querier.
func NewStores(q Querier) Stores {
	return Stores{
		Users:      NewUserRepository(q),
		Timesheets: NewTimesheetRepository(q),
		PayPeriods: NewPayPeriodRepository(q),
		Notes:      NewNoteRepository(q),
	}
}

// UnitOfWork runs a function against transaction-bound stores. Every
// mutating workflow goes through it so that status checks and writes
// observe one consistent snapshot.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
	// WithinSerializableTx runs at SERIALIZABLE isolation, retrying
	// once on a serialization failure. Status transitions and
	// pay-period confirmation both use it: SSI only detects the
	// scan-vs-transition race when every participant is serializable.
	WithinSerializableTx(ctx context.Context, fn func(Stores) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork wraps a pgx pool.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) WithinTx(ctx context.Context, fn func(Stores) error) error {
	return u.run(ctx, pgx.TxOptions{}, fn)
}

func (u *pgxUnitOfWork) WithinSerializableTx(ctx context.Context, fn func(Stores) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.run(ctx, opts, fn)
	if isSerializationFailure(err) {
		err = u.run(ctx, opts, fn)
	}
	return err
}

func (u *pgxUnitOfWork) run(ctx context.Context, opts pgx.TxOptions, fn func(Stores) error) error {
	tx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewStores(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
