package repository

import (
	"context"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// NoteRepository encapsulates note persistence. Notes are append-only.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	ListByTimesheet(ctx context.Context, timesheetID string) ([]domain.Note, error)
}

type noteRepository struct {
	q Querier
}

// NewNoteRepository instantiates the repository.
func NewNoteRepository(q Querier) NoteRepository {
	return &noteRepository{q: q}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        INSERT INTO notes (timesheet_id, author_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		note.TimesheetID,
		note.AuthorID,
		note.Content,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByTimesheet(ctx context.Context, timesheetID string) ([]domain.Note, error) {
	const query = `
        SELECT n.id, n.timesheet_id, n.author_id, n.content, n.created_at, u.display_name
        FROM notes n JOIN users u ON u.id = n.author_id
        WHERE n.timesheet_id=$1
        ORDER BY n.created_at`

	rows, err := r.q.Query(ctx, query, timesheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.TimesheetID,
			&note.AuthorID,
			&note.Content,
			&note.CreatedAt,
			&note.AuthorName,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
