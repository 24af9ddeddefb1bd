package domain

import "time"

// Note is a free-text annotation on a timesheet. Notes are append-only
// and are never edited or deleted.
type Note struct {
	ID          string
	TimesheetID string
	AuthorID    string
	Content     string
	CreatedAt   time.Time

	// AuthorName is populated by joined queries for display.
	AuthorName string
}
