package domain

import "time"

// Status enumerates timesheet lifecycle states.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusSubmitted     Status = "SUBMITTED"
	StatusApproved      Status = "APPROVED"
	StatusNeedsApproval Status = "NEEDS_APPROVAL"
)

// ParseStatus validates a status string against the closed set.
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusNew, StatusSubmitted, StatusApproved, StatusNeedsApproval:
		return Status(value), true
	}
	return "", false
}

// HourType enumerates the hour categories entries are logged under.
type HourType string

const (
	HourTypeRegular HourType = "Regular"
	HourTypeField   HourType = "Field"
	HourTypeTravel  HourType = "Travel"
	HourTypePTO     HourType = "PTO"
)

// Timesheet is the aggregate for one user's work week. A record exists
// per (user, week start) pair, created as a draft the first time the
// user touches the week. WeekStart is always a Sunday.
type Timesheet struct {
	ID          string
	UserID      string
	WeekStart   time.Time
	Status      Status
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	ApprovedBy  *string
	AdminNotes  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is populated by joined queries for listing and scoping.
	Owner *User
}

// TimesheetEntry is one day's hours on a timesheet.
type TimesheetEntry struct {
	ID          string
	TimesheetID string
	WorkDate    time.Time
	HourType    HourType
	Hours       float64
	CreatedAt   time.Time
}

// transitions is the closed transition table. NEEDS_APPROVAL only
// moves forward to APPROVED; there is no path back to SUBMITTED.
var transitions = map[Status][]Status{
	StatusNew:           {StatusSubmitted},
	StatusSubmitted:     {StatusApproved, StatusNeedsApproval},
	StatusNeedsApproval: {StatusApproved},
	StatusApproved:      {StatusSubmitted},
}

// CanTransition reports whether moving from one status to another is in
// the transition table.
func CanTransition(from, to Status) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsSunday reports whether the date falls on a Sunday in UTC.
func IsSunday(date time.Time) bool {
	return date.UTC().Weekday() == time.Sunday
}
