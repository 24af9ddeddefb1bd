package events

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTimesheetApproved       EventType = "approved"
	EventTimesheetNeedsAttention EventType = "needs_attention"
	EventUnsubmittedReminder     EventType = "unsubmitted_reminder"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services after a
// successful commit. Delivery is best-effort; publishing failures must
// never affect the state transition that produced the event.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	TimesheetID string      `json:"timesheet_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TimesheetApprovedPayload payload.
type TimesheetApprovedPayload struct {
	OwnerID    string     `json:"owner_id"`
	WeekStart  time.Time  `json:"week_start"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// TimesheetNeedsAttentionPayload payload.
type TimesheetNeedsAttentionPayload struct {
	OwnerID   string    `json:"owner_id"`
	WeekStart time.Time `json:"week_start"`
	Reason    string    `json:"reason,omitempty"`
}

// UnsubmittedReminderPayload payload.
type UnsubmittedReminderPayload struct {
	OwnerID   string    `json:"owner_id"`
	WeekStart time.Time `json:"week_start"`
}
