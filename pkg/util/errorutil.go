package util

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewInvalidStatusTransition reports a transition not present in the
// status table, naming both sides so callers can see what they raced.
func NewInvalidStatusTransition(current, requested string) error {
	return NewDomainError(
		"INVALID_STATUS_TRANSITION",
		fmt.Sprintf("cannot move timesheet from %s to %s", current, requested),
		http.StatusConflict,
		map[string]any{"current_status": current, "requested_status": requested},
	)
}

// NewPayPeriodLocked reports a mutation blocked by a confirmed pay period.
func NewPayPeriodLocked(weekStart time.Time) error {
	return NewDomainError(
		"PAY_PERIOD_LOCKED",
		"pay period has been confirmed and is locked",
		http.StatusConflict,
		map[string]any{"week_start": weekStart.Format("2006-01-02")},
	)
}

// NewAlreadyConfirmed reports a duplicate pay-period confirmation.
func NewAlreadyConfirmed(startDate time.Time) error {
	return NewDomainError(
		"ALREADY_CONFIRMED",
		"pay period already confirmed",
		http.StatusConflict,
		map[string]any{"start_date": startDate.Format("2006-01-02")},
	)
}

// NewPendingApprovals rejects confirmation while timesheets in the
// period remain unapproved, with a per-status breakdown.
func NewPendingApprovals(pending int, statusCounts map[string]int) error {
	return NewDomainError(
		"PENDING_APPROVALS",
		"all timesheets must be approved before confirmation",
		http.StatusConflict,
		map[string]any{"pending_count": pending, "status_counts": statusCounts},
	)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
