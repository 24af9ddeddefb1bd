// Package access decides which actors may see or change which
// timesheets. Checks are explicit functions called at the top of each
// service operation; they never mutate and never panic as control flow.
package access

import (
	"github.com/spec-kit/timesheet-service/internal/domain"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// Actor identifies the authenticated caller for a single operation.
// It is passed explicitly; nothing in the core reads ambient session
// state.
type Actor struct {
	ID   string
	Role domain.Role
}

// Operation enumerates the capabilities the gate rules on.
type Operation string

const (
	// OpView is reading a single timesheet or listing.
	OpView Operation = "view"
	// OpModerate covers approve, reject, unapprove and admin notes.
	OpModerate Operation = "moderate"
	// OpAnnotate is appending a plain note.
	OpAnnotate Operation = "annotate"
	// OpSelfService covers owner actions on their own sheet.
	OpSelfService Operation = "self_service"
)

// View modes tag approver listings so callers can render appropriately.
// This is metadata, not an authorization decision.
const (
	ViewModeAdmin            = "admin"
	ViewModeTraineeApprovals = "trainee_approvals"
)

// ViewMode returns the listing view mode for an approver role.
func ViewMode(role domain.Role) string {
	if role == domain.RoleSupport {
		return ViewModeTraineeApprovals
	}
	return ViewModeAdmin
}

// Authorize decides whether the actor may perform the operation on a
// timesheet owned by owner. It returns nil or a typed Forbidden error.
//
// Draft visibility is not decided here: callers must map drafts to
// NotFound for approvers before the role check, so existence is never
// leaked through a Forbidden response.
func Authorize(actor Actor, owner *domain.User, op Operation) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSupport:
		if owner != nil && owner.Role == domain.RoleTrainee {
			return nil
		}
		return apperrors.NewForbidden("support may only access trainee timesheets")
	case domain.RoleStaff, domain.RoleTrainee:
		if op == OpModerate {
			return apperrors.NewForbidden("approver role required")
		}
		if owner != nil && owner.ID == actor.ID {
			return nil
		}
		return apperrors.NewForbidden("access denied")
	default:
		return apperrors.NewForbidden("access denied")
	}
}

// AuthorizePayPeriod gates pay-period confirmation and status reads.
// Pay periods are admin-only; support approval rights do not extend to
// payroll.
func AuthorizePayPeriod(actor Actor) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	return apperrors.NewForbidden("admin role required")
}
