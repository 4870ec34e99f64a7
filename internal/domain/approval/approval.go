package approval

import (
	"strings"

	"hrms/internal/apperr"
	"hrms/internal/domain/auth"
)

// Status lifecycle attached to policy-like records. Any of the three
// values may be set from any prior state; only creation is gated on the
// actor's privilege.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var validStatuses = []string{StatusApproved, StatusPending, StatusRejected}

// ValidateStatus checks a requested status transition target.
func ValidateStatus(status string) error {
	for _, valid := range validStatuses {
		if status == valid {
			return nil
		}
	}
	return apperr.Validation("Invalid status. Valid statuses are: %s", strings.Join(validStatuses, ", "))
}

// Initial returns the creation-time status: admin-created records are
// auto-approved, everything else awaits approval.
func Initial(actor auth.Actor) string {
	if actor.IsAdmin() {
		return StatusApproved
	}
	return StatusPending
}

// CreatedBy mirrors the record-attribution rule: admins are recorded by
// display name, other actors by id.
func CreatedBy(actor auth.Actor) string {
	if actor.IsAdmin() {
		return actor.Name
	}
	return actor.ID
}

// TransitionMessage renders the "... approved successfully" response line.
func TransitionMessage(entity, status string) string {
	return entity + " " + strings.ToLower(status) + " successfully"
}
