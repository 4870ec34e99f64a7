package leave

import "context"

// StoreAPI is the persistence surface for leave types and policies.
// Lookups return nil (not an error) when no record matches.
type StoreAPI interface {
	GetLeaveType(ctx context.Context, id string) (*LeaveType, error)
	FindLeaveTypeByName(ctx context.Context, name, excludeID string) (*LeaveType, error)
	CountLeaveTypes(ctx context.Context, search string) (int, error)
	ListLeaveTypes(ctx context.Context, search string, limit, offset int) ([]LeaveType, error)
	LeaveTypeOptions(ctx context.Context) ([]Option, error)
	CreateLeaveType(ctx context.Context, lt LeaveType) (*LeaveType, error)
	UpdateLeaveType(ctx context.Context, lt LeaveType) (*LeaveType, error)
	DeleteLeaveType(ctx context.Context, id string) error
	LeaveTypeExists(ctx context.Context, id string) (bool, error)
	CountPoliciesByLeaveType(ctx context.Context, leaveTypeID string) (int, error)

	GetPolicy(ctx context.Context, id string) (*Policy, error)
	FindPolicyByName(ctx context.Context, name, excludeID string) (*Policy, error)
	CountPolicies(ctx context.Context, search string) (int, error)
	ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, error)
	PolicyOptions(ctx context.Context) ([]Option, error)
	CreatePolicy(ctx context.Context, p Policy) (*Policy, error)
	UpdatePolicy(ctx context.Context, p Policy) (*Policy, error)
	SetPolicyStatus(ctx context.Context, id, status string) (*Policy, error)
	DeletePolicy(ctx context.Context, id string) error
	CountPositionsByPolicy(ctx context.Context, policyID string) (int, error)
}
