package leave

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/approval"
	"hrms/internal/domain/auth"
)

// Service enforces the leave catalogue rules: leave type uniqueness,
// policy entitlement validation, the approval workflow, and referential
// guards ahead of deletes.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type LeaveTypeInput struct {
	Name string `json:"name"`
}

func (s *Service) ListLeaveTypes(ctx context.Context, search string, limit, offset int) ([]LeaveType, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.CountLeaveTypes(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	types, err := s.store.ListLeaveTypes(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return types, total, nil
}

func (s *Service) LeaveTypeOptions(ctx context.Context) ([]Option, error) {
	return s.store.LeaveTypeOptions(ctx)
}

func (s *Service) GetLeaveType(ctx context.Context, id string) (*LeaveType, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Type Not Found")
	}
	lt, err := s.store.GetLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, apperr.NotFound("Leave Type Not Found")
	}
	return lt, nil
}

func (s *Service) CreateLeaveType(ctx context.Context, actor auth.Actor, in LeaveTypeInput) (*LeaveType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Leave type name is required")
	}

	existing, err := s.store.FindLeaveTypeByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Leave type with this name already exists")
	}

	return s.store.CreateLeaveType(ctx, LeaveType{Name: name, CreatedBy: actor.ID})
}

func (s *Service) UpdateLeaveType(ctx context.Context, actor auth.Actor, id string, in LeaveTypeInput) (*LeaveType, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Type Not Found")
	}
	lt, err := s.store.GetLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, apperr.NotFound("Leave type not found")
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != lt.Name {
		existing, err := s.store.FindLeaveTypeByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Leave type with this name already exists")
		}
		lt.Name = name
	}

	return s.store.UpdateLeaveType(ctx, *lt)
}

func (s *Service) DeleteLeaveType(ctx context.Context, id string) (*LeaveType, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Type Not Found")
	}
	lt, err := s.store.GetLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, apperr.NotFound("Leave type not found")
	}

	used, err := s.store.CountPoliciesByLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if used > 0 {
		noun := "policies"
		if used == 1 {
			noun = "policy"
		}
		return nil, apperr.Conflict("Cannot delete leave type used in %d leave %s. Please update those policies first.", used, noun)
	}

	if err := s.store.DeleteLeaveType(ctx, id); err != nil {
		return nil, err
	}
	return lt, nil
}

type EntitlementInput struct {
	LeaveType string   `json:"leaveType"`
	Days      *float64 `json:"days"`
}

type PolicyInput struct {
	Name         string             `json:"name"`
	Entitlements []EntitlementInput `json:"entitlements"`
}

func (s *Service) ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.CountPolicies(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	policies, err := s.store.ListPolicies(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

func (s *Service) PolicyOptions(ctx context.Context) ([]Option, error) {
	return s.store.PolicyOptions(ctx)
}

func (s *Service) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Leave Policy Not Found")
	}
	return p, nil
}

func (s *Service) CreatePolicy(ctx context.Context, actor auth.Actor, in PolicyInput) (*Policy, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Leave policy name is required")
	}

	entitlements, err := s.validateEntitlements(ctx, in.Entitlements)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindPolicyByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Leave policy with this name already exists")
	}

	return s.store.CreatePolicy(ctx, Policy{
		Name:         name,
		Entitlements: entitlements,
		Status:       approval.Initial(actor),
		CreatedBy:    approval.CreatedBy(actor),
	})
}

func (s *Service) UpdatePolicy(ctx context.Context, actor auth.Actor, id string, in PolicyInput) (*Policy, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Leave policy not found")
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != p.Name {
		existing, err := s.store.FindPolicyByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Leave policy with this name already exists")
		}
		p.Name = name
	}

	// A nil slice means entitlements were omitted; an empty one was
	// sent explicitly and is rejected.
	if in.Entitlements != nil {
		entitlements, err := s.validateEntitlements(ctx, in.Entitlements)
		if err != nil {
			return nil, err
		}
		p.Entitlements = entitlements
	}

	return s.store.UpdatePolicy(ctx, *p)
}

// UpdatePolicyStatus moves a policy between the approval states. Any of
// the valid statuses is accepted regardless of the current one.
func (s *Service) UpdatePolicyStatus(ctx context.Context, id, status string) (*Policy, string, error) {
	if uuid.Validate(id) != nil {
		return nil, "", apperr.NotFound("Leave Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", apperr.NotFound("Leave policy not found")
	}

	if err := approval.ValidateStatus(status); err != nil {
		return nil, "", err
	}

	updated, err := s.store.SetPolicyStatus(ctx, id, status)
	if err != nil {
		return nil, "", err
	}
	return updated, approval.TransitionMessage("Leave policy", status), nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) (*Policy, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Leave Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Leave policy not found")
	}

	assigned, err := s.store.CountPositionsByPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if assigned > 0 {
		return nil, apperr.Conflict("Cannot delete leave policy assigned to %d position(s). Please reassign positions first.", assigned)
	}

	if err := s.store.DeletePolicy(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// validateEntitlements checks shape, days, and leave type existence, in
// that order, failing on the first bad entry.
func (s *Service) validateEntitlements(ctx context.Context, in []EntitlementInput) ([]Entitlement, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("At least one leave type entitlement is required")
	}

	out := make([]Entitlement, 0, len(in))
	for _, e := range in {
		leaveTypeID := strings.TrimSpace(e.LeaveType)
		if leaveTypeID == "" || uuid.Validate(leaveTypeID) != nil {
			return nil, apperr.Validation("Invalid leave type ID in entitlements")
		}
		if e.Days == nil || *e.Days < 0 {
			return nil, apperr.Validation("Days must be a non-negative number")
		}
		exists, err := s.store.LeaveTypeExists(ctx, leaveTypeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("Leave type not found")
		}
		out = append(out, Entitlement{LeaveTypeID: leaveTypeID, Days: *e.Days})
	}
	return out, nil
}
