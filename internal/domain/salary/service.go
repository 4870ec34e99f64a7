package salary

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/approval"
	"hrms/internal/domain/auth"
)

// Service enforces the compensation catalogue rules: component and
// policy name uniqueness, component amount validation, the approval
// workflow, and the component usage guard ahead of deletes. Policies
// track no dependents and delete unconditionally.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type ComponentInput struct {
	Name string `json:"name"`
}

func (s *Service) ListComponents(ctx context.Context, search string, limit, offset int) ([]Component, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.CountComponents(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	components, err := s.store.ListComponents(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return components, total, nil
}

func (s *Service) ComponentOptions(ctx context.Context) ([]Option, error) {
	return s.store.ComponentOptions(ctx)
}

func (s *Service) GetComponent(ctx context.Context, id string) (*Component, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Salary Component Not Found")
	}
	c, err := s.store.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Salary Component Not Found")
	}
	return c, nil
}

func (s *Service) CreateComponent(ctx context.Context, actor auth.Actor, in ComponentInput) (*Component, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Salary component name is required")
	}

	existing, err := s.store.FindComponentByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Salary component with this name already exists")
	}

	return s.store.CreateComponent(ctx, Component{
		Name:      name,
		Status:    approval.Initial(actor),
		CreatedBy: approval.CreatedBy(actor),
	})
}

func (s *Service) UpdateComponent(ctx context.Context, actor auth.Actor, id string, in ComponentInput) (*Component, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Salary Component Not Found")
	}
	c, err := s.store.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Salary component not found")
	}

	// Unlike policies, a component's name is its only payload and is
	// required on update.
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Salary component name is required")
	}

	if name != c.Name {
		existing, err := s.store.FindComponentByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Salary component with this name already exists")
		}
	}
	c.Name = name

	return s.store.UpdateComponent(ctx, *c)
}

func (s *Service) UpdateComponentStatus(ctx context.Context, id, status string) (*Component, string, error) {
	if uuid.Validate(id) != nil {
		return nil, "", apperr.NotFound("Salary Component Not Found")
	}
	c, err := s.store.GetComponent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c == nil {
		return nil, "", apperr.NotFound("Salary component not found")
	}

	if err := approval.ValidateStatus(status); err != nil {
		return nil, "", err
	}

	updated, err := s.store.SetComponentStatus(ctx, id, status)
	if err != nil {
		return nil, "", err
	}
	return updated, approval.TransitionMessage("Salary component", status), nil
}

func (s *Service) DeleteComponent(ctx context.Context, id string) (*Component, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Salary Component Not Found")
	}
	c, err := s.store.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Salary component not found")
	}

	used, err := s.store.CountPoliciesByComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	if used > 0 {
		noun := "policies"
		if used == 1 {
			noun = "policy"
		}
		return nil, apperr.Conflict("Cannot delete salary component. It is currently used in %d salary %s. Please remove it from all salary policies first.", used, noun)
	}

	if err := s.store.DeleteComponent(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

type PolicyComponentInput struct {
	SalaryComponent string   `json:"salaryComponent"`
	Amount          *float64 `json:"amount"`
}

type PolicyInput struct {
	Name       string                 `json:"name"`
	Components []PolicyComponentInput `json:"components"`
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
		return nil, apperr.NotFound("Salary Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Salary Policy Not Found")
	}
	return p, nil
}

func (s *Service) CreatePolicy(ctx context.Context, actor auth.Actor, in PolicyInput) (*Policy, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Salary policy name is required")
	}

	components, err := s.validateComponents(ctx, in.Components)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindPolicyByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Salary policy with this name already exists")
	}

	return s.store.CreatePolicy(ctx, Policy{
		Name:       name,
		Components: components,
		Status:     approval.Initial(actor),
		CreatedBy:  approval.CreatedBy(actor),
	})
}

func (s *Service) UpdatePolicy(ctx context.Context, actor auth.Actor, id string, in PolicyInput) (*Policy, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Salary Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Salary policy not found")
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != p.Name {
		existing, err := s.store.FindPolicyByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Salary policy with this name already exists")
		}
		p.Name = name
	}

	if in.Components != nil {
		components, err := s.validateComponents(ctx, in.Components)
		if err != nil {
			return nil, err
		}
		p.Components = components
	}

	return s.store.UpdatePolicy(ctx, *p)
}

func (s *Service) UpdatePolicyStatus(ctx context.Context, id, status string) (*Policy, string, error) {
	if uuid.Validate(id) != nil {
		return nil, "", apperr.NotFound("Salary Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", apperr.NotFound("Salary policy not found")
	}

	if err := approval.ValidateStatus(status); err != nil {
		return nil, "", err
	}

	updated, err := s.store.SetPolicyStatus(ctx, id, status)
	if err != nil {
		return nil, "", err
	}
	return updated, approval.TransitionMessage("Salary policy", status), nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) (*Policy, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Salary Policy Not Found")
	}
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Salary policy not found")
	}

	if err := s.store.DeletePolicy(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) validateComponents(ctx context.Context, in []PolicyComponentInput) ([]PolicyComponent, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("At least one salary component is required")
	}

	out := make([]PolicyComponent, 0, len(in))
	for _, c := range in {
		componentID := strings.TrimSpace(c.SalaryComponent)
		if componentID == "" || uuid.Validate(componentID) != nil {
			return nil, apperr.Validation("Invalid salary component ID in components")
		}
		if c.Amount == nil || *c.Amount < 0 {
			return nil, apperr.Validation("Amount must be a non-negative number")
		}
		exists, err := s.store.ComponentExists(ctx, componentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("Salary component not found")
		}
		out = append(out, PolicyComponent{ComponentID: componentID, Amount: *c.Amount})
	}
	return out, nil
}
