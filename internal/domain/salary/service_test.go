package salary

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrms/internal/apperr"
	"hrms/internal/domain/approval"
	"hrms/internal/domain/auth"
)

type fakeStore struct {
	components map[string]*Component
	policies   map[string]*Policy
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		components: map[string]*Component{},
		policies:   map[string]*Policy{},
	}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
}

func (f *fakeStore) GetComponent(ctx context.Context, id string) (*Component, error) {
	c, ok := f.components[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) FindComponentByName(ctx context.Context, name, excludeID string) (*Component, error) {
	for _, c := range f.components {
		if strings.EqualFold(c.Name, name) && c.ID != excludeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountComponents(ctx context.Context, search string) (int, error) {
	return len(f.components), nil
}

func (f *fakeStore) ListComponents(ctx context.Context, search string, limit, offset int) ([]Component, error) {
	var out []Component
	for _, c := range f.components {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) ComponentOptions(ctx context.Context) ([]Option, error) {
	var out []Option
	for _, c := range f.components {
		out = append(out, Option{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (f *fakeStore) CreateComponent(ctx context.Context, c Component) (*Component, error) {
	c.ID = f.genID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.components[c.ID] = &c
	cp := c
	return &cp, nil
}

func (f *fakeStore) UpdateComponent(ctx context.Context, c Component) (*Component, error) {
	c.UpdatedAt = time.Now()
	f.components[c.ID] = &c
	cp := c
	return &cp, nil
}

func (f *fakeStore) SetComponentStatus(ctx context.Context, id, status string) (*Component, error) {
	c := f.components[id]
	c.Status = status
	cp := *c
	return &cp, nil
}

func (f *fakeStore) DeleteComponent(ctx context.Context, id string) error {
	delete(f.components, id)
	return nil
}

func (f *fakeStore) ComponentExists(ctx context.Context, id string) (bool, error) {
	_, ok := f.components[id]
	return ok, nil
}

func (f *fakeStore) CountPoliciesByComponent(ctx context.Context, componentID string) (int, error) {
	count := 0
	for _, p := range f.policies {
		for _, pc := range p.Components {
			if pc.ComponentID == componentID {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeStore) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	p, ok := f.policies[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) FindPolicyByName(ctx context.Context, name, excludeID string) (*Policy, error) {
	for _, p := range f.policies {
		if strings.EqualFold(p.Name, name) && p.ID != excludeID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountPolicies(ctx context.Context, search string) (int, error) {
	return len(f.policies), nil
}

func (f *fakeStore) ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, error) {
	var out []Policy
	for _, p := range f.policies {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) PolicyOptions(ctx context.Context) ([]Option, error) {
	var out []Option
	for _, p := range f.policies {
		out = append(out, Option{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (f *fakeStore) CreatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	p.ID = f.genID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.policies[p.ID] = &p
	cp := p
	return &cp, nil
}

func (f *fakeStore) UpdatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	p.UpdatedAt = time.Now()
	f.policies[p.ID] = &p
	cp := p
	return &cp, nil
}

func (f *fakeStore) SetPolicyStatus(ctx context.Context, id, status string) (*Policy, error) {
	p := f.policies[id]
	p.Status = status
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DeletePolicy(ctx context.Context, id string) error {
	delete(f.policies, id)
	return nil
}

var (
	adminActor      = auth.Actor{ID: "a7f43c6e-74a1-4b4c-9a6a-2f0f26f8d001", Name: "Admin", Role: auth.RoleAdmin}
	supervisorActor = auth.Actor{ID: "a7f43c6e-74a1-4b4c-9a6a-2f0f26f8d002", Name: "Supervisor", Role: auth.RoleSupervisor}
)

func amount(a float64) *float64 { return &a }

func mustCreateComponent(t *testing.T, svc *Service, actor auth.Actor, name string) *Component {
	t.Helper()
	c, err := svc.CreateComponent(context.Background(), actor, ComponentInput{Name: name})
	if err != nil {
		t.Fatalf("create component %q: %v", name, err)
	}
	return c
}

func mustCreatePolicy(t *testing.T, svc *Service, name, componentID string) *Policy {
	t.Helper()
	p, err := svc.CreatePolicy(context.Background(), adminActor, PolicyInput{
		Name:       name,
		Components: []PolicyComponentInput{{SalaryComponent: componentID, Amount: amount(1000)}},
	})
	if err != nil {
		t.Fatalf("create policy %q: %v", name, err)
	}
	return p
}

func TestCreateComponentApprovalWorkflow(t *testing.T) {
	svc := NewService(newFakeStore())

	byAdmin := mustCreateComponent(t, svc, adminActor, "Base Salary")
	if byAdmin.Status != approval.StatusApproved {
		t.Fatalf("admin-created status = %q", byAdmin.Status)
	}
	if byAdmin.CreatedBy != adminActor.Name {
		t.Fatalf("admin createdBy = %q, want display name", byAdmin.CreatedBy)
	}

	bySup := mustCreateComponent(t, svc, supervisorActor, "Transport Allowance")
	if bySup.Status != approval.StatusPending {
		t.Fatalf("supervisor-created status = %q", bySup.Status)
	}
	if bySup.CreatedBy != supervisorActor.ID {
		t.Fatalf("supervisor createdBy = %q, want actor id", bySup.CreatedBy)
	}
}

func TestCreateComponentUniqueness(t *testing.T) {
	svc := NewService(newFakeStore())
	mustCreateComponent(t, svc, adminActor, "Base Salary")

	_, err := svc.CreateComponent(context.Background(), adminActor, ComponentInput{Name: "base salary"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for case-variant duplicate, got %v", err)
	}
}

func TestUpdateComponentNameRequired(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")

	_, err := svc.UpdateComponent(context.Background(), adminActor, c.ID, ComponentInput{Name: "  "})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("blank name on update should be a validation error, got %v", err)
	}
}

func TestDeleteComponentBlockedByPolicies(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")
	p := mustCreatePolicy(t, svc, "Standard", c.ID)

	_, err := svc.DeleteComponent(context.Background(), c.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict deleting used component, got %v", err)
	}
	if !strings.Contains(err.Error(), "used in 1 salary policy.") {
		t.Fatalf("singular form expected in %q", err.Error())
	}

	other := mustCreatePolicy(t, svc, "Extended", c.ID)
	_, err = svc.DeleteComponent(context.Background(), c.ID)
	if err == nil || !strings.Contains(err.Error(), "used in 2 salary policies.") {
		t.Fatalf("plural form expected, got %v", err)
	}

	for _, id := range []string{p.ID, other.ID} {
		if _, err := svc.DeletePolicy(context.Background(), id); err != nil {
			t.Fatalf("delete policy: %v", err)
		}
	}
	if _, err := svc.DeleteComponent(context.Background(), c.ID); err != nil {
		t.Fatalf("delete after removing dependents: %v", err)
	}
}

func TestCreatePolicyComponentChecks(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")

	_, err := svc.CreatePolicy(context.Background(), adminActor, PolicyInput{Name: "Standard"})
	if err == nil || err.Error() != "At least one salary component is required" {
		t.Fatalf("missing components: got %v", err)
	}

	cases := []struct {
		name string
		in   PolicyComponentInput
		kind apperr.Kind
	}{
		{"malformed id", PolicyComponentInput{SalaryComponent: "nope", Amount: amount(100)}, apperr.KindValidation},
		{"missing amount", PolicyComponentInput{SalaryComponent: c.ID}, apperr.KindValidation},
		{"negative amount", PolicyComponentInput{SalaryComponent: c.ID, Amount: amount(-5)}, apperr.KindValidation},
		{"unknown component", PolicyComponentInput{SalaryComponent: "7b1d3e6a-4a9e-4f1d-8b3f-000000000099", Amount: amount(100)}, apperr.KindNotFound},
	}
	for _, tc := range cases {
		_, err := svc.CreatePolicy(context.Background(), adminActor, PolicyInput{
			Name:       "Standard",
			Components: []PolicyComponentInput{tc.in},
		})
		if !apperr.IsKind(err, tc.kind) {
			t.Fatalf("%s: got %v", tc.name, err)
		}
	}

	// Zero amount passes.
	if _, err := svc.CreatePolicy(context.Background(), adminActor, PolicyInput{
		Name:       "Standard",
		Components: []PolicyComponentInput{{SalaryComponent: c.ID, Amount: amount(0)}},
	}); err != nil {
		t.Fatalf("zero amount: %v", err)
	}
}

func TestUpdatePolicyKeepsComponentsWhenOmitted(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")
	p := mustCreatePolicy(t, svc, "Standard", c.ID)

	updated, err := svc.UpdatePolicy(context.Background(), adminActor, p.ID, PolicyInput{Name: "Extended"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Components) != 1 {
		t.Fatalf("components dropped on name-only update: %+v", updated.Components)
	}
}

func TestUpdatePolicyStatusMessages(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")
	p := mustCreatePolicy(t, svc, "Standard", c.ID)

	_, msg, err := svc.UpdatePolicyStatus(context.Background(), p.ID, approval.StatusRejected)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if msg != "Salary policy rejected successfully" {
		t.Fatalf("message = %q", msg)
	}

	_, _, err = svc.UpdatePolicyStatus(context.Background(), p.ID, "approved")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("status match is case-sensitive, got %v", err)
	}
}

func TestDeletePolicyAlwaysAllowed(t *testing.T) {
	svc := NewService(newFakeStore())
	c := mustCreateComponent(t, svc, adminActor, "Base Salary")
	p := mustCreatePolicy(t, svc, "Standard", c.ID)

	deleted, err := svc.DeletePolicy(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != p.ID {
		t.Fatalf("deleted id = %q", deleted.ID)
	}
}
