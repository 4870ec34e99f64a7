package org

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hrms/internal/apperr"
	"hrms/internal/domain/auth"
)

type fakeStore struct {
	departments   map[string]*Department
	positions     map[string]*Position
	leavePolicies map[string]bool
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments:   map[string]*Department{},
		positions:     map[string]*Position{},
		leavePolicies: map[string]bool{},
	}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
}

func (f *fakeStore) GetDepartment(ctx context.Context, id string) (*Department, error) {
	dep, ok := f.departments[id]
	if !ok {
		return nil, nil
	}
	cp := *dep
	return &cp, nil
}

func (f *fakeStore) FindDepartmentByName(ctx context.Context, name, excludeID string) (*Department, error) {
	for _, dep := range f.departments {
		if strings.EqualFold(dep.Name, name) && dep.ID != excludeID {
			cp := *dep
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountDepartments(ctx context.Context, search string) (int, error) {
	count := 0
	for _, dep := range f.departments {
		if search == "" || strings.Contains(strings.ToLower(dep.Name), strings.ToLower(search)) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListDepartments(ctx context.Context, search string, limit, offset int) ([]Department, error) {
	var out []Department
	for _, dep := range f.departments {
		if search == "" || strings.Contains(strings.ToLower(dep.Name), strings.ToLower(search)) {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (f *fakeStore) DepartmentOptions(ctx context.Context) ([]Option, error) {
	var out []Option
	for _, dep := range f.departments {
		out = append(out, Option{ID: dep.ID, Name: dep.Name})
	}
	return out, nil
}

func (f *fakeStore) CreateDepartment(ctx context.Context, dep Department) (*Department, error) {
	dep.ID = f.genID()
	dep.CreatedAt = time.Now()
	dep.UpdatedAt = dep.CreatedAt
	f.departments[dep.ID] = &dep
	cp := dep
	return &cp, nil
}

func (f *fakeStore) UpdateDepartment(ctx context.Context, dep Department) (*Department, error) {
	dep.UpdatedAt = time.Now()
	f.departments[dep.ID] = &dep
	cp := dep
	return &cp, nil
}

func (f *fakeStore) DeleteDepartment(ctx context.Context, id string) error {
	delete(f.departments, id)
	return nil
}

func (f *fakeStore) GetPosition(ctx context.Context, id string) (*Position, error) {
	pos, ok := f.positions[id]
	if !ok {
		return nil, nil
	}
	cp := *pos
	return &cp, nil
}

func (f *fakeStore) FindPositionByName(ctx context.Context, name, departmentID, excludeID string) (*Position, error) {
	for _, pos := range f.positions {
		if strings.EqualFold(pos.Name, name) && pos.DepartmentID == departmentID && pos.ID != excludeID {
			cp := *pos
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountPositions(ctx context.Context, search string) (int, error) {
	return len(f.positions), nil
}

func (f *fakeStore) ListPositions(ctx context.Context, search string, limit, offset int) ([]Position, error) {
	var out []Position
	for _, pos := range f.positions {
		out = append(out, *pos)
	}
	return out, nil
}

func (f *fakeStore) CountPositionsByDepartment(ctx context.Context, departmentID string) (int, error) {
	count := 0
	for _, pos := range f.positions {
		if pos.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreatePosition(ctx context.Context, pos Position) (*Position, error) {
	pos.ID = f.genID()
	pos.CreatedAt = time.Now()
	pos.UpdatedAt = pos.CreatedAt
	if dep, ok := f.departments[pos.DepartmentID]; ok {
		pos.DepartmentName = dep.Name
	}
	f.positions[pos.ID] = &pos
	cp := pos
	return &cp, nil
}

func (f *fakeStore) UpdatePosition(ctx context.Context, pos Position) (*Position, error) {
	pos.UpdatedAt = time.Now()
	f.positions[pos.ID] = &pos
	cp := pos
	return &cp, nil
}

func (f *fakeStore) DeletePosition(ctx context.Context, id string) error {
	delete(f.positions, id)
	return nil
}

func (f *fakeStore) LeavePolicyExists(ctx context.Context, id string) (bool, error) {
	return f.leavePolicies[id], nil
}

var testActor = auth.Actor{ID: "a7f43c6e-74a1-4b4c-9a6a-2f0f26f8d001", Name: "Admin", Role: auth.RoleAdmin}

func mustCreateDepartment(t *testing.T, svc *Service, name, positionCount string) *Department {
	t.Helper()
	dep, err := svc.CreateDepartment(context.Background(), testActor, DepartmentInput{
		Name:          name,
		PositionCount: CountText(positionCount),
	})
	if err != nil {
		t.Fatalf("create department %q: %v", name, err)
	}
	return dep
}

func mustCreatePosition(t *testing.T, svc *Service, name, departmentID string) *Position {
	t.Helper()
	pos, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          name,
		Department:    departmentID,
		ReportsTo:     "CEO",
		EmployeeLimit: "10",
	})
	if err != nil {
		t.Fatalf("create position %q: %v", name, err)
	}
	return pos
}

func TestCreateDepartmentRequiredFields(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CreateDepartment(context.Background(), testActor, DepartmentInput{Name: "  ", PositionCount: "5"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.CreateDepartment(context.Background(), testActor, DepartmentInput{Name: "Engineering"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing position count, got %v", err)
	}
}

func TestCreateDepartmentNameUniquenessIgnoresCase(t *testing.T) {
	svc := NewService(newFakeStore())
	mustCreateDepartment(t, svc, "Engineering", "unlimited")

	_, err := svc.CreateDepartment(context.Background(), testActor, DepartmentInput{
		Name:          "ENGINEERING",
		PositionCount: "3",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for case-variant duplicate, got %v", err)
	}
}

func TestCreateDepartmentRecordsActor(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Finance", "2")
	if dep.CreatedBy != testActor.ID {
		t.Fatalf("createdBy = %q, want %q", dep.CreatedBy, testActor.ID)
	}
}

func TestUpdateDepartmentKeepsOwnName(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Sales", "unlimited")

	// Re-submitting the current name must not trip the uniqueness guard.
	updated, err := svc.UpdateDepartment(context.Background(), testActor, dep.ID, DepartmentUpdateInput{Name: "Sales"})
	if err != nil {
		t.Fatalf("update with own name: %v", err)
	}
	if updated.Name != "Sales" {
		t.Fatalf("name = %q, want Sales", updated.Name)
	}
}

func TestUpdateDepartmentRejectsTakenName(t *testing.T) {
	svc := NewService(newFakeStore())
	mustCreateDepartment(t, svc, "Sales", "unlimited")
	dep := mustCreateDepartment(t, svc, "Marketing", "unlimited")

	_, err := svc.UpdateDepartment(context.Background(), testActor, dep.ID, DepartmentUpdateInput{Name: "sales"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict renaming onto existing department, got %v", err)
	}
}

func TestUpdateDepartmentPartialPositionCount(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Ops", "4")

	// Omitted positionCount keeps the stored value.
	updated, err := svc.UpdateDepartment(context.Background(), testActor, dep.ID, DepartmentUpdateInput{Name: "Operations"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PositionCount != "4" {
		t.Fatalf("positionCount = %q, want 4", updated.PositionCount)
	}

	count := CountText("9")
	updated, err = svc.UpdateDepartment(context.Background(), testActor, dep.ID, DepartmentUpdateInput{PositionCount: &count})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PositionCount != "9" {
		t.Fatalf("positionCount = %q, want 9", updated.PositionCount)
	}
}

func TestGetDepartmentMalformedIDIsNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.GetDepartment(context.Background(), "not-a-uuid")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestDeleteDepartmentBlockedByPositions(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Engineering", "unlimited")
	pos := mustCreatePosition(t, svc, "Backend Engineer", dep.ID)

	_, err := svc.DeleteDepartment(context.Background(), dep.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict deleting department with positions, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 assigned position(s)") {
		t.Fatalf("error should carry the dependent count, got %q", err.Error())
	}

	if _, err := svc.DeletePosition(context.Background(), pos.ID); err != nil {
		t.Fatalf("delete position: %v", err)
	}
	deleted, err := svc.DeleteDepartment(context.Background(), dep.ID)
	if err != nil {
		t.Fatalf("delete after removing dependents: %v", err)
	}
	if deleted.ID != dep.ID {
		t.Fatalf("deleted id = %q, want %q", deleted.ID, dep.ID)
	}
}

func TestDeleteDepartmentBlockedByEmployees(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	dep := mustCreateDepartment(t, svc, "Support", "unlimited")
	store.departments[dep.ID].EmployeeCount = 3

	_, err := svc.DeleteDepartment(context.Background(), dep.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict deleting department with employees, got %v", err)
	}
	if !strings.Contains(err.Error(), "active employees") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCreatePositionRequiredFields(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{Name: "Engineer"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for missing fields, got %v", err)
	}
}

func TestCreatePositionDepartmentChecks(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    "nope",
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("malformed department id should be a validation error, got %v", err)
	}

	_, err = svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    "7b1d3e6a-4a9e-4f1d-8b3f-000000000099",
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("well-formed but unknown department should be not found, got %v", err)
	}
}

func TestCreatePositionCapacityLimit(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Engineering", "2")

	mustCreatePosition(t, svc, "Backend Engineer", dep.ID)
	mustCreatePosition(t, svc, "Frontend Engineer", dep.ID)

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Platform Engineer",
		Department:    dep.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict once the ceiling is reached, got %v", err)
	}
	if !strings.Contains(err.Error(), "Maximum positions allowed: 2") {
		t.Fatalf("error should name the limit, got %q", err.Error())
	}
}

func TestCreatePositionUnlimitedCapacity(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Engineering", "Unlimited")

	for i := 0; i < 5; i++ {
		mustCreatePosition(t, svc, fmt.Sprintf("Engineer %d", i), dep.ID)
	}
}

func TestCreatePositionBadCapacityDescriptor(t *testing.T) {
	svc := NewService(newFakeStore())
	dep := mustCreateDepartment(t, svc, "Engineering", "lots")

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    dep.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("non-numeric capacity descriptor should fail closed, got %v", err)
	}
}

func TestCreatePositionNameScopedToDepartment(t *testing.T) {
	svc := NewService(newFakeStore())
	eng := mustCreateDepartment(t, svc, "Engineering", "unlimited")
	sales := mustCreateDepartment(t, svc, "Sales", "unlimited")

	mustCreatePosition(t, svc, "Manager", eng.ID)

	// Same name in a different department is allowed.
	mustCreatePosition(t, svc, "Manager", sales.ID)

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "MANAGER",
		Department:    eng.ID,
		ReportsTo:     "CEO",
		EmployeeLimit: "10",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate name in department, got %v", err)
	}
}

func TestCreatePositionLeavePolicyChecks(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	dep := mustCreateDepartment(t, svc, "Engineering", "unlimited")

	_, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    dep.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
		LeavePolicy:   "bogus",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("malformed leave policy id should be a validation error, got %v", err)
	}

	_, err = svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    dep.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
		LeavePolicy:   "7b1d3e6a-4a9e-4f1d-8b3f-000000000042",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown leave policy should be not found, got %v", err)
	}

	store.leavePolicies["7b1d3e6a-4a9e-4f1d-8b3f-000000000042"] = true
	pos, err := svc.CreatePosition(context.Background(), testActor, PositionInput{
		Name:          "Engineer",
		Department:    dep.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
		LeavePolicy:   "7b1d3e6a-4a9e-4f1d-8b3f-000000000042",
	})
	if err != nil {
		t.Fatalf("create with valid leave policy: %v", err)
	}
	if pos.LeavePolicyID != "7b1d3e6a-4a9e-4f1d-8b3f-000000000042" {
		t.Fatalf("leavePolicy = %q", pos.LeavePolicyID)
	}
}

func TestUpdatePositionCapacityOnlyOnDepartmentChange(t *testing.T) {
	svc := NewService(newFakeStore())
	full := mustCreateDepartment(t, svc, "Engineering", "1")
	pos := mustCreatePosition(t, svc, "Engineer", full.ID)

	// Updating in place stays legal even though the department is at
	// its ceiling.
	_, err := svc.UpdatePosition(context.Background(), testActor, pos.ID, PositionInput{
		Name:          "Senior Engineer",
		Department:    full.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if err != nil {
		t.Fatalf("in-place update: %v", err)
	}

	other := mustCreateDepartment(t, svc, "Platform", "1")
	mustCreatePosition(t, svc, "SRE", other.ID)

	_, err = svc.UpdatePosition(context.Background(), testActor, pos.ID, PositionInput{
		Name:          "Senior Engineer",
		Department:    other.ID,
		ReportsTo:     "CTO",
		EmployeeLimit: "5",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("moving into a full department should conflict, got %v", err)
	}
}

func TestDeletePositionBlockedByEmployees(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	dep := mustCreateDepartment(t, svc, "Engineering", "unlimited")
	pos := mustCreatePosition(t, svc, "Engineer", dep.ID)
	store.positions[pos.ID].HiredEmployees = 2

	_, err := svc.DeletePosition(context.Background(), pos.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict deleting position with hires, got %v", err)
	}

	store.positions[pos.ID].HiredEmployees = 0
	deleted, err := svc.DeletePosition(context.Background(), pos.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Name != pos.Name {
		t.Fatalf("deleted name = %q, want %q", deleted.Name, pos.Name)
	}
}
