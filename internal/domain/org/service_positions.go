package org

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/auth"
)

type PositionInput struct {
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	ReportsTo     string    `json:"reportsTo"`
	EmployeeLimit CountText `json:"employeeLimit"`
	LeavePolicy   string    `json:"leavePolicy"`
}

func (s *Service) ListPositions(ctx context.Context, search string, limit, offset int) ([]Position, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.CountPositions(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	positions, err := s.store.ListPositions(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return positions, total, nil
}

func (s *Service) GetPosition(ctx context.Context, id string) (*Position, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Position Not Found")
	}
	pos, err := s.store.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, apperr.NotFound("Position Not Found")
	}
	return pos, nil
}

func (s *Service) CreatePosition(ctx context.Context, actor auth.Actor, in PositionInput) (*Position, error) {
	name, dep, err := s.validatePositionInput(ctx, in)
	if err != nil {
		return nil, err
	}

	// Capacity before uniqueness: a full department fails without the
	// extra name lookup.
	if err := s.checkDepartmentCapacity(ctx, dep); err != nil {
		return nil, err
	}

	existing, err := s.store.FindPositionByName(ctx, name, dep.ID, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Position with this name already exists in this department")
	}

	return s.store.CreatePosition(ctx, Position{
		Name:          name,
		DepartmentID:  dep.ID,
		ReportsTo:     strings.TrimSpace(in.ReportsTo),
		EmployeeLimit: strings.TrimSpace(string(in.EmployeeLimit)),
		LeavePolicyID: strings.TrimSpace(in.LeavePolicy),
		CreatedBy:     actor.ID,
	})
}

func (s *Service) UpdatePosition(ctx context.Context, actor auth.Actor, id string, in PositionInput) (*Position, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Position Not Found")
	}
	pos, err := s.store.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, apperr.NotFound("Position not found")
	}

	name, dep, err := s.validatePositionInput(ctx, in)
	if err != nil {
		return nil, err
	}

	// The ceiling is re-checked only when the position moves into
	// another department.
	if dep.ID != pos.DepartmentID {
		if err := s.checkDepartmentCapacity(ctx, dep); err != nil {
			return nil, err
		}
	}

	if name != pos.Name || dep.ID != pos.DepartmentID {
		existing, err := s.store.FindPositionByName(ctx, name, dep.ID, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Position with this name already exists in this department")
		}
	}

	pos.Name = name
	pos.DepartmentID = dep.ID
	pos.DepartmentName = dep.Name
	pos.ReportsTo = strings.TrimSpace(in.ReportsTo)
	pos.EmployeeLimit = strings.TrimSpace(string(in.EmployeeLimit))
	pos.LeavePolicyID = strings.TrimSpace(in.LeavePolicy)

	return s.store.UpdatePosition(ctx, *pos)
}

func (s *Service) DeletePosition(ctx context.Context, id string) (*Position, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Position Not Found")
	}
	pos, err := s.store.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, apperr.NotFound("Position not found")
	}

	if pos.HiredEmployees > 0 {
		return nil, apperr.Conflict("Cannot delete position with active employees. Please reassign employees first.")
	}

	if err := s.store.DeletePosition(ctx, id); err != nil {
		return nil, err
	}
	return pos, nil
}

// validatePositionInput runs the shared create/update checks: required
// fields, foreign-key shape, and foreign-key existence. It returns the
// trimmed name and the resolved target department.
func (s *Service) validatePositionInput(ctx context.Context, in PositionInput) (string, *Department, error) {
	name := strings.TrimSpace(in.Name)
	employeeLimit := strings.TrimSpace(string(in.EmployeeLimit))
	reportsTo := strings.TrimSpace(in.ReportsTo)
	departmentID := strings.TrimSpace(in.Department)

	if name == "" || employeeLimit == "" || reportsTo == "" || departmentID == "" {
		return "", nil, apperr.Validation("Position name, employee limit, reports to and department are required")
	}

	if uuid.Validate(departmentID) != nil {
		return "", nil, apperr.Validation("Invalid department ID")
	}
	dep, err := s.store.GetDepartment(ctx, departmentID)
	if err != nil {
		return "", nil, err
	}
	if dep == nil {
		return "", nil, apperr.NotFound("Department not found")
	}

	if leavePolicyID := strings.TrimSpace(in.LeavePolicy); leavePolicyID != "" {
		if uuid.Validate(leavePolicyID) != nil {
			return "", nil, apperr.Validation("Invalid leave policy ID")
		}
		exists, err := s.store.LeavePolicyExists(ctx, leavePolicyID)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			return "", nil, apperr.NotFound("Leave policy not found")
		}
	}

	return name, dep, nil
}

// checkDepartmentCapacity enforces the department's position ceiling.
// An empty or "unlimited" descriptor admits any count; a non-numeric
// descriptor fails closed.
func (s *Service) checkDepartmentCapacity(ctx context.Context, dep *Department) error {
	descriptor := strings.ToLower(strings.TrimSpace(dep.PositionCount))
	if descriptor == "" || descriptor == "unlimited" {
		return nil
	}

	limit, err := strconv.Atoi(descriptor)
	if err != nil {
		return apperr.Validation("Invalid position count limit in department")
	}

	current, err := s.store.CountPositionsByDepartment(ctx, dep.ID)
	if err != nil {
		return err
	}
	if current >= limit {
		return apperr.Conflict("Position limit reached for %s department. Maximum positions allowed: %d", dep.Name, limit)
	}
	return nil
}
