package org

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/apperr"
	"hrms/internal/domain/auth"
)

// Service enforces the organizational mutation rules: input validation,
// case-insensitive name uniqueness, department capacity ceilings, and
// referential guards ahead of deletes. Guard checks and the following
// write are not transactional; a dependent created in between is an
// accepted race.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type DepartmentInput struct {
	Name          string    `json:"name"`
	PositionCount CountText `json:"positionCount"`
}

type DepartmentUpdateInput struct {
	Name          string     `json:"name"`
	PositionCount *CountText `json:"positionCount"`
}

func (s *Service) ListDepartments(ctx context.Context, search string, limit, offset int) ([]Department, int, error) {
	search = strings.TrimSpace(search)
	total, err := s.store.CountDepartments(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	departments, err := s.store.ListDepartments(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return departments, total, nil
}

func (s *Service) DepartmentOptions(ctx context.Context) ([]Option, error) {
	return s.store.DepartmentOptions(ctx)
}

func (s *Service) GetDepartment(ctx context.Context, id string) (*Department, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Department Not Found")
	}
	dep, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, apperr.NotFound("Department Not Found")
	}
	return dep, nil
}

func (s *Service) CreateDepartment(ctx context.Context, actor auth.Actor, in DepartmentInput) (*Department, error) {
	name := strings.TrimSpace(in.Name)
	positionCount := strings.TrimSpace(string(in.PositionCount))
	if name == "" || positionCount == "" {
		return nil, apperr.Validation("Department name and position count are required")
	}

	existing, err := s.store.FindDepartmentByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Department with this name already exists")
	}

	return s.store.CreateDepartment(ctx, Department{
		Name:          name,
		PositionCount: positionCount,
		CreatedBy:     actor.ID,
	})
}

func (s *Service) UpdateDepartment(ctx context.Context, actor auth.Actor, id string, in DepartmentUpdateInput) (*Department, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Department Not Found")
	}
	dep, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, apperr.NotFound("Department not found")
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != dep.Name {
		existing, err := s.store.FindDepartmentByName(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Department with this name already exists")
		}
		dep.Name = name
	}

	if in.PositionCount != nil {
		dep.PositionCount = strings.TrimSpace(string(*in.PositionCount))
	}

	return s.store.UpdateDepartment(ctx, *dep)
}

// DeleteDepartment removes a department once the referential guard
// confirms no positions or employees still depend on it. The deleted
// record is returned for the response body.
func (s *Service) DeleteDepartment(ctx context.Context, id string) (*Department, error) {
	if uuid.Validate(id) != nil {
		return nil, apperr.NotFound("Department Not Found")
	}
	dep, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, apperr.NotFound("Department not found")
	}

	assigned, err := s.store.CountPositionsByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if assigned > 0 {
		return nil, apperr.Conflict("Cannot delete department with %d assigned position(s). Please reassign positions first.", assigned)
	}
	if dep.EmployeeCount > 0 {
		return nil, apperr.Conflict("Cannot delete department with active employees. Please reassign employees first.")
	}

	if err := s.store.DeleteDepartment(ctx, id); err != nil {
		return nil, err
	}
	return dep, nil
}
