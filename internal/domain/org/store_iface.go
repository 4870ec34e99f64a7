package org

import "context"

// StoreAPI is the persistence surface the org rule engine runs against.
// Lookups return nil (not an error) when no record matches.
type StoreAPI interface {
	GetDepartment(ctx context.Context, id string) (*Department, error)
	FindDepartmentByName(ctx context.Context, name, excludeID string) (*Department, error)
	CountDepartments(ctx context.Context, search string) (int, error)
	ListDepartments(ctx context.Context, search string, limit, offset int) ([]Department, error)
	DepartmentOptions(ctx context.Context) ([]Option, error)
	CreateDepartment(ctx context.Context, dep Department) (*Department, error)
	UpdateDepartment(ctx context.Context, dep Department) (*Department, error)
	DeleteDepartment(ctx context.Context, id string) error

	GetPosition(ctx context.Context, id string) (*Position, error)
	FindPositionByName(ctx context.Context, name, departmentID, excludeID string) (*Position, error)
	CountPositions(ctx context.Context, search string) (int, error)
	ListPositions(ctx context.Context, search string, limit, offset int) ([]Position, error)
	CountPositionsByDepartment(ctx context.Context, departmentID string) (int, error)
	CreatePosition(ctx context.Context, pos Position) (*Position, error)
	UpdatePosition(ctx context.Context, pos Position) (*Position, error)
	DeletePosition(ctx context.Context, id string) error

	LeavePolicyExists(ctx context.Context, id string) (bool, error)
}
