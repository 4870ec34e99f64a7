package org

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const departmentColumns = `
    id, name, position_count, employee_count, COALESCE(created_by, ''), created_at, updated_at`

func scanDepartment(row pgx.Row) (*Department, error) {
	var dep Department
	err := row.Scan(&dep.ID, &dep.Name, &dep.PositionCount, &dep.EmployeeCount, &dep.CreatedBy, &dep.CreatedAt, &dep.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (s *Store) GetDepartment(ctx context.Context, id string) (*Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, `
    SELECT`+departmentColumns+`
    FROM departments
    WHERE id = $1
  `, id))
}

func (s *Store) FindDepartmentByName(ctx context.Context, name, excludeID string) (*Department, error) {
	if excludeID == "" {
		return scanDepartment(s.DB.QueryRow(ctx, `
      SELECT`+departmentColumns+`
      FROM departments
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanDepartment(s.DB.QueryRow(ctx, `
    SELECT`+departmentColumns+`
    FROM departments
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) CountDepartments(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM departments
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListDepartments(ctx context.Context, search string, limit, offset int) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+departmentColumns+`
    FROM departments
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.PositionCount, &dep.EmployeeCount, &dep.CreatedBy, &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentOptions(ctx context.Context) ([]Option, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name
    FROM departments
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Option
	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, err
		}
		out = append(out, opt)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (*Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, position_count, created_by)
    VALUES ($1, $2, $3)
    RETURNING`+departmentColumns+`
  `, dep.Name, dep.PositionCount, nullIfEmpty(dep.CreatedBy)))
}

func (s *Store) UpdateDepartment(ctx context.Context, dep Department) (*Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, `
    UPDATE departments
    SET name = $1, position_count = $2, updated_at = now()
    WHERE id = $3
    RETURNING`+departmentColumns+`
  `, dep.Name, dep.PositionCount, dep.ID))
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	return err
}

const positionColumns = `
    p.id, p.name, p.department_id, d.name, p.reports_to, p.employee_limit,
    COALESCE(p.leave_policy_id::text, ''), p.hired_employees, COALESCE(p.created_by, ''),
    p.created_at, p.updated_at`

func scanPosition(row pgx.Row) (*Position, error) {
	var pos Position
	err := row.Scan(&pos.ID, &pos.Name, &pos.DepartmentID, &pos.DepartmentName, &pos.ReportsTo,
		&pos.EmployeeLimit, &pos.LeavePolicyID, &pos.HiredEmployees, &pos.CreatedBy,
		&pos.CreatedAt, &pos.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (s *Store) GetPosition(ctx context.Context, id string) (*Position, error) {
	return scanPosition(s.DB.QueryRow(ctx, `
    SELECT`+positionColumns+`
    FROM positions p
    JOIN departments d ON p.department_id = d.id
    WHERE p.id = $1
  `, id))
}

func (s *Store) FindPositionByName(ctx context.Context, name, departmentID, excludeID string) (*Position, error) {
	if excludeID == "" {
		return scanPosition(s.DB.QueryRow(ctx, `
      SELECT`+positionColumns+`
      FROM positions p
      JOIN departments d ON p.department_id = d.id
      WHERE LOWER(p.name) = LOWER($1) AND p.department_id = $2
    `, name, departmentID))
	}
	return scanPosition(s.DB.QueryRow(ctx, `
    SELECT`+positionColumns+`
    FROM positions p
    JOIN departments d ON p.department_id = d.id
    WHERE LOWER(p.name) = LOWER($1) AND p.department_id = $2 AND p.id <> $3
  `, name, departmentID, excludeID))
}

func (s *Store) CountPositions(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM positions
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListPositions(ctx context.Context, search string, limit, offset int) ([]Position, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+positionColumns+`
    FROM positions p
    JOIN departments d ON p.department_id = d.id
    WHERE $1 = '' OR p.name ILIKE '%' || $1 || '%'
    ORDER BY p.created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.ID, &pos.Name, &pos.DepartmentID, &pos.DepartmentName, &pos.ReportsTo,
			&pos.EmployeeLimit, &pos.LeavePolicyID, &pos.HiredEmployees, &pos.CreatedBy,
			&pos.CreatedAt, &pos.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, rows.Err()
}

func (s *Store) CountPositionsByDepartment(ctx context.Context, departmentID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM positions
    WHERE department_id = $1
  `, departmentID).Scan(&count)
	return count, err
}

func (s *Store) CreatePosition(ctx context.Context, pos Position) (*Position, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO positions (name, department_id, reports_to, employee_limit, leave_policy_id, created_by)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, pos.Name, pos.DepartmentID, pos.ReportsTo, pos.EmployeeLimit, nullIfEmpty(pos.LeavePolicyID), nullIfEmpty(pos.CreatedBy)).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetPosition(ctx, id)
}

func (s *Store) UpdatePosition(ctx context.Context, pos Position) (*Position, error) {
	_, err := s.DB.Exec(ctx, `
    UPDATE positions
    SET name = $1, department_id = $2, reports_to = $3, employee_limit = $4,
        leave_policy_id = $5, updated_at = now()
    WHERE id = $6
  `, pos.Name, pos.DepartmentID, pos.ReportsTo, pos.EmployeeLimit, nullIfEmpty(pos.LeavePolicyID), pos.ID)
	if err != nil {
		return nil, err
	}
	return s.GetPosition(ctx, pos.ID)
}

func (s *Store) DeletePosition(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM positions WHERE id = $1", id)
	return err
}

func (s *Store) LeavePolicyExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_policies WHERE id = $1", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
