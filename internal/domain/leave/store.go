package leave

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

func scanLeaveType(row pgx.Row) (*LeaveType, error) {
	var lt LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.CreatedBy, &lt.CreatedAt, &lt.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *Store) GetLeaveType(ctx context.Context, id string) (*LeaveType, error) {
	return scanLeaveType(s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_types
    WHERE id = $1
  `, id))
}

func (s *Store) FindLeaveTypeByName(ctx context.Context, name, excludeID string) (*LeaveType, error) {
	if excludeID == "" {
		return scanLeaveType(s.DB.QueryRow(ctx, `
      SELECT id, name, COALESCE(created_by, ''), created_at, updated_at
      FROM leave_types
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanLeaveType(s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_types
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) CountLeaveTypes(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leave_types
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListLeaveTypes(ctx context.Context, search string, limit, offset int) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_types
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveType
	for rows.Next() {
		var lt LeaveType
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.CreatedBy, &lt.CreatedAt, &lt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}

func (s *Store) LeaveTypeOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, name FROM leave_types ORDER BY LOWER(name)")
}

func (s *Store) CreateLeaveType(ctx context.Context, lt LeaveType) (*LeaveType, error) {
	return scanLeaveType(s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (name, created_by)
    VALUES ($1, NULLIF($2, ''))
    RETURNING id, name, COALESCE(created_by, ''), created_at, updated_at
  `, lt.Name, lt.CreatedBy))
}

func (s *Store) UpdateLeaveType(ctx context.Context, lt LeaveType) (*LeaveType, error) {
	return scanLeaveType(s.DB.QueryRow(ctx, `
    UPDATE leave_types
    SET name = $1, updated_at = now()
    WHERE id = $2
    RETURNING id, name, COALESCE(created_by, ''), created_at, updated_at
  `, lt.Name, lt.ID))
}

func (s *Store) DeleteLeaveType(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM leave_types WHERE id = $1", id)
	return err
}

func (s *Store) LeaveTypeExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_types WHERE id = $1", id).Scan(&count)
	return count > 0, err
}

func (s *Store) CountPoliciesByLeaveType(ctx context.Context, leaveTypeID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT policy_id)
    FROM leave_policy_entitlements
    WHERE leave_type_id = $1
  `, leaveTypeID).Scan(&count)
	return count, err
}

func scanPolicy(row pgx.Row) (*Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.Name, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	p, err := scanPolicy(s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_policies
    WHERE id = $1
  `, id))
	if err != nil || p == nil {
		return p, err
	}
	if err := s.loadEntitlements(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) FindPolicyByName(ctx context.Context, name, excludeID string) (*Policy, error) {
	if excludeID == "" {
		return scanPolicy(s.DB.QueryRow(ctx, `
      SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
      FROM leave_policies
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanPolicy(s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_policies
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) CountPolicies(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leave_policies
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM leave_policies
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadEntitlements(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) PolicyOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, name FROM leave_policies ORDER BY LOWER(name)")
}

func (s *Store) CreatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO leave_policies (name, status, created_by)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING id
  `, p.Name, p.Status, p.CreatedBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	if err := insertEntitlements(ctx, tx, id, p.Entitlements); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetPolicy(ctx, id)
}

func (s *Store) UpdatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
    UPDATE leave_policies
    SET name = $1, updated_at = now()
    WHERE id = $2
  `, p.Name, p.ID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM leave_policy_entitlements WHERE policy_id = $1", p.ID); err != nil {
		return nil, err
	}
	if err := insertEntitlements(ctx, tx, p.ID, p.Entitlements); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetPolicy(ctx, p.ID)
}

func (s *Store) SetPolicyStatus(ctx context.Context, id, status string) (*Policy, error) {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_policies
    SET status = $1, updated_at = now()
    WHERE id = $2
  `, status, id)
	if err != nil {
		return nil, err
	}
	return s.GetPolicy(ctx, id)
}

func (s *Store) DeletePolicy(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM leave_policies WHERE id = $1", id)
	return err
}

func (s *Store) CountPositionsByPolicy(ctx context.Context, policyID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM positions
    WHERE leave_policy_id = $1
  `, policyID).Scan(&count)
	return count, err
}

func (s *Store) loadEntitlements(ctx context.Context, p *Policy) error {
	rows, err := s.DB.Query(ctx, `
    SELECT e.leave_type_id, lt.name, e.days
    FROM leave_policy_entitlements e
    JOIN leave_types lt ON e.leave_type_id = lt.id
    WHERE e.policy_id = $1
    ORDER BY e.ordinal
  `, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e Entitlement
		if err := rows.Scan(&e.LeaveTypeID, &e.LeaveTypeName, &e.Days); err != nil {
			return err
		}
		p.Entitlements = append(p.Entitlements, e)
	}
	return rows.Err()
}

func insertEntitlements(ctx context.Context, tx pgx.Tx, policyID string, entitlements []Entitlement) error {
	for i, e := range entitlements {
		_, err := tx.Exec(ctx, `
      INSERT INTO leave_policy_entitlements (policy_id, leave_type_id, days, ordinal)
      VALUES ($1, $2, $3, $4)
    `, policyID, e.LeaveTypeID, e.Days, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) options(ctx context.Context, query string) ([]Option, error) {
	rows, err := s.DB.Query(ctx, query)
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
