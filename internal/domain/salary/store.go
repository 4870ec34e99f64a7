package salary

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

func scanComponent(row pgx.Row) (*Component, error) {
	var c Component
	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetComponent(ctx context.Context, id string) (*Component, error) {
	return scanComponent(s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM salary_components
    WHERE id = $1
  `, id))
}

func (s *Store) FindComponentByName(ctx context.Context, name, excludeID string) (*Component, error) {
	if excludeID == "" {
		return scanComponent(s.DB.QueryRow(ctx, `
      SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
      FROM salary_components
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanComponent(s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM salary_components
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) CountComponents(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM salary_components
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListComponents(ctx context.Context, search string, limit, offset int) ([]Component, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM salary_components
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Component
	for rows.Next() {
		var c Component
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ComponentOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, name FROM salary_components ORDER BY LOWER(name)")
}

func (s *Store) CreateComponent(ctx context.Context, c Component) (*Component, error) {
	return scanComponent(s.DB.QueryRow(ctx, `
    INSERT INTO salary_components (name, status, created_by)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING id, name, status, COALESCE(created_by, ''), created_at, updated_at
  `, c.Name, c.Status, c.CreatedBy))
}

func (s *Store) UpdateComponent(ctx context.Context, c Component) (*Component, error) {
	return scanComponent(s.DB.QueryRow(ctx, `
    UPDATE salary_components
    SET name = $1, updated_at = now()
    WHERE id = $2
    RETURNING id, name, status, COALESCE(created_by, ''), created_at, updated_at
  `, c.Name, c.ID))
}

func (s *Store) SetComponentStatus(ctx context.Context, id, status string) (*Component, error) {
	return scanComponent(s.DB.QueryRow(ctx, `
    UPDATE salary_components
    SET status = $1, updated_at = now()
    WHERE id = $2
    RETURNING id, name, status, COALESCE(created_by, ''), created_at, updated_at
  `, status, id))
}

func (s *Store) DeleteComponent(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM salary_components WHERE id = $1", id)
	return err
}

func (s *Store) ComponentExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salary_components WHERE id = $1", id).Scan(&count)
	return count > 0, err
}

func (s *Store) CountPoliciesByComponent(ctx context.Context, componentID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT policy_id)
    FROM salary_policy_components
    WHERE component_id = $1
  `, componentID).Scan(&count)
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
    FROM salary_policies
    WHERE id = $1
  `, id))
	if err != nil || p == nil {
		return p, err
	}
	if err := s.loadComponents(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) FindPolicyByName(ctx context.Context, name, excludeID string) (*Policy, error) {
	if excludeID == "" {
		return scanPolicy(s.DB.QueryRow(ctx, `
      SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
      FROM salary_policies
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanPolicy(s.DB.QueryRow(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM salary_policies
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) CountPolicies(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM salary_policies
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, status, COALESCE(created_by, ''), created_at, updated_at
    FROM salary_policies
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
		if err := s.loadComponents(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) PolicyOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, name FROM salary_policies ORDER BY LOWER(name)")
}

func (s *Store) CreatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_policies (name, status, created_by)
    VALUES ($1, $2, NULLIF($3, ''))
    RETURNING id
  `, p.Name, p.Status, p.CreatedBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	if err := insertComponents(ctx, tx, id, p.Components); err != nil {
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
    UPDATE salary_policies
    SET name = $1, updated_at = now()
    WHERE id = $2
  `, p.Name, p.ID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM salary_policy_components WHERE policy_id = $1", p.ID); err != nil {
		return nil, err
	}
	if err := insertComponents(ctx, tx, p.ID, p.Components); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetPolicy(ctx, p.ID)
}

func (s *Store) SetPolicyStatus(ctx context.Context, id, status string) (*Policy, error) {
	_, err := s.DB.Exec(ctx, `
    UPDATE salary_policies
    SET status = $1, updated_at = now()
    WHERE id = $2
  `, status, id)
	if err != nil {
		return nil, err
	}
	return s.GetPolicy(ctx, id)
}

func (s *Store) DeletePolicy(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM salary_policies WHERE id = $1", id)
	return err
}

func (s *Store) loadComponents(ctx context.Context, p *Policy) error {
	rows, err := s.DB.Query(ctx, `
    SELECT pc.component_id, c.name, pc.amount
    FROM salary_policy_components pc
    JOIN salary_components c ON pc.component_id = c.id
    WHERE pc.policy_id = $1
    ORDER BY pc.ordinal
  `, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pc PolicyComponent
		if err := rows.Scan(&pc.ComponentID, &pc.ComponentName, &pc.Amount); err != nil {
			return err
		}
		p.Components = append(p.Components, pc)
	}
	return rows.Err()
}

func insertComponents(ctx context.Context, tx pgx.Tx, policyID string, components []PolicyComponent) error {
	for i, pc := range components {
		_, err := tx.Exec(ctx, `
      INSERT INTO salary_policy_components (policy_id, component_id, amount, ordinal)
      VALUES ($1, $2, $3, $4)
    `, policyID, pc.ComponentID, pc.Amount, i)
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
