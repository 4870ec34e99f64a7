package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// DepartmentSummary is one row of the organization report.
type DepartmentSummary struct {
	Name          string
	PositionCount string
	Positions     int
	Employees     int
}

func (s *Store) DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.name, d.position_count, COUNT(p.id), d.employee_count
    FROM departments d
    LEFT JOIN positions p ON p.department_id = d.id
    GROUP BY d.id
    ORDER BY LOWER(d.name)
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentSummary
	for rows.Next() {
		var ds DepartmentSummary
		if err := rows.Scan(&ds.Name, &ds.PositionCount, &ds.Positions, &ds.Employees); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Totals for the report header.
func (s *Store) Totals(ctx context.Context) (departments, positions, policies int, err error) {
	err = s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM departments),
      (SELECT COUNT(1) FROM positions),
      (SELECT COUNT(1) FROM leave_policies)
  `).Scan(&departments, &positions, &policies)
	return
}
