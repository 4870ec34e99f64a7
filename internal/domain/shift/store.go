package shift

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const shiftColumns = `
    id, name, start_time, end_time, intervals, working_days,
    COALESCE(notes, ''), status, COALESCE(created_by, ''), created_at, updated_at`

func scanShift(row pgx.Row) (*Shift, error) {
	var sh Shift
	var intervals []byte
	err := row.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &intervals, &sh.WorkingDays,
		&sh.Notes, &sh.Status, &sh.CreatedBy, &sh.CreatedAt, &sh.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(intervals) > 0 {
		if err := json.Unmarshal(intervals, &sh.Intervals); err != nil {
			return nil, err
		}
	}
	return &sh, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Shift, error) {
	return scanShift(s.DB.QueryRow(ctx, `
    SELECT`+shiftColumns+`
    FROM shifts
    WHERE id = $1
  `, id))
}

func (s *Store) FindByName(ctx context.Context, name, excludeID string) (*Shift, error) {
	if excludeID == "" {
		return scanShift(s.DB.QueryRow(ctx, `
      SELECT`+shiftColumns+`
      FROM shifts
      WHERE LOWER(name) = LOWER($1)
    `, name))
	}
	return scanShift(s.DB.QueryRow(ctx, `
    SELECT`+shiftColumns+`
    FROM shifts
    WHERE LOWER(name) = LOWER($1) AND id <> $2
  `, name, excludeID))
}

func (s *Store) Count(ctx context.Context, search string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM shifts
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
  `, search).Scan(&count)
	return count, err
}

func (s *Store) List(ctx context.Context, search string, limit, offset int) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+shiftColumns+`
    FROM shifts
    WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var sh Shift
		var intervals []byte
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &intervals, &sh.WorkingDays,
			&sh.Notes, &sh.Status, &sh.CreatedBy, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, err
		}
		if len(intervals) > 0 {
			if err := json.Unmarshal(intervals, &sh.Intervals); err != nil {
				return nil, err
			}
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) Options(ctx context.Context) ([]Option, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM shifts ORDER BY LOWER(name)")
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

func (s *Store) Create(ctx context.Context, sh Shift) (*Shift, error) {
	intervals, err := json.Marshal(sh.Intervals)
	if err != nil {
		return nil, err
	}
	return scanShift(s.DB.QueryRow(ctx, `
    INSERT INTO shifts (name, start_time, end_time, intervals, working_days, notes, status, created_by)
    VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
    RETURNING`+shiftColumns+`
  `, sh.Name, sh.StartTime, sh.EndTime, intervals, sh.WorkingDays, sh.Notes, sh.Status, sh.CreatedBy))
}

func (s *Store) Update(ctx context.Context, sh Shift) (*Shift, error) {
	intervals, err := json.Marshal(sh.Intervals)
	if err != nil {
		return nil, err
	}
	return scanShift(s.DB.QueryRow(ctx, `
    UPDATE shifts
    SET name = $1, start_time = $2, end_time = $3, intervals = $4,
        working_days = $5, notes = $6, updated_at = now()
    WHERE id = $7
    RETURNING`+shiftColumns+`
  `, sh.Name, sh.StartTime, sh.EndTime, intervals, sh.WorkingDays, sh.Notes, sh.ID))
}

func (s *Store) SetStatus(ctx context.Context, id, status string) (*Shift, error) {
	return scanShift(s.DB.QueryRow(ctx, `
    UPDATE shifts
    SET status = $1, updated_at = now()
    WHERE id = $2
    RETURNING`+shiftColumns+`
  `, status, id))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM shifts WHERE id = $1", id)
	return err
}
