package idea

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

const ideaColumns = `
    id, title, summary, description, tags, user_id, created_at, updated_at`

func scanIdea(row pgx.Row) (*Idea, error) {
	var i Idea
	err := row.Scan(&i.ID, &i.Title, &i.Summary, &i.Description, &i.Tags, &i.UserID, &i.CreatedAt, &i.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Idea, error) {
	return scanIdea(s.DB.QueryRow(ctx, `
    SELECT`+ideaColumns+`
    FROM ideas
    WHERE id = $1
  `, id))
}

func (s *Store) List(ctx context.Context, limit int) ([]Idea, error) {
	query := `
    SELECT` + ideaColumns + `
    FROM ideas
    ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		var i Idea
		if err := rows.Scan(&i.ID, &i.Title, &i.Summary, &i.Description, &i.Tags, &i.UserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, i Idea) (*Idea, error) {
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return scanIdea(s.DB.QueryRow(ctx, `
    INSERT INTO ideas (title, summary, description, tags, user_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING`+ideaColumns+`
  `, i.Title, i.Summary, i.Description, i.Tags, i.UserID))
}

func (s *Store) Update(ctx context.Context, i Idea) (*Idea, error) {
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return scanIdea(s.DB.QueryRow(ctx, `
    UPDATE ideas
    SET title = $1, summary = $2, description = $3, tags = $4, updated_at = now()
    WHERE id = $5
    RETURNING`+ideaColumns+`
  `, i.Title, i.Summary, i.Description, i.Tags, i.ID))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM ideas WHERE id = $1", id)
	return err
}
