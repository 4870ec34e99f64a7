package idea

import "context"

// StoreAPI is the persistence surface for ideas. Lookups return nil
// (not an error) when no record matches.
type StoreAPI interface {
	Get(ctx context.Context, id string) (*Idea, error)
	List(ctx context.Context, limit int) ([]Idea, error)
	Create(ctx context.Context, i Idea) (*Idea, error)
	Update(ctx context.Context, i Idea) (*Idea, error)
	Delete(ctx context.Context, id string) error
}
