package shift

import "context"

// StoreAPI is the persistence surface for shifts. Lookups return nil
// (not an error) when no record matches.
type StoreAPI interface {
	Get(ctx context.Context, id string) (*Shift, error)
	FindByName(ctx context.Context, name, excludeID string) (*Shift, error)
	Count(ctx context.Context, search string) (int, error)
	List(ctx context.Context, search string, limit, offset int) ([]Shift, error)
	Options(ctx context.Context) ([]Option, error)
	Create(ctx context.Context, sh Shift) (*Shift, error)
	Update(ctx context.Context, sh Shift) (*Shift, error)
	SetStatus(ctx context.Context, id, status string) (*Shift, error)
	Delete(ctx context.Context, id string) error
}
