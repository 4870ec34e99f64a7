package salary

import "context"

// StoreAPI is the persistence surface for salary components and
// policies. Lookups return nil (not an error) when no record matches.
type StoreAPI interface {
	GetComponent(ctx context.Context, id string) (*Component, error)
	FindComponentByName(ctx context.Context, name, excludeID string) (*Component, error)
	CountComponents(ctx context.Context, search string) (int, error)
	ListComponents(ctx context.Context, search string, limit, offset int) ([]Component, error)
	ComponentOptions(ctx context.Context) ([]Option, error)
	CreateComponent(ctx context.Context, c Component) (*Component, error)
	UpdateComponent(ctx context.Context, c Component) (*Component, error)
	SetComponentStatus(ctx context.Context, id, status string) (*Component, error)
	DeleteComponent(ctx context.Context, id string) error
	ComponentExists(ctx context.Context, id string) (bool, error)
	CountPoliciesByComponent(ctx context.Context, componentID string) (int, error)

	GetPolicy(ctx context.Context, id string) (*Policy, error)
	FindPolicyByName(ctx context.Context, name, excludeID string) (*Policy, error)
	CountPolicies(ctx context.Context, search string) (int, error)
	ListPolicies(ctx context.Context, search string, limit, offset int) ([]Policy, error)
	PolicyOptions(ctx context.Context) ([]Option, error)
	CreatePolicy(ctx context.Context, p Policy) (*Policy, error)
	UpdatePolicy(ctx context.Context, p Policy) (*Policy, error)
	SetPolicyStatus(ctx context.Context, id, status string) (*Policy, error)
	DeletePolicy(ctx context.Context, id string) error
}
