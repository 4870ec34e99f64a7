package salary

import "time"

type Component struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PolicyComponent attaches an amount to one salary component within a
// policy.
type PolicyComponent struct {
	ComponentID   string  `json:"salaryComponent"`
	ComponentName string  `json:"componentName,omitempty"`
	Amount        float64 `json:"amount"`
}

type Policy struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Components []PolicyComponent `json:"components"`
	Status     string            `json:"status"`
	CreatedBy  string            `json:"createdBy,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
