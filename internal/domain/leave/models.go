package leave

import "time"

type LeaveType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entitlement grants a number of days against one leave type. Days is
// fractional to allow half-day allowances.
type Entitlement struct {
	LeaveTypeID   string  `json:"leaveType"`
	LeaveTypeName string  `json:"leaveTypeName,omitempty"`
	Days          float64 `json:"days"`
}

type Policy struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Entitlements []Entitlement `json:"entitlements"`
	Status       string        `json:"status"`
	CreatedBy    string        `json:"createdBy,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
